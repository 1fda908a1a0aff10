// Package pocket provides a client for the Pocket (getpocket.com) v3 API.
//
// The package covers the three endpoint families the service exposes: the
// OAuth-style authorization handshake, batched modifications ("send") and
// filtered retrieval ("get").
//
// # Authorization
//
// Pocket uses a three-step handshake: obtain a request token, send the user
// to the authorization page, then exchange the request token for the
// account's access token.
//
//	client, err := pocket.NewClient(consumerKey, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	token, err := client.RequestCode(ctx, redirectURI)
//	authURL, _ := client.AuthorizationURL(token)
//	// ...send the user to authURL and wait for them to approve...
//	auth, err := client.ExchangeForAccessToken(ctx, token)
//
// The access token has no client-side expiry; persist it and restore it with
// SetAuthorization on later runs. An invalid or revoked token surfaces as an
// *APIError whose IsAuthFailure method returns true, at which point the
// handshake must be run again.
//
// # Modifications
//
// Mutations are expressed as Actions and submitted in ordered batches:
//
//	results, err := client.Send(ctx, []pocket.Action{
//		pocket.Add("https://example.com/article"),
//		pocket.Archive("123456"),
//		pocket.TagsAdd("123456", "golang"),
//	})
//
// The result slice is positionally parallel to the input. A rejected action
// is reported in its ActionResult; only a failure of the whole request
// returns an error.
//
// # Retrieval
//
// Retrieve fetches one page of items; RetrieveAll paginates lazily:
//
//	req := pocket.NewRetrieveRequest().State(pocket.StateUnread).Count(30)
//	for item, err := range client.RetrieveAll(ctx, req) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(item.Title(), item.URL())
//	}
//
// # Error handling
//
// The service signals failure through a combination of HTTP status and the
// X-Error-Code / X-Error response headers, including semantic failures on a
// 200 status. Every response passes through a single classifier; failures
// are returned as *APIError values carrying the numeric code, message and
// HTTP status, with helper methods (IsAuthFailure, IsRateLimited, ...) for
// the common cases. The client never retries; rate-limit signals are
// classified and left to the caller's backoff policy.
package pocket
