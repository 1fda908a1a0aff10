package pocket

import (
	"context"
	"fmt"
	"net/url"
)

// RequestToken is the short-lived token obtained in the first step of the
// authorization handshake. It is only ever produced by RequestCode and is
// consumed by ExchangeForAccessToken; a token is invalidated both by a
// successful exchange and by a later RequestCode call.
type RequestToken struct {
	code        string
	redirectURI string
}

// Authorization is the result of a completed handshake: the per-user access
// token and the account name it belongs to.
type Authorization struct {
	AccessToken string
	Username    string
}

type codeRequest struct {
	ConsumerKey string `json:"consumer_key"`
	RedirectURI string `json:"redirect_uri"`
}

type codeResponse struct {
	Code string `json:"code"`
}

type exchangeRequest struct {
	ConsumerKey string `json:"consumer_key"`
	Code        string `json:"code"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// RequestCode obtains a request token from the service, the first step of
// the handshake. Calling it again discards any previously obtained token and
// restarts the handshake; that is the documented retry path when the user
// abandons the authorization page.
func (c *Client) RequestCode(ctx context.Context, redirectURI string) (RequestToken, error) {
	payload := codeRequest{
		ConsumerKey: c.consumerKey,
		RedirectURI: redirectURI,
	}

	var resp codeResponse
	if err := c.doRequest(ctx, "/oauth/request", payload, &resp); err != nil {
		return RequestToken{}, err
	}
	if resp.Code == "" {
		return RequestToken{}, fmt.Errorf("request token missing from response")
	}

	c.pending = resp.Code
	c.logger.Debug().Msg("Obtained Pocket request token")

	return RequestToken{code: resp.Code, redirectURI: redirectURI}, nil
}

// AuthorizationURL builds the URL the user must visit to authorize the
// application. It performs no network call. The request token travels in the
// query string as the handshake requires; access tokens never do.
func (c *Client) AuthorizationURL(token RequestToken) (string, error) {
	if token.code == "" {
		return "", ErrNoRequestToken
	}

	v := url.Values{}
	v.Set("request_token", token.code)
	v.Set("redirect_uri", token.redirectURI)
	return authorizeURL + "?" + v.Encode(), nil
}

// ExchangeForAccessToken trades an authorized request token for the
// account's access token, completing the handshake. The client cannot tell
// whether the user has finished the out-of-band authorization; calling too
// early is answered by the service with an authentication failure, in which
// case the request token stays valid and the exchange can be retried.
//
// On success the request token is spent and the client is authorized.
func (c *Client) ExchangeForAccessToken(ctx context.Context, token RequestToken) (Authorization, error) {
	if token.code == "" {
		return Authorization{}, ErrNoRequestToken
	}
	if token.code != c.pending {
		return Authorization{}, ErrStaleRequestToken
	}

	payload := exchangeRequest{
		ConsumerKey: c.consumerKey,
		Code:        token.code,
	}

	var resp exchangeResponse
	if err := c.doRequest(ctx, "/oauth/authorize", payload, &resp); err != nil {
		return Authorization{}, err
	}
	if resp.AccessToken == "" {
		return Authorization{}, fmt.Errorf("access token missing from response")
	}

	auth := Authorization{AccessToken: resp.AccessToken, Username: resp.Username}

	c.pending = ""
	c.SetAuthorization(auth)
	c.logger.Debug().Str("username", auth.Username).Msg("Pocket authorization complete")

	return auth, nil
}
