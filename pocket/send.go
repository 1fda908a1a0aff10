package pocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// ActionResult is the outcome of one action in a batch. Exactly one of Err
// being nil or non-nil distinguishes success from failure; Item is set for
// successful add and readd actions, for which the service returns the
// created or restored item.
type ActionResult struct {
	Action Action
	Item   *Item
	Err    error
}

// Succeeded reports whether the action was applied.
func (r ActionResult) Succeeded() bool {
	return r.Err == nil
}

// ActionError is a per-action failure inside an otherwise successful batch.
type ActionError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	if e.Type != "" && e.Message != "" {
		return fmt.Sprintf("action rejected: %s: %s", e.Type, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("action rejected: %s", e.Message)
	}
	return "action rejected by the service"
}

type sendRequest struct {
	ConsumerKey string   `json:"consumer_key"`
	AccessToken string   `json:"access_token"`
	Actions     []Action `json:"actions"`
}

type sendResponse struct {
	Status        int               `json:"status"`
	ActionResults []json.RawMessage `json:"action_results"`
	ActionErrors  []json.RawMessage `json:"action_errors"`
}

// Send submits an ordered batch of actions in a single request. The service
// applies actions in sequence and answers with a parallel array of per-action
// outcomes; the returned slice always has the same length and order as the
// input, matched positionally (the service does not echo identifiers, and an
// add has none until the service assigns one).
//
// A rejected action is reported through its ActionResult, not as an error;
// only a failure of the whole exchange (transport error, authentication
// failure, malformed batch) aborts with a non-nil error.
func (c *Client) Send(ctx context.Context, actions []Action) ([]ActionResult, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, ErrEmptyBatch
	}

	stamped := make([]Action, len(actions))
	for i, action := range actions {
		if err := action.Validate(); err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, action.kind, err)
		}
		if action.time.IsZero() {
			action.time = c.now()
		}
		stamped[i] = action
	}

	payload := sendRequest{
		ConsumerKey: c.consumerKey,
		AccessToken: c.accessToken,
		Actions:     stamped,
	}

	var resp sendResponse
	if err := c.doRequest(ctx, "/send", payload, &resp); err != nil {
		return nil, err
	}

	results := make([]ActionResult, len(actions))
	for i, action := range actions {
		results[i] = ActionResult{Action: action}

		if i >= len(resp.ActionResults) {
			results[i].Err = &ActionError{Message: "no result returned for action"}
			continue
		}

		raw := bytes.TrimSpace(resp.ActionResults[i])
		switch {
		case bytes.Equal(raw, []byte("false")):
			results[i].Err = actionErrorAt(resp.ActionErrors, i)
		case bytes.Equal(raw, []byte("true")):
			// Applied; nothing more to report.
		default:
			var item Item
			if err := json.Unmarshal(raw, &item); err != nil {
				results[i].Err = fmt.Errorf("failed to parse action result: %w", err)
				continue
			}
			results[i].Item = &item
		}
	}

	c.logger.Debug().
		Int("actions", len(actions)).
		Msg("Submitted Pocket action batch")

	return results, nil
}

// actionErrorAt extracts the parallel action_errors entry for a failed
// action, falling back to a generic rejection when the entry is null or
// missing.
func actionErrorAt(errs []json.RawMessage, i int) error {
	if i >= len(errs) {
		return &ActionError{}
	}
	raw := bytes.TrimSpace(errs[i])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return &ActionError{}
	}
	var actionErr ActionError
	if err := json.Unmarshal(raw, &actionErr); err != nil {
		return &ActionError{}
	}
	return &actionErr
}

// AddURLs saves each URL to the reading list in one batch.
func (c *Client) AddURLs(ctx context.Context, urls ...string) ([]ActionResult, error) {
	actions := make([]Action, len(urls))
	for i, u := range urls {
		actions[i] = Add(u)
	}
	return c.Send(ctx, actions)
}

// ArchiveItems marks each item as read in one batch.
func (c *Client) ArchiveItems(ctx context.Context, itemIDs ...string) ([]ActionResult, error) {
	actions := make([]Action, len(itemIDs))
	for i, id := range itemIDs {
		actions[i] = Archive(id)
	}
	return c.Send(ctx, actions)
}

// FavoriteItems marks each item as favorite in one batch.
func (c *Client) FavoriteItems(ctx context.Context, itemIDs ...string) ([]ActionResult, error) {
	actions := make([]Action, len(itemIDs))
	for i, id := range itemIDs {
		actions[i] = Favorite(id)
	}
	return c.Send(ctx, actions)
}
