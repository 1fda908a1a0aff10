package pocket

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Sentinel errors returned before any network call is made.
var (
	// ErrNotAuthenticated is returned when an authenticated operation is
	// attempted before the handshake has completed.
	ErrNotAuthenticated = errors.New("not authenticated: complete the authorization handshake first")

	// ErrNoRequestToken is returned when a token exchange is attempted with
	// a zero request token.
	ErrNoRequestToken = errors.New("no request token: call RequestCode first")

	// ErrStaleRequestToken is returned when a token exchange is attempted
	// with a request token that a later RequestCode call has replaced.
	ErrStaleRequestToken = errors.New("stale request token: a newer request token was issued")

	// ErrEmptyBatch is returned when Send is called with no actions.
	ErrEmptyBatch = errors.New("empty action batch")

	// ErrConflictingOptions is returned when a retrieve request sets the
	// same filter option to two different values.
	ErrConflictingOptions = errors.New("conflicting retrieve options")
)

// APIError is a failure signaled by the Pocket API. The service reports
// errors through a combination of the HTTP status and the X-Error-Code and
// X-Error response headers; all three are preserved here.
type APIError struct {
	// StatusCode is the HTTP status that carried the error.
	StatusCode int

	// Code is the numeric value of the X-Error-Code header, 0 if absent.
	Code int

	// Message is the X-Error header, or the HTTP status text if absent.
	Message string

	// RateRemaining is the per-user quota left on the account, taken from
	// the X-Limit-User-Remaining header. -1 when the header is absent.
	RateRemaining int

	// RateReset is the number of seconds until the per-user quota resets,
	// taken from the X-Limit-User-Reset header. -1 when the header is absent.
	RateReset int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("pocket API error: status %d, code %d: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("pocket API error: status %d: %s", e.StatusCode, e.Message)
}

// IsAuthFailure reports whether the error indicates an invalid, expired or
// not-yet-authorized token. The caller must re-run the authorization flow.
func (e *APIError) IsAuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsPermissionFailure reports whether the request was authenticated but not
// permitted.
func (e *APIError) IsPermissionFailure() bool {
	return e.StatusCode == http.StatusForbidden && !e.IsRateLimited()
}

// IsRateLimited reports whether the service asked the caller to back off.
// Pocket signals exhausted quotas with a 403 and a zeroed
// X-Limit-User-Remaining header. No backoff is performed here; the caller
// owns that policy.
func (e *APIError) IsRateLimited() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode == http.StatusForbidden && e.RateRemaining == 0
}

// IsBadRequest reports whether the service rejected the request as malformed.
func (e *APIError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsServerFailure reports whether the service itself failed.
func (e *APIError) IsServerFailure() bool {
	return e.StatusCode >= 500
}

// checkResponse is the single chokepoint every API response passes through.
// A response is successful only when the HTTP status is in the 2xx range AND
// the X-Error-Code header is absent or "0"; Pocket can attach a semantic
// failure to a 200 for some call shapes.
func checkResponse(resp *http.Response) *APIError {
	code := 0
	if raw := resp.Header.Get("X-Error-Code"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			code = parsed
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && code == 0 {
		return nil
	}

	apiErr := &APIError{
		StatusCode:    resp.StatusCode,
		Code:          code,
		Message:       resp.Header.Get("X-Error"),
		RateRemaining: headerInt(resp, "X-Limit-User-Remaining"),
		RateReset:     headerInt(resp, "X-Limit-User-Reset"),
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func headerInt(resp *http.Response, key string) int {
	raw := resp.Header.Get(key)
	if raw == "" {
		return -1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
