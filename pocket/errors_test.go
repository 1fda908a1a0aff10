package pocket

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: status, Header: h}
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *http.Response
		wantErr bool
	}{
		{
			name: "plain 200",
			resp: response(200, nil),
		},
		{
			name: "200 with explicit zero error code",
			resp: response(200, map[string]string{"X-Error-Code": "0"}),
		},
		{
			name:    "200 carrying a semantic failure",
			resp:    response(200, map[string]string{"X-Error-Code": "138", "X-Error": "Missing consumer key"}),
			wantErr: true,
		},
		{
			name:    "400",
			resp:    response(400, map[string]string{"X-Error-Code": "130"}),
			wantErr: true,
		},
		{
			name:    "500 without vendor headers",
			resp:    response(500, nil),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkResponse(tt.resp)
			if tt.wantErr {
				require.NotNil(t, err)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestCheckResponseFields(t *testing.T) {
	err := checkResponse(response(401, map[string]string{
		"X-Error-Code":           "107",
		"X-Error":                "Invalid access token",
		"X-Limit-User-Remaining": "99",
		"X-Limit-User-Reset":     "25",
	}))
	require.NotNil(t, err)
	assert.Equal(t, 401, err.StatusCode)
	assert.Equal(t, 107, err.Code)
	assert.Equal(t, "Invalid access token", err.Message)
	assert.Equal(t, 99, err.RateRemaining)
	assert.Equal(t, 25, err.RateReset)

	// Missing vendor headers fall back to the HTTP status.
	err = checkResponse(response(503, nil))
	require.NotNil(t, err)
	assert.Equal(t, 0, err.Code)
	assert.Equal(t, "Service Unavailable", err.Message)
	assert.Equal(t, -1, err.RateRemaining)
}

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		auth       bool
		permission bool
		rate       bool
		bad        bool
		server     bool
	}{
		{
			name: "authentication failure",
			err:  &APIError{StatusCode: 401, Code: 107, RateRemaining: -1},
			auth: true,
		},
		{
			name:       "permission failure",
			err:        &APIError{StatusCode: 403, RateRemaining: 42},
			permission: true,
		},
		{
			name: "quota exhausted on 403",
			err:  &APIError{StatusCode: 403, RateRemaining: 0},
			rate: true,
		},
		{
			name: "explicit 429",
			err:  &APIError{StatusCode: 429, RateRemaining: -1},
			rate: true,
		},
		{
			name: "malformed request",
			err:  &APIError{StatusCode: 400, Code: 130, RateRemaining: -1},
			bad:  true,
		},
		{
			name:   "server failure",
			err:    &APIError{StatusCode: 503, RateRemaining: -1},
			server: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.auth, tt.err.IsAuthFailure())
			assert.Equal(t, tt.permission, tt.err.IsPermissionFailure())
			assert.Equal(t, tt.rate, tt.err.IsRateLimited())
			assert.Equal(t, tt.bad, tt.err.IsBadRequest())
			assert.Equal(t, tt.server, tt.err.IsServerFailure())
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 403, Code: 152, Message: "Invalid consumer key"}
	assert.Equal(t, "pocket API error: status 403, code 152: Invalid consumer key", err.Error())

	err = &APIError{StatusCode: 500, Message: "Internal Server Error"}
	assert.Equal(t, "pocket API error: status 500: Internal Server Error", err.Error())
}
