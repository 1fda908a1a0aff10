package pocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthorizedClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithEndpoint(serverURL)}, opts...)
	client, err := NewClient("test-consumer-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	client.SetAuthorization(Authorization{AccessToken: "test-access-token", Username: "reader"})
	return client
}

func TestSendPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send", r.URL.Path)

		var body struct {
			ConsumerKey string              `json:"consumer_key"`
			AccessToken string              `json:"access_token"`
			Actions     []map[string]string `json:"actions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-consumer-key", body.ConsumerKey)
		assert.Equal(t, "test-access-token", body.AccessToken)
		require.Len(t, body.Actions, 3)
		assert.Equal(t, "archive", body.Actions[0]["action"])
		assert.Equal(t, "favorite", body.Actions[1]["action"])
		assert.Equal(t, "delete", body.Actions[2]["action"])

		w.Write([]byte(`{
			"status": 1,
			"action_results": [true, false, true],
			"action_errors": [null, {"type": "not_found", "message": "Item not found"}, null]
		}`))
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	results, err := client.Send(context.Background(), []Action{
		Archive("1"),
		Favorite("2"),
		Delete("3"),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Succeeded())
	assert.False(t, results[1].Succeeded())
	assert.True(t, results[2].Succeeded())

	var actionErr *ActionError
	require.ErrorAs(t, results[1].Err, &actionErr)
	assert.Equal(t, "not_found", actionErr.Type)
	assert.Equal(t, "Item not found", actionErr.Message)

	// Results map back to the submitted actions positionally.
	assert.Equal(t, "2", results[1].Action.ItemID())
}

func TestSendAddReturnsItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": 1,
			"action_results": [{"item_id": "4567", "resolved_url": "https://example.com/article"}],
			"action_errors": [null]
		}`))
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	results, err := client.Send(context.Background(), []Action{Add("https://example.com/article")})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Succeeded())
	require.NotNil(t, results[0].Item)
	assert.Equal(t, "4567", results[0].Item.ItemID)
}

func TestSendDefaultsActionTimestamps(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	explicit := time.Unix(1600000000, 0)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Actions []map[string]string `json:"actions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Actions, 2)
		assert.Equal(t, "1700000000", body.Actions[0]["time"])
		assert.Equal(t, "1600000000", body.Actions[1]["time"])

		w.Write([]byte(`{"status": 1, "action_results": [true, true]}`))
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL, WithClock(func() time.Time { return fixed }))

	_, err := client.Send(context.Background(), []Action{
		Archive("1"),
		Archive("2").At(explicit),
	})
	require.NoError(t, err)
}

func TestSendValidatesBeforeNetwork(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)
	ctx := context.Background()

	_, err := client.Send(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = client.Send(ctx, []Action{Archive("")})
	assert.ErrorIs(t, err, ErrMissingItemID)

	_, err = client.Send(ctx, []Action{Add("")})
	assert.ErrorIs(t, err, ErrMissingURL)

	assert.Equal(t, 0, requests)
}

func TestSendRequiresAuthorization(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Send(context.Background(), []Action{Archive("1")})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, requests)
}

func TestSendTopLevelFailureAbortsBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Error-Code", "107")
		w.Header().Set("X-Error", "Invalid access token")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	results, err := client.Send(context.Background(), []Action{Archive("1"), Archive("2")})
	require.Error(t, err)
	assert.Nil(t, results)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsAuthFailure())
}

func TestSendMissingResultEntries(t *testing.T) {
	// A response shorter than the batch still yields one result per action.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 1, "action_results": [true]}`))
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	results, err := client.Send(context.Background(), []Action{Archive("1"), Archive("2")})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Succeeded())
	assert.False(t, results[1].Succeeded())
}

func TestBatchHelpers(t *testing.T) {
	var gotActions []map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Actions []map[string]string `json:"actions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotActions = body.Actions

		results := make([]bool, len(body.Actions))
		for i := range results {
			results[i] = true
		}
		json.NewEncoder(w).Encode(map[string]any{"status": 1, "action_results": results})
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)
	ctx := context.Background()

	results, err := client.ArchiveItems(ctx, "1", "2", "3")
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, "archive", gotActions[0]["action"])

	results, err = client.FavoriteItems(ctx, "4")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "favorite", gotActions[0]["action"])

	results, err = client.AddURLs(ctx, "https://example.com/a", "https://example.com/b")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "add", gotActions[0]["action"])
	assert.Equal(t, "https://example.com/b", gotActions[1]["url"])
}
