package pocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieveRequestConflict(t *testing.T) {
	req := NewRetrieveRequest().State(StateUnread).State(StateArchive)
	require.Error(t, req.Err())
	assert.ErrorIs(t, req.Err(), ErrConflictingOptions)

	// Re-setting the same value is not a conflict.
	req = NewRetrieveRequest().State(StateUnread).State(StateUnread)
	assert.NoError(t, req.Err())

	req = NewRetrieveRequest().FavoritedOnly().UnfavoritedOnly()
	assert.ErrorIs(t, req.Err(), ErrConflictingOptions)

	req = NewRetrieveRequest().Tag("golang").Untagged()
	assert.ErrorIs(t, req.Err(), ErrConflictingOptions)
}

func TestRetrieveConflictNeverReachesNetwork(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	req := NewRetrieveRequest().State(StateUnread).State(StateArchive)
	_, err := client.Retrieve(context.Background(), req)
	assert.ErrorIs(t, err, ErrConflictingOptions)
	assert.Equal(t, 0, requests)
}

func TestRetrieve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-consumer-key", body["consumer_key"])
		assert.Equal(t, "test-access-token", body["access_token"])
		assert.Equal(t, "unread", body["state"])
		assert.Equal(t, "newest", body["sort"])

		w.Write([]byte(`{
			"status": 1,
			"list": {
				"200": {"item_id": "200", "resolved_title": "Second", "sort_id": 1, "favorite": "0"},
				"100": {"item_id": "100", "resolved_title": "First", "sort_id": 0, "favorite": "1", "status": "1"}
			}
		}`))
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	req := NewRetrieveRequest().State(StateUnread).Sort(SortNewest)
	items, err := client.Retrieve(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// sort_id restores the service's ordering lost in the keyed list.
	assert.Equal(t, "100", items[0].ItemID)
	assert.Equal(t, "200", items[1].ItemID)
	assert.True(t, bool(items[0].Favorite))
	assert.Equal(t, StatusArchived, items[0].Status)

	// Fields the service omitted default to their zero values.
	assert.False(t, bool(items[1].Favorite))
	assert.Equal(t, StatusUnread, items[1].Status)
	assert.Zero(t, items[1].WordCount)
	assert.Empty(t, items[1].Tags)
}

func TestRetrieveEmptyList(t *testing.T) {
	// Pocket switches "list" from an object to an empty array when the
	// response contains no items.
	for _, list := range []string{`[]`, `{}`} {
		t.Run(list, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"status": 2, "list": %s}`, list)
			}))
			defer server.Close()

			client := newAuthorizedClient(t, server.URL)

			items, err := client.Retrieve(context.Background(), NewRetrieveRequest())
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestRetrieveRequiresAuthorization(t *testing.T) {
	client := newTestClient(t, "http://unused")

	_, err := client.Retrieve(context.Background(), NewRetrieveRequest())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRetrieveSinceAndDomain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1700000000", body["since"])
		assert.Equal(t, "example.com", body["domain"])
		assert.Equal(t, "complete", body["detailType"])

		w.Write([]byte(`{"status": 1, "list": {}}`))
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	req := NewRetrieveRequest().
		Since(time.Unix(1700000000, 0)).
		Domain("example.com").
		Detail(DetailComplete)
	_, err := client.Retrieve(context.Background(), req)
	require.NoError(t, err)
}

func paginatedList(offset, n int) string {
	list := make(map[string]any, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%d", offset+i)
		list[id] = map[string]any{"item_id": id, "sort_id": i}
	}
	encoded, _ := json.Marshal(map[string]any{"status": 1, "list": list})
	return string(encoded)
}

func TestRetrieveAllPagination(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body["offset"])

		assert.Equal(t, "10", body["count"])
		switch body["offset"] {
		case "0":
			w.Write([]byte(paginatedList(0, 10)))
		case "10":
			w.Write([]byte(paginatedList(10, 4)))
		default:
			t.Errorf("unexpected offset %q", body["offset"])
		}
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	var items []Item
	for item, err := range client.RetrieveAll(context.Background(), NewRetrieveRequest().Count(10)) {
		require.NoError(t, err)
		items = append(items, item)
	}

	// Ten items on the first page, four on the second, then the short page
	// ends the sequence without a third request.
	assert.Len(t, items, 14)
	assert.Equal(t, []string{"0", "10"}, requests)
}

func TestRetrieveAllStopsOnEmptyPage(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		if pages == 1 {
			w.Write([]byte(paginatedList(0, 5)))
			return
		}
		w.Write([]byte(`{"status": 2, "list": []}`))
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	count := 0
	for _, err := range client.RetrieveAll(context.Background(), NewRetrieveRequest().Count(5)) {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 5, count)
	assert.Equal(t, 2, pages)
}

func TestRetrieveAllEarlyBreak(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		w.Write([]byte(paginatedList(0, 5)))
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	for item, err := range client.RetrieveAll(context.Background(), NewRetrieveRequest().Count(5)) {
		require.NoError(t, err)
		if item.ItemID != "" {
			break
		}
	}
	assert.Equal(t, 1, pages)
}

func TestRetrieveAllSurfacesPageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Error-Code", "107")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newAuthorizedClient(t, server.URL)

	var got error
	for _, err := range client.RetrieveAll(context.Background(), NewRetrieveRequest()) {
		got = err
	}
	require.Error(t, got)

	var apiErr *APIError
	require.ErrorAs(t, got, &apiErr)
	assert.True(t, apiErr.IsAuthFailure())
}
