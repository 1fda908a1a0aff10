package pocket

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
	"time"
)

// DefaultPageSize is the page size RetrieveAll uses when the request carries
// no explicit count.
const DefaultPageSize = 100

// ItemState filters retrieval by read state.
type ItemState string

// Recognized read states.
const (
	StateUnread  ItemState = "unread"
	StateArchive ItemState = "archive"
	StateAll     ItemState = "all"
)

// ContentType filters retrieval by the kind of content.
type ContentType string

// Recognized content types.
const (
	TypeArticle ContentType = "article"
	TypeVideo   ContentType = "video"
	TypeImage   ContentType = "image"
)

// SortOrder controls the order items are returned in.
type SortOrder string

// Recognized sort orders.
const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortTitle  SortOrder = "title"
	SortSite   SortOrder = "site"
)

// DetailLevel controls how much metadata the service returns per item.
type DetailLevel string

// Recognized detail levels.
const (
	DetailSimple   DetailLevel = "simple"
	DetailComplete DetailLevel = "complete"
)

// untaggedFilter is the wire value selecting items with no tags.
const untaggedFilter = "_untagged_"

// RetrieveRequest builds the filter options for the retrieve endpoint. All
// options are optional; an unset option means "no constraint". Setting the
// same option to two different values is a construction-time error, surfaced
// through Err and again by Retrieve before any network call.
//
// The zero value is not usable; create requests with NewRetrieveRequest.
type RetrieveRequest struct {
	params map[string]string
	err    error
}

// NewRetrieveRequest creates an empty retrieve request.
func NewRetrieveRequest() *RetrieveRequest {
	return &RetrieveRequest{params: make(map[string]string)}
}

func (r *RetrieveRequest) set(key, value string) *RetrieveRequest {
	if r.err != nil {
		return r
	}
	if prev, ok := r.params[key]; ok && prev != value {
		r.err = fmt.Errorf("%w: %s set to both %q and %q", ErrConflictingOptions, key, prev, value)
		return r
	}
	r.params[key] = value
	return r
}

// Err returns the first conflict recorded while building the request.
func (r *RetrieveRequest) Err() error {
	return r.err
}

// State restricts results to the given read state.
func (r *RetrieveRequest) State(state ItemState) *RetrieveRequest {
	return r.set("state", string(state))
}

// FavoritedOnly restricts results to favorited items.
func (r *RetrieveRequest) FavoritedOnly() *RetrieveRequest {
	return r.set("favorite", "1")
}

// UnfavoritedOnly restricts results to unfavorited items.
func (r *RetrieveRequest) UnfavoritedOnly() *RetrieveRequest {
	return r.set("favorite", "0")
}

// Tag restricts results to items carrying the given tag.
func (r *RetrieveRequest) Tag(tag string) *RetrieveRequest {
	return r.set("tag", tag)
}

// Untagged restricts results to items with no tags.
func (r *RetrieveRequest) Untagged() *RetrieveRequest {
	return r.set("tag", untaggedFilter)
}

// ContentType restricts results to the given content type.
func (r *RetrieveRequest) ContentType(ct ContentType) *RetrieveRequest {
	return r.set("contentType", string(ct))
}

// Sort sets the order items are returned in.
func (r *RetrieveRequest) Sort(order SortOrder) *RetrieveRequest {
	return r.set("sort", string(order))
}

// Detail sets how much metadata is returned per item.
func (r *RetrieveRequest) Detail(level DetailLevel) *RetrieveRequest {
	return r.set("detailType", string(level))
}

// Search restricts results to items whose title or URL contain the term.
func (r *RetrieveRequest) Search(term string) *RetrieveRequest {
	return r.set("search", term)
}

// Domain restricts results to items from the given domain.
func (r *RetrieveRequest) Domain(domain string) *RetrieveRequest {
	return r.set("domain", domain)
}

// Since restricts results to items modified after the given time. Deleted
// items appear as tombstones in since-filtered responses.
func (r *RetrieveRequest) Since(t time.Time) *RetrieveRequest {
	return r.set("since", strconv.FormatInt(t.Unix(), 10))
}

// Count limits the number of items returned.
func (r *RetrieveRequest) Count(count int) *RetrieveRequest {
	return r.set("count", strconv.Itoa(count))
}

// Offset starts returning items from the given position. Only meaningful
// together with Count.
func (r *RetrieveRequest) Offset(offset int) *RetrieveRequest {
	return r.set("offset", strconv.Itoa(offset))
}

// clone copies the request so pagination can vary count/offset without
// mutating the caller's request.
func (r *RetrieveRequest) clone() *RetrieveRequest {
	params := make(map[string]string, len(r.params))
	for k, v := range r.params {
		params[k] = v
	}
	return &RetrieveRequest{params: params, err: r.err}
}

// count returns the explicit count option, or 0 when unset.
func (r *RetrieveRequest) count() int {
	n, _ := strconv.Atoi(r.params["count"])
	return n
}

type retrieveResponse struct {
	Status int             `json:"status"`
	List   json.RawMessage `json:"list"`
}

// Retrieve fetches a single page of items matching the request. Items are
// returned in the service's order for the requested sort. A request carrying
// a construction-time conflict fails here without touching the network.
func (c *Client) Retrieve(ctx context.Context, req *RetrieveRequest) ([]Item, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if req == nil {
		req = NewRetrieveRequest()
	}
	if req.err != nil {
		return nil, req.err
	}

	payload := make(map[string]string, len(req.params)+2)
	for k, v := range req.params {
		payload[k] = v
	}
	payload["consumer_key"] = c.consumerKey
	payload["access_token"] = c.accessToken

	var resp retrieveResponse
	if err := c.doRequest(ctx, "/get", payload, &resp); err != nil {
		return nil, err
	}

	items, err := decodeList(resp.List)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Int("items", len(items)).Msg("Retrieved Pocket items")
	return items, nil
}

// RetrieveAll returns a lazy sequence over every item matching the request,
// fetching count/offset pages on demand. The sequence is finite and single
// use: it ends when a page comes back short or empty, and it cannot be
// restarted. The request's count option sets the page size, DefaultPageSize
// otherwise; its offset option sets the starting position.
//
// A page-level failure is yielded as the non-nil error of the final pair,
// after which the sequence stops.
func (c *Client) RetrieveAll(ctx context.Context, req *RetrieveRequest) iter.Seq2[Item, error] {
	if req == nil {
		req = NewRetrieveRequest()
	}

	pageSize := req.count()
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	start, _ := strconv.Atoi(req.params["offset"])

	return func(yield func(Item, error) bool) {
		offset := start
		for {
			// The clone carries the caller's count/offset; overwrite them
			// for this page.
			page := req.clone()
			page.params["count"] = strconv.Itoa(pageSize)
			page.params["offset"] = strconv.Itoa(offset)

			items, err := c.Retrieve(ctx, page)
			if err != nil {
				yield(Item{}, err)
				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			if len(items) < pageSize {
				return
			}
			offset += pageSize
		}
	}
}

// ListAll collects the whole reading list, unread and archived alike, at the
// complete detail level.
func (c *Client) ListAll(ctx context.Context) ([]Item, error) {
	req := NewRetrieveRequest().
		State(StateAll).
		Detail(DetailComplete).
		Sort(SortSite)

	var items []Item
	for item, err := range c.RetrieveAll(ctx, req) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
