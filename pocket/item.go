package pocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Bit is a boolean flag the API encodes as the strings "0" and "1". Some
// responses use bare numbers instead; both are accepted. A missing field
// decodes to false, which is the documented default for these flags.
type Bit bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bit) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "", "0", "false", "null":
		*b = false
	case "1", "true":
		*b = true
	default:
		return fmt.Errorf("invalid flag value %s", data)
	}
	return nil
}

// MarshalJSON implements json.Marshaler, producing the wire's "0"/"1" form.
func (b Bit) MarshalJSON() ([]byte, error) {
	if b {
		return []byte(`"1"`), nil
	}
	return []byte(`"0"`), nil
}

// Number is an integer the API inconsistently encodes as either a JSON
// number or a decimal string. Empty strings and null decode to zero.
type Number int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", data, err)
	}
	*n = Number(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(n), 10))), nil
}

// Timestamp is a UNIX timestamp in integer seconds, encoded on the wire as a
// decimal string. The zero value means the event never happened.
type Timestamp int64

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return Number(t).MarshalJSON()
}

// Time converts the timestamp into a time.Time. Zero timestamps convert to
// the zero time.
func (t Timestamp) Time() time.Time {
	if t == 0 {
		return time.Time{}
	}
	return time.Unix(int64(t), 0)
}

// ItemStatus is the read state of an item.
type ItemStatus int

const (
	// StatusUnread marks an item sitting in the reading list.
	StatusUnread ItemStatus = 0
	// StatusArchived marks an item moved to the archive.
	StatusArchived ItemStatus = 1
	// StatusDeleted marks a tombstone: the item should be removed from any
	// local view. Returned for deleted items when retrieving with a since
	// timestamp.
	StatusDeleted ItemStatus = 2
)

// UnmarshalJSON implements json.Unmarshaler.
func (s *ItemStatus) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = ItemStatus(n)
	return nil
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	switch s {
	case StatusUnread:
		return "unread"
	case StatusArchived:
		return "archived"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Presence is the tri-state the API uses for has_image and has_video: the
// item has none, contains one, or is one.
type Presence int

const (
	// PresenceNone means the item neither has nor is the media kind.
	PresenceNone Presence = 0
	// PresenceHas means the item contains the media kind.
	PresenceHas Presence = 1
	// PresenceIs means the item is the media kind itself.
	PresenceIs Presence = 2
)

// UnmarshalJSON implements json.Unmarshaler.
func (p *Presence) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = Presence(n)
	return nil
}

// Item is a bookmark in the account's reading list. The service omits
// fields inconsistently depending on detail level and content type, so every
// field decodes leniently and defaults to its zero value when absent.
type Item struct {
	ItemID        string     `json:"item_id"`
	ResolvedID    string     `json:"resolved_id"`
	GivenURL      string     `json:"given_url"`
	ResolvedURL   string     `json:"resolved_url"`
	GivenTitle    string     `json:"given_title"`
	ResolvedTitle string     `json:"resolved_title"`
	Favorite      Bit        `json:"favorite"`
	Status        ItemStatus `json:"status"`
	Excerpt       string     `json:"excerpt"`
	IsArticle     Bit        `json:"is_article"`
	IsIndex       Bit        `json:"is_index"`
	HasImage      Presence   `json:"has_image"`
	HasVideo      Presence   `json:"has_video"`
	WordCount     Number     `json:"word_count"`
	Lang          string     `json:"lang"`

	TimeAdded     Timestamp `json:"time_added"`
	TimeUpdated   Timestamp `json:"time_updated"`
	TimeRead      Timestamp `json:"time_read"`
	TimeFavorited Timestamp `json:"time_favorited"`

	// SortID is the position of the item in the requested sort order.
	SortID int `json:"sort_id"`

	TopImageURL            string          `json:"top_image_url"`
	AmpURL                 string          `json:"amp_url"`
	ListenDurationEstimate Number          `json:"listen_duration_estimate"`
	TimeToRead             Number          `json:"time_to_read"`
	DomainMetadata         *DomainMetadata `json:"domain_metadata,omitempty"`

	// Only present when retrieving with the complete detail level.
	Tags    map[string]Tag    `json:"tags,omitempty"`
	Authors map[string]Author `json:"authors,omitempty"`
	Images  map[string]Image  `json:"images,omitempty"`
	Videos  map[string]Video  `json:"videos,omitempty"`
	Image   *ItemImage        `json:"image,omitempty"`
}

// URL returns the resolved URL when the service has processed the item, and
// the URL it was saved with otherwise.
func (i *Item) URL() string {
	if i.ResolvedURL != "" {
		return i.ResolvedURL
	}
	return i.GivenURL
}

// Title returns the best available title: the one the service parsed, then
// the one saved with the item, then the URL.
func (i *Item) Title() string {
	if i.ResolvedTitle != "" {
		return i.ResolvedTitle
	}
	if i.GivenTitle != "" {
		return i.GivenTitle
	}
	return i.URL()
}

// Deleted reports whether the item is a deletion tombstone.
func (i *Item) Deleted() bool {
	return i.Status == StatusDeleted
}

// TagNames returns the item's tag names sorted alphabetically.
func (i *Item) TagNames() []string {
	if len(i.Tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(i.Tags))
	for name := range i.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTag reports whether the item carries the given tag.
func (i *Item) HasTag(tag string) bool {
	_, ok := i.Tags[tag]
	return ok
}

// DomainMetadata describes the site an item was saved from.
type DomainMetadata struct {
	Name          string `json:"name"`
	Logo          string `json:"logo"`
	GreyscaleLogo string `json:"greyscale_logo"`
}

// Tag is a tag applied to an item.
type Tag struct {
	ItemID string `json:"item_id"`
	Tag    string `json:"tag"`
}

// Author is an author associated with an item.
type Author struct {
	ItemID   string `json:"item_id"`
	AuthorID string `json:"author_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// Image is an image found in an item.
type Image struct {
	ItemID  string `json:"item_id"`
	ImageID string `json:"image_id"`
	Src     string `json:"src"`
	Width   Number `json:"width"`
	Height  Number `json:"height"`
	Credit  string `json:"credit"`
	Caption string `json:"caption"`
}

// ItemImage is the main image of an item, present at the complete detail
// level.
type ItemImage struct {
	ItemID string `json:"item_id"`
	Src    string `json:"src"`
	Width  Number `json:"width"`
	Height Number `json:"height"`
}

// Video is a video found in an item.
type Video struct {
	ItemID  string `json:"item_id"`
	VideoID string `json:"video_id"`
	Src     string `json:"src"`
	Width   Number `json:"width"`
	Height  Number `json:"height"`
	Type    Number `json:"type"`
	VID     string `json:"vid"`
	Length  Number `json:"length"`
}

// decodeList decodes the "list" value of a retrieve response. The service
// returns an object keyed by item id when there are items, but switches to
// an empty JSON array when there are none.
func decodeList(raw json.RawMessage) ([]Item, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var empty []json.RawMessage
		if err := json.Unmarshal(trimmed, &empty); err != nil {
			return nil, fmt.Errorf("failed to parse item list: %w", err)
		}
		if len(empty) > 0 {
			return nil, fmt.Errorf("unexpected array of %d items in list response", len(empty))
		}
		return nil, nil
	}

	var keyed map[string]Item
	if err := json.Unmarshal(trimmed, &keyed); err != nil {
		return nil, fmt.Errorf("failed to parse item list: %w", err)
	}

	items := make([]Item, 0, len(keyed))
	for id, item := range keyed {
		if item.ItemID == "" {
			item.ItemID = id
		}
		items = append(items, item)
	}

	// The map loses the service's ordering; sort_id restores the order of
	// the requested sort.
	sort.Slice(items, func(i, j int) bool {
		if items[i].SortID != items[j].SortID {
			return items[i].SortID < items[j].SortID
		}
		return items[i].ItemID < items[j].ItemID
	})

	return items, nil
}
