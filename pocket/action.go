package pocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ActionKind identifies one kind of modify intent.
type ActionKind string

// The closed set of action kinds accepted by the modify endpoint.
const (
	ActionAdd        ActionKind = "add"
	ActionArchive    ActionKind = "archive"
	ActionReadd      ActionKind = "readd"
	ActionFavorite   ActionKind = "favorite"
	ActionUnfavorite ActionKind = "unfavorite"
	ActionDelete     ActionKind = "delete"

	ActionTagsAdd     ActionKind = "tags_add"
	ActionTagsRemove  ActionKind = "tags_remove"
	ActionTagsReplace ActionKind = "tags_replace"
	ActionTagsClear   ActionKind = "tags_clear"
	ActionTagRename   ActionKind = "tag_rename"
	ActionTagDelete   ActionKind = "tag_delete"
)

// Validation errors for actions whose required fields are missing. Detected
// before any network call.
var (
	ErrMissingURL    = errors.New("action requires a url")
	ErrMissingItemID = errors.New("action requires an item id")
	ErrMissingTags   = errors.New("action requires at least one tag")
	ErrMissingTag    = errors.New("action requires a tag name")
	ErrUnknownAction = errors.New("unknown action kind")
)

// Action is one unit of intent in a modify batch. Actions are built through
// the kind-specific constructors, which fix the variant and its required
// fields; fields a kind does not use are never serialized, since the service
// treats absent and empty differently for some of them.
type Action struct {
	kind   ActionKind
	itemID string
	url    string
	title  string
	tags   []string
	oldTag string
	newTag string
	tag    string
	time   time.Time
}

// Add saves a URL to the reading list.
func Add(rawURL string) Action {
	return Action{kind: ActionAdd, url: rawURL}
}

// Archive moves an item to the archive (marks it read).
func Archive(itemID string) Action {
	return Action{kind: ActionArchive, itemID: itemID}
}

// Readd moves an archived item back to the reading list.
func Readd(itemID string) Action {
	return Action{kind: ActionReadd, itemID: itemID}
}

// Favorite marks an item as favorite.
func Favorite(itemID string) Action {
	return Action{kind: ActionFavorite, itemID: itemID}
}

// Unfavorite removes an item's favorite mark.
func Unfavorite(itemID string) Action {
	return Action{kind: ActionUnfavorite, itemID: itemID}
}

// Delete permanently removes an item.
func Delete(itemID string) Action {
	return Action{kind: ActionDelete, itemID: itemID}
}

// TagsAdd adds tags to an item.
func TagsAdd(itemID string, tags ...string) Action {
	return Action{kind: ActionTagsAdd, itemID: itemID, tags: tags}
}

// TagsRemove removes tags from an item.
func TagsRemove(itemID string, tags ...string) Action {
	return Action{kind: ActionTagsRemove, itemID: itemID, tags: tags}
}

// TagsReplace replaces all of an item's tags.
func TagsReplace(itemID string, tags ...string) Action {
	return Action{kind: ActionTagsReplace, itemID: itemID, tags: tags}
}

// TagsClear removes all tags from an item.
func TagsClear(itemID string) Action {
	return Action{kind: ActionTagsClear, itemID: itemID}
}

// TagRename renames a tag across the whole account.
func TagRename(oldTag, newTag string) Action {
	return Action{kind: ActionTagRename, oldTag: oldTag, newTag: newTag}
}

// TagDelete removes a tag from every item in the account.
func TagDelete(tag string) Action {
	return Action{kind: ActionTagDelete, tag: tag}
}

// WithTitle sets the title saved along with an added URL.
func (a Action) WithTitle(title string) Action {
	a.title = title
	return a
}

// WithTags sets the tags saved along with an added URL.
func (a Action) WithTags(tags ...string) Action {
	a.tags = tags
	return a
}

// At stamps the action with an explicit time, used by the service for
// idempotent ordering. Actions without an explicit time are stamped with the
// client's clock when the batch is sent.
func (a Action) At(t time.Time) Action {
	a.time = t
	return a
}

// Kind returns the action's intent kind.
func (a Action) Kind() ActionKind {
	return a.kind
}

// ItemID returns the item the action targets, empty for add and the
// account-wide tag actions.
func (a Action) ItemID() string {
	return a.itemID
}

// Validate checks that the action carries the fields its kind requires.
func (a Action) Validate() error {
	switch a.kind {
	case ActionAdd:
		if a.url == "" {
			return ErrMissingURL
		}
	case ActionArchive, ActionReadd, ActionFavorite, ActionUnfavorite, ActionDelete, ActionTagsClear:
		if a.itemID == "" {
			return ErrMissingItemID
		}
	case ActionTagsAdd, ActionTagsRemove, ActionTagsReplace:
		if a.itemID == "" {
			return ErrMissingItemID
		}
		if len(a.tags) == 0 {
			return ErrMissingTags
		}
	case ActionTagRename:
		if a.oldTag == "" || a.newTag == "" {
			return ErrMissingTag
		}
	case ActionTagDelete:
		if a.tag == "" {
			return ErrMissingTag
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.kind)
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Only fields that are set are
// emitted.
func (a Action) MarshalJSON() ([]byte, error) {
	m := map[string]string{"action": string(a.kind)}
	if a.itemID != "" {
		m["item_id"] = a.itemID
	}
	if a.url != "" {
		m["url"] = a.url
	}
	if a.title != "" {
		m["title"] = a.title
	}
	if len(a.tags) > 0 {
		m["tags"] = strings.Join(a.tags, ",")
	}
	if a.oldTag != "" {
		m["old_tag"] = a.oldTag
	}
	if a.newTag != "" {
		m["new_tag"] = a.newTag
	}
	if a.tag != "" {
		m["tag"] = a.tag
	}
	if !a.time.IsZero() {
		m["time"] = strconv.FormatInt(a.time.Unix(), 10)
	}
	return json.Marshal(m)
}
