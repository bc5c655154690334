package telegram

import (
	"fmt"
	"time"

	"github.com/gotd/td/tg"
)

// ChatKind classifies a dialog peer.
type ChatKind int

const (
	KindUnknown    ChatKind = iota
	KindPrivate             // one-on-one conversation with a user
	KindGroup               // legacy small group
	KindSupergroup          // megagroup
	KindChannel             // broadcast channel
)

func (k ChatKind) String() string {
	switch k {
	case KindPrivate:
		return "private"
	case KindGroup:
		return "group"
	case KindSupergroup:
		return "supergroup"
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// Chat is a resolved peer the cleaner can act on.
type Chat struct {
	ID         int64    // peer id (user id, chat id or channel id)
	AccessHash int64    // access hash for api calls (users and channels)
	Title      string   // display title, or the user's name for private chats
	Username   string   // public username (without @), may be empty
	Kind       ChatKind // peer classification
}

// InputPeer builds the tg input peer for API calls.
func (c *Chat) InputPeer() tg.InputPeerClass {
	switch c.Kind {
	case KindPrivate:
		return &tg.InputPeerUser{UserID: c.ID, AccessHash: c.AccessHash}
	case KindGroup:
		return &tg.InputPeerChat{ChatID: c.ID}
	case KindSupergroup, KindChannel:
		return &tg.InputPeerChannel{ChannelID: c.ID, AccessHash: c.AccessHash}
	default:
		return &tg.InputPeerEmpty{}
	}
}

// InputChannel builds the tg input channel for channel-only API calls.
// Valid only for supergroups and channels.
func (c *Chat) InputChannel() *tg.InputChannel {
	return &tg.InputChannel{ChannelID: c.ID, AccessHash: c.AccessHash}
}

// IsChannelKind reports whether the peer lives in the channels namespace
// (supergroup or broadcast channel).
func (c *Chat) IsChannelKind() bool {
	return c.Kind == KindSupergroup || c.Kind == KindChannel
}

// Label returns a human-readable identifier for logs and prompts.
func (c *Chat) Label() string {
	if c.Title != "" {
		return fmt.Sprintf("%s (%d)", c.Title, c.ID)
	}
	if c.Username != "" {
		return fmt.Sprintf("@%s (%d)", c.Username, c.ID)
	}
	return fmt.Sprintf("chat %d", c.ID)
}

// Message is a search result inside one chat.
type Message struct {
	ID     int       // message id (unique within the chat)
	FromID int64     // sender user id, 0 when hidden or not a user
	Out    bool      // message was sent by the logged-in account
	Text   string    // message text content
	Date   time.Time // message creation timestamp
}

// Own reports whether the message was authored by the given account id.
func (m *Message) Own(selfID int64) bool {
	return m.Out || (m.FromID != 0 && m.FromID == selfID)
}
