package telegram

import (
	"strings"
	"time"

	"github.com/gotd/td/tg"
)

// peerID keys a peer across the separate user/chat/channel id spaces.
type peerID struct {
	kind ChatKind
	id   int64
}

// entities indexes the users and chats attached to an API response so
// dialog peers can be turned into Chat handles.
type entities struct {
	users    map[int64]*tg.User
	chats    map[int64]*tg.Chat
	channels map[int64]*tg.Channel
}

func newEntities(chats []tg.ChatClass, users []tg.UserClass) *entities {
	e := &entities{
		users:    make(map[int64]*tg.User, len(users)),
		chats:    make(map[int64]*tg.Chat),
		channels: make(map[int64]*tg.Channel),
	}
	for _, uc := range users {
		if u, ok := uc.(*tg.User); ok {
			e.users[u.ID] = u
		}
	}
	for _, cc := range chats {
		switch v := cc.(type) {
		case *tg.Chat:
			e.chats[v.ID] = v
		case *tg.Channel:
			e.channels[v.ID] = v
		}
	}
	return e
}

func (e *entities) chatForPeer(p tg.PeerClass) *Chat {
	switch v := p.(type) {
	case *tg.PeerUser:
		if u := e.users[v.UserID]; u != nil {
			return chatFromUser(u)
		}
	case *tg.PeerChat:
		if g := e.chats[v.ChatID]; g != nil {
			return chatFromGroup(g)
		}
	case *tg.PeerChannel:
		if ch := e.channels[v.ChannelID]; ch != nil {
			return chatFromChannel(ch)
		}
	}
	return nil
}

func chatFromUser(u *tg.User) *Chat {
	title := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if title == "" {
		title = u.Username
	}
	return &Chat{
		ID:         u.ID,
		AccessHash: u.AccessHash,
		Title:      title,
		Username:   u.Username,
		Kind:       KindPrivate,
	}
}

func chatFromGroup(g *tg.Chat) *Chat {
	return &Chat{ID: g.ID, Title: g.Title, Kind: KindGroup}
}

func chatFromChannel(ch *tg.Channel) *Chat {
	kind := KindChannel
	if ch.Megagroup {
		kind = KindSupergroup
	}
	return &Chat{
		ID:         ch.ID,
		AccessHash: ch.AccessHash,
		Title:      ch.Title,
		Username:   ch.Username,
		Kind:       kind,
	}
}

// chatFromAny maps any chat entity to a handle. Forbidden chats are
// dropped: the account cannot act in them anyway.
func chatFromAny(cc tg.ChatClass) *Chat {
	switch v := cc.(type) {
	case *tg.Chat:
		return chatFromGroup(v)
	case *tg.Channel:
		return chatFromChannel(v)
	}
	return nil
}

func chatFromUpdates(u tg.UpdatesClass) *Chat {
	var chats []tg.ChatClass
	switch v := u.(type) {
	case *tg.Updates:
		chats = v.Chats
	case *tg.UpdatesCombined:
		chats = v.Chats
	}
	for _, cc := range chats {
		if ch := chatFromAny(cc); ch != nil {
			return ch
		}
	}
	return nil
}

// messagesFrom flattens a search response into Messages, skipping
// service messages and deleted stubs.
func messagesFrom(res tg.MessagesMessagesClass) []Message {
	var raw []tg.MessageClass
	switch h := res.(type) {
	case *tg.MessagesMessages:
		raw = h.Messages
	case *tg.MessagesMessagesSlice:
		raw = h.Messages
	case *tg.MessagesChannelMessages:
		raw = h.Messages
	}

	var out []Message
	for _, mc := range raw {
		m, ok := mc.(*tg.Message)
		if !ok {
			continue
		}
		out = append(out, Message{
			ID:     m.ID,
			FromID: senderID(m),
			Out:    m.Out,
			Text:   m.Message,
			Date:   time.Unix(int64(m.Date), 0),
		})
	}
	return out
}

func senderID(m *tg.Message) int64 {
	if u, ok := m.FromID.(*tg.PeerUser); ok {
		return u.UserID
	}
	return 0
}

// nextDialogsOffset derives the offset triple for the next dialogs page
// from the last usable dialog of the current one.
func nextDialogsOffset(dialogs []tg.DialogClass, messages []tg.MessageClass, ents *entities) (int, int, tg.InputPeerClass) {
	for i := len(dialogs) - 1; i >= 0; i-- {
		dlg, ok := dialogs[i].(*tg.Dialog)
		if !ok {
			continue
		}
		ch := ents.chatForPeer(dlg.Peer)
		if ch == nil {
			continue
		}
		return topMessageDate(dlg, messages), dlg.TopMessage, ch.InputPeer()
	}
	return 0, 0, nil
}

// topMessageDate finds the date of a dialog's top message. Message ids
// are only unique per channel, so the peer has to match too.
func topMessageDate(dlg *tg.Dialog, messages []tg.MessageClass) int {
	want := rawPeerID(dlg.Peer)
	for _, mc := range messages {
		var id, date int
		var peer tg.PeerClass
		switch m := mc.(type) {
		case *tg.Message:
			id, date, peer = m.ID, m.Date, m.PeerID
		case *tg.MessageService:
			id, date, peer = m.ID, m.Date, m.PeerID
		default:
			continue
		}
		if id == dlg.TopMessage && rawPeerID(peer) == want {
			return date
		}
	}
	return 0
}

func rawPeerID(p tg.PeerClass) peerID {
	switch v := p.(type) {
	case *tg.PeerUser:
		return peerID{kind: KindPrivate, id: v.UserID}
	case *tg.PeerChat:
		return peerID{kind: KindGroup, id: v.ChatID}
	case *tg.PeerChannel:
		return peerID{kind: KindSupergroup, id: v.ChannelID}
	}
	return peerID{}
}
