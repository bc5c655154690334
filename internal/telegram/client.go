// Package telegram wraps the MTProto client with the operations the
// cleaner needs: message search, deletion, dialog listing and chat
// resolution.
package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/celestix/gotgproto"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/lonesomestranger/tcleaner/internal/logger"
)

const (
	// telegram api page ceiling for search and dialog requests
	pageLimitMax = 100

	dialogPageSize = 100
)

// Client wraps a signed-in gotgproto client and provides high-level
// telegram operations. All calls go through the rate limiter; FLOOD_WAIT
// responses arm it so the next call waits the pause out.
type Client struct {
	proto *gotgproto.Client
	api   *tg.Client
	rl    *RateLimiter
	log   *logger.Logger
}

// NewClient creates a telegram client wrapper around an authorized session.
func NewClient(proto *gotgproto.Client) *Client {
	return &Client{
		proto: proto,
		api:   proto.API(),
		rl:    DefaultRateLimiter(),
		log:   logger.Get(),
	}
}

// Close stops the underlying client.
func (c *Client) Close() {
	if c.proto != nil {
		c.proto.Stop()
	}
}

// Me returns the id and username of the logged-in account.
func (c *Client) Me() (int64, string) {
	self := c.proto.Self
	if self == nil {
		return 0, ""
	}
	return self.ID, self.Username
}

// ExportStringSession exports the current session as a portable string.
func (c *Client) ExportStringSession() (string, error) {
	return c.proto.ExportStringSession()
}

// noteFlood records a FLOOD_WAIT pause in the rate limiter so the next
// call does not run into the same wall.
func (c *Client) noteFlood(err error) {
	if wait, ok := tgerr.AsFloodWait(err); ok {
		c.log.Warn().Dur("wait", wait).Msg("telegram: FLOOD_WAIT received, pausing limiter")
		c.rl.SetFloodWait(wait)
	}
}

// SearchMessages searches a chat for messages matching query.
// offsetID pages backwards: 0 starts at the newest message, subsequent
// calls pass the smallest id of the previous page.
func (c *Client) SearchMessages(ctx context.Context, chat *Chat, query string, offsetID, limit int) ([]Message, error) {
	return c.search(ctx, chat, query, false, offsetID, limit)
}

// SearchMyMessages searches a chat for the logged-in account's own
// messages, regardless of content.
func (c *Client) SearchMyMessages(ctx context.Context, chat *Chat, offsetID, limit int) ([]Message, error) {
	return c.search(ctx, chat, "", true, offsetID, limit)
}

func (c *Client) search(ctx context.Context, chat *Chat, query string, onlyMine bool, offsetID, limit int) ([]Message, error) {
	if limit > pageLimitMax {
		limit = pageLimitMax
	}

	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	req := &tg.MessagesSearchRequest{
		Peer:     chat.InputPeer(),
		Q:        query,
		Filter:   &tg.InputMessagesFilterEmpty{},
		OffsetID: offsetID,
		Limit:    limit,
	}
	if onlyMine {
		req.SetFromID(&tg.InputPeerSelf{})
	}

	c.log.Debug().Str("chat", chat.Label()).Str("query", query).Int("offset_id", offsetID).Msg("telegram: searching messages")
	res, err := c.api.MessagesSearch(ctx, req)
	if err != nil {
		c.noteFlood(err)
		return nil, fmt.Errorf("search in %s: %w", chat.Label(), err)
	}

	return messagesFrom(res), nil
}

// DeleteMessages deletes up to 100 messages by id in one call.
// In supergroups and channels deletion is always for everyone; the
// revoke flag only matters for private chats and basic groups.
func (c *Client) DeleteMessages(ctx context.Context, chat *Chat, ids []int, revoke bool) error {
	if len(ids) == 0 {
		return nil
	}

	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var err error
	if chat.IsChannelKind() {
		_, err = c.api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: chat.InputChannel(),
			ID:      ids,
		})
	} else {
		_, err = c.api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
			Revoke: revoke,
			ID:     ids,
		})
	}
	if err != nil {
		c.noteFlood(err)
		return fmt.Errorf("delete %d messages in %s: %w", len(ids), chat.Label(), err)
	}
	return nil
}

// Dialogs lists every dialog of the account. On a paging error the
// dialogs collected so far are returned together with the error, so
// callers can keep working with a partial list. FLOOD_WAIT pauses are
// waited out in place.
func (c *Client) Dialogs(ctx context.Context) ([]Chat, error) {
	var out []Chat
	seen := make(map[peerID]struct{})

	req := &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      dialogPageSize,
	}

	for {
		if err := c.rl.Wait(ctx); err != nil {
			return out, err
		}

		res, err := c.api.MessagesGetDialogs(ctx, req)
		if err != nil {
			if wait, ok := tgerr.AsFloodWait(err); ok {
				c.log.Warn().Dur("wait", wait).Msg("telegram: FLOOD_WAIT while listing dialogs, pausing")
				c.rl.SetFloodWait(wait)
				continue
			}
			return out, fmt.Errorf("get dialogs: %w", err)
		}

		var (
			dialogs  []tg.DialogClass
			messages []tg.MessageClass
			lastPage bool
			ents     *entities
		)
		switch d := res.(type) {
		case *tg.MessagesDialogs:
			dialogs, messages = d.Dialogs, d.Messages
			ents = newEntities(d.Chats, d.Users)
			lastPage = true
		case *tg.MessagesDialogsSlice:
			dialogs, messages = d.Dialogs, d.Messages
			ents = newEntities(d.Chats, d.Users)
			lastPage = len(d.Dialogs) < req.Limit
		case *tg.MessagesDialogsNotModified:
			return out, nil
		default:
			return out, fmt.Errorf("get dialogs: unexpected response %T", res)
		}

		for _, dc := range dialogs {
			dlg, ok := dc.(*tg.Dialog)
			if !ok {
				// folders carry no single peer
				continue
			}
			ch := ents.chatForPeer(dlg.Peer)
			if ch == nil {
				continue
			}
			key := peerID{kind: ch.Kind, id: ch.ID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, *ch)
		}

		if lastPage || len(dialogs) == 0 {
			return out, nil
		}

		date, id, peer := nextDialogsOffset(dialogs, messages, ents)
		if peer == nil {
			return out, nil
		}
		req.OffsetDate, req.OffsetID, req.OffsetPeer = date, id, peer
	}
}

// FindDialog scans the dialog list for a channel or supergroup with the
// given internal id. Returns nil when the account has no such dialog.
func (c *Client) FindDialog(ctx context.Context, channelID int64) (*Chat, error) {
	chats, err := c.Dialogs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if chats[i].IsChannelKind() && chats[i].ID == channelID {
			return &chats[i], nil
		}
	}
	return nil, nil
}

// ResolveUsername resolves a public username (with or without @) to a chat.
func (c *Client) ResolveUsername(ctx context.Context, username string) (*Chat, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")

	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	c.log.Debug().Str("username", username).Msg("telegram: resolving username")
	resolved, err := c.api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: username,
	})
	if err != nil {
		c.noteFlood(err)
		return nil, fmt.Errorf("resolve username %s: %w", username, err)
	}

	if len(resolved.Chats) > 0 {
		if ch := chatFromAny(resolved.Chats[0]); ch != nil {
			return ch, nil
		}
	}
	if len(resolved.Users) > 0 {
		if u, ok := resolved.Users[0].(*tg.User); ok {
			return chatFromUser(u), nil
		}
	}
	return nil, fmt.Errorf("resolve username %s: no usable peer in response", username)
}

// LinkedChat returns the discussion group linked to a broadcast
// channel, or nil when there is none.
func (c *Client) LinkedChat(ctx context.Context, chat *Chat) (*Chat, error) {
	if chat.Kind != KindChannel {
		return nil, nil
	}

	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	full, err := c.api.ChannelsGetFullChannel(ctx, chat.InputChannel())
	if err != nil {
		c.noteFlood(err)
		return nil, fmt.Errorf("get full channel %s: %w", chat.Label(), err)
	}

	cf, ok := full.FullChat.(*tg.ChannelFull)
	if !ok {
		return nil, nil
	}
	linkedID, ok := cf.GetLinkedChatID()
	if !ok || linkedID == 0 {
		return nil, nil
	}
	for _, cc := range full.Chats {
		if ch := chatFromAny(cc); ch != nil && ch.ID == linkedID {
			return ch, nil
		}
	}
	return nil, nil
}

// CheckInvite looks an invite hash up. Returns the chat when the
// account is already a member, or nil when it would still have to join.
func (c *Client) CheckInvite(ctx context.Context, hash string) (*Chat, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	invite, err := c.api.MessagesCheckChatInvite(ctx, hash)
	if err != nil {
		c.noteFlood(err)
		return nil, fmt.Errorf("check invite: %w", err)
	}

	switch v := invite.(type) {
	case *tg.ChatInviteAlready:
		return chatFromAny(v.Chat), nil
	case *tg.ChatInvitePeek:
		// visible without membership, joining is still required
		return nil, nil
	default:
		return nil, nil
	}
}

// JoinChat joins a chat via invite hash and returns its handle.
func (c *Client) JoinChat(ctx context.Context, hash string) (*Chat, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	c.log.Info().Msg("telegram: joining chat via invite link")
	updates, err := c.api.MessagesImportChatInvite(ctx, hash)
	if err != nil {
		c.noteFlood(err)
		return nil, fmt.Errorf("join chat: %w", err)
	}

	if ch := chatFromUpdates(updates); ch != nil {
		return ch, nil
	}
	return nil, fmt.Errorf("join chat: no chat in server response")
}

// LeaveChat removes the account from a group or channel.
func (c *Client) LeaveChat(ctx context.Context, chat *Chat) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	c.log.Info().Str("chat", chat.Label()).Msg("telegram: leaving chat")
	var err error
	switch {
	case chat.IsChannelKind():
		_, err = c.api.ChannelsLeaveChannel(ctx, chat.InputChannel())
	case chat.Kind == KindGroup:
		_, err = c.api.MessagesDeleteChatUser(ctx, &tg.MessagesDeleteChatUserRequest{
			ChatID: chat.ID,
			UserID: &tg.InputUserSelf{},
		})
	default:
		return fmt.Errorf("leave %s: not a group or channel", chat.Label())
	}
	if err != nil {
		c.noteFlood(err)
		return fmt.Errorf("leave %s: %w", chat.Label(), err)
	}
	return nil
}
