package cleaner

import (
	"context"
	"strings"

	"github.com/lonesomestranger/tcleaner/internal/links"
	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

// Resolution is a resolved link target. DidJoin marks chats the engine
// entered only for this run and must leave afterwards.
type Resolution struct {
	Chat    *telegram.Chat
	DidJoin bool
}

// resolveLink turns one extracted link into a chat the sweep can work
// on. A nil result with nil error means the link is unresolvable and
// has been logged; a returned error is retryable and handled by the
// caller's executor.
func (c *Cleaner) resolveLink(ctx context.Context, raw string) (*Resolution, error) {
	ref, ok := links.Parse(raw)
	if !ok {
		// unrecognized shape: last resort is treating it as a username
		name := stripLinkNoise(raw)
		if name == "" {
			c.log.Warn().Str("link", raw).Msg("cleaner: link not recognized")
			return nil, nil
		}
		ref = links.Ref{Kind: links.KindUsername, Username: name, Raw: raw}
	}

	switch ref.Kind {
	case links.KindUsername:
		chat, err := c.tg.ResolveUsername(ctx, ref.Username)
		if err != nil {
			if telegram.Classify(err).Kind == telegram.FaultNotFound {
				c.log.Warn().Err(err).Str("link", raw).Msg("cleaner: no chat behind username")
				return nil, nil
			}
			return nil, err
		}
		return &Resolution{Chat: chat}, nil

	case links.KindInvite:
		return c.resolveInvite(ctx, ref)

	case links.KindInternal:
		chat, err := c.tg.FindDialog(ctx, ref.ChannelID)
		if err != nil {
			if telegram.Classify(err).Kind == telegram.FaultNotFound {
				c.log.Warn().Err(err).Str("link", raw).Msg("cleaner: internal link lookup failed")
				return nil, nil
			}
			return nil, err
		}
		if chat == nil {
			c.log.Warn().Str("link", raw).Msg("cleaner: internal link is not among this account's dialogs")
			return nil, nil
		}
		return &Resolution{Chat: chat}, nil
	}

	return nil, nil
}

// resolveInvite handles invite links: members get the chat directly,
// everyone else goes through a join attempt when auto-join allows it.
// Dead invites surface as invite faults on the check call and take the
// same join path, which then reports them as unresolvable.
func (c *Cleaner) resolveInvite(ctx context.Context, ref links.Ref) (*Resolution, error) {
	chat, err := c.tg.CheckInvite(ctx, ref.InviteHash)
	if err != nil {
		if telegram.IsInviteFault(err) {
			return c.joinForInvite(ctx, ref)
		}
		if telegram.Classify(err).Kind == telegram.FaultNotFound {
			c.log.Warn().Err(err).Str("link", ref.Raw).Msg("cleaner: invite cannot be used")
			return nil, nil
		}
		return nil, err
	}
	if chat != nil {
		return &Resolution{Chat: chat}, nil
	}
	return c.joinForInvite(ctx, ref)
}

func (c *Cleaner) joinForInvite(ctx context.Context, ref links.Ref) (*Resolution, error) {
	if !c.opts.AutoJoin {
		c.log.Warn().Str("link", ref.Raw).Msg("cleaner: not a member and auto-join is disabled, skipping")
		return nil, nil
	}

	chat, err := c.tg.JoinChat(ctx, ref.InviteHash)
	if err != nil {
		if telegram.Classify(err).Kind == telegram.FaultFlood {
			return nil, err
		}
		c.log.Warn().Err(err).Str("link", ref.Raw).Msg("cleaner: join failed")
		return nil, nil
	}

	c.log.Info().Str("chat", chat.Label()).Msg("cleaner: joined chat for cleaning")
	return &Resolution{Chat: chat, DidJoin: true}, nil
}

// stripLinkNoise reduces an unrecognized link to something a username
// resolve might accept.
func stripLinkNoise(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://", "t.me/", "@"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimSuffix(s, "/")
	if strings.ContainsAny(s, "/?#") {
		return ""
	}
	return s
}
