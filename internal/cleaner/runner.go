package cleaner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lonesomestranger/tcleaner/internal/keywords"
	"github.com/lonesomestranger/tcleaner/internal/links"
	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

// RunOptions pre-answers the interactive questions of a run. Unset
// fields are asked through the prompter.
type RunOptions struct {
	// Revoke answers the deletion-mode question when set.
	Revoke *bool
	// Target restricts a keyword run to one chat (title or @username).
	Target string
	// AllChats skips the target question and cleans every dialog.
	AllChats bool
	// AutoConfirm answers the link-mode confirmation with yes.
	AutoConfirm bool
}

// RunKeywords executes the keyword cleaning flow and returns its stats.
// Setup faults (unreadable or empty keyword file, missing session)
// abort before anything is touched and return no stats.
func (c *Cleaner) RunKeywords(ctx context.Context, opts RunOptions) (*Stats, error) {
	kws, err := keywords.LoadFile(c.opts.KeywordsFile)
	if err != nil {
		return nil, err
	}
	if len(kws) == 0 {
		c.log.Error().Str("file", c.opts.KeywordsFile).Msg("cleaner: keyword file has no usable lines")
		return nil, ErrNoKeywords
	}
	c.log.Info().Int("keywords", len(kws)).Str("file", c.opts.KeywordsFile).Msg("cleaner: keywords loaded")

	selfID, selfName := c.tg.Me()
	if selfID == 0 {
		return nil, ErrNotSignedIn
	}
	c.log.Info().Int64("id", selfID).Str("username", selfName).Msg("cleaner: signed in")

	revoke, err := c.chooseRevoke(opts)
	if err != nil {
		return nil, err
	}

	st := &Stats{}
	target, err := c.chooseTarget(ctx, opts)
	if err != nil {
		return nil, err
	}

	var targets []telegram.Chat
	if target != nil {
		targets = []telegram.Chat{*target}
	} else {
		targets = c.collectTargets(ctx, st)
	}
	if len(targets) == 0 {
		c.log.Warn().Msg("cleaner: no chats to process")
		return st, nil
	}

	runID := uuid.NewString()
	c.log.Info().Str("run_id", runID).Int("chats", len(targets)).Bool("revoke", revoke).Msg("cleaner: starting keyword cleaning")
	for i := range targets {
		chat := &targets[i]
		if err := c.cleanChatByKeywords(ctx, chat, kws, revoke, selfID, st); err != nil {
			st.ChatsFailed++
			c.log.Error().Err(err).Str("chat", chat.Label()).Msg("cleaner: chat failed")
			if ctx.Err() != nil {
				return st, ctx.Err()
			}
			continue
		}
		st.ChatsProcessed++
	}

	return st, nil
}

// RunLinks executes the link cleaning flow: every link from the links
// file is resolved (joining transiently when needed), the account's own
// messages in the chat are swept, and transient joins are undone.
func (c *Cleaner) RunLinks(ctx context.Context, opts RunOptions) (*Stats, error) {
	urls, err := links.ExtractFile(c.opts.LinksFile)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		c.log.Error().Str("file", c.opts.LinksFile).Msg("cleaner: no links found in file")
		return nil, ErrNoLinks
	}
	c.log.Info().Int("links", len(urls)).Str("file", c.opts.LinksFile).Msg("cleaner: links loaded")

	selfID, selfName := c.tg.Me()
	if selfID == 0 {
		return nil, ErrNotSignedIn
	}
	c.log.Info().Int64("id", selfID).Str("username", selfName).Msg("cleaner: signed in")

	st := &Stats{}
	if !opts.AutoConfirm {
		ok, err := c.prompts.Confirm(fmt.Sprintf("Delete ALL your messages in %d linked chats", len(urls)))
		if err != nil {
			return nil, err
		}
		if !ok {
			c.log.Info().Msg("cleaner: canceled by operator")
			return st, nil
		}
	}

	st.LinksFound = len(urls)
	runID := uuid.NewString()
	c.log.Info().Str("run_id", runID).Int("links", len(urls)).Msg("cleaner: starting link cleaning")

	for i, raw := range urls {
		if ctx.Err() != nil {
			return st, ctx.Err()
		}
		c.log.Info().Str("link", raw).Int("n", i+1).Int("total", len(urls)).Msg("cleaner: processing link")

		var res *Resolution
		err := c.retry.Do(ctx, "resolve link", func(ctx context.Context) error {
			var err error
			res, err = c.resolveLink(ctx, raw)
			return err
		})
		if err != nil || res == nil {
			st.LinksUnresolved++
			st.ChatsFailed++
			if err != nil {
				c.log.Error().Err(err).Str("link", raw).Msg("cleaner: link resolution failed")
			}
			continue
		}

		st.ChatsProcessed++
		if err := c.sweepChat(ctx, res.Chat, st); err != nil {
			st.ChatsFailed++
			c.log.Error().Err(err).Str("chat", res.Chat.Label()).Msg("cleaner: sweep failed")
		}

		c.leaveIfJoined(ctx, res)

		if ctx.Err() != nil {
			return st, ctx.Err()
		}
		if i < len(urls)-1 {
			if err := c.sleep(ctx, interLinkDelay); err != nil {
				return st, err
			}
		}
	}

	return st, nil
}

// leaveIfJoined undoes a transient join. A failed leave only logs; the
// chat's processed status is already recorded.
func (c *Cleaner) leaveIfJoined(ctx context.Context, res *Resolution) {
	if !res.DidJoin {
		return
	}
	if err := c.tg.LeaveChat(ctx, res.Chat); err != nil {
		c.log.Warn().Err(err).Str("chat", res.Chat.Label()).Msg("cleaner: could not leave chat")
		return
	}
	c.log.Info().Str("chat", res.Chat.Label()).Msg("cleaner: left chat")
}

func (c *Cleaner) chooseRevoke(opts RunOptions) (bool, error) {
	if opts.Revoke != nil {
		return *opts.Revoke, nil
	}
	idx, err := c.prompts.Choice("How should matched messages be deleted?", []string{
		"for me only",
		"for everyone where possible",
	})
	if err != nil {
		return false, err
	}
	return idx == 1, nil
}

// chooseTarget returns nil when the whole dialog list should be cleaned.
func (c *Cleaner) chooseTarget(ctx context.Context, opts RunOptions) (*telegram.Chat, error) {
	if opts.Target != "" {
		chat, err := c.lookupChat(ctx, opts.Target)
		if err != nil {
			return nil, err
		}
		if chat == nil {
			return nil, fmt.Errorf("target chat %q not found", opts.Target)
		}
		return chat, nil
	}
	if opts.AllChats {
		return nil, nil
	}

	idx, err := c.prompts.Choice("Where should keywords be cleaned?", []string{
		"all dialogs",
		"one specific chat",
	})
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, nil
	}

	for {
		q, err := c.prompts.Text("Chat title or @username")
		if err != nil {
			return nil, err
		}
		if q == "" {
			continue
		}
		chat, err := c.lookupChat(ctx, q)
		if err != nil {
			return nil, err
		}
		if chat == nil {
			c.log.Warn().Str("query", q).Msg("cleaner: no chat matched, try again")
			continue
		}
		ok, err := c.prompts.Confirm(fmt.Sprintf("Use %s", chat.Label()))
		if err != nil {
			return nil, err
		}
		if ok {
			return chat, nil
		}
	}
}

// lookupChat finds a chat by @username, or by title or username among
// the account's dialogs.
func (c *Cleaner) lookupChat(ctx context.Context, q string) (*telegram.Chat, error) {
	q = strings.TrimSpace(q)
	if strings.HasPrefix(q, "@") {
		var chat *telegram.Chat
		err := c.retry.Do(ctx, "resolve chat", func(ctx context.Context) error {
			var err error
			chat, err = c.tg.ResolveUsername(ctx, q)
			return err
		})
		if err != nil {
			if telegram.Classify(err).Kind == telegram.FaultNotFound {
				return nil, nil
			}
			return nil, err
		}
		return chat, nil
	}

	chats, err := c.tg.Dialogs(ctx)
	if err != nil && len(chats) == 0 {
		return nil, err
	}
	lq := strings.ToLower(q)
	for i := range chats {
		if strings.ToLower(chats[i].Title) == lq || strings.EqualFold(chats[i].Username, q) {
			return &chats[i], nil
		}
	}
	for i := range chats {
		if strings.Contains(strings.ToLower(chats[i].Title), lq) {
			return &chats[i], nil
		}
	}
	return nil, nil
}
