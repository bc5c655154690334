package cleaner

import (
	"context"

	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

// collectTargets enumerates the account's dialogs and keeps the kinds
// keyword cleaning can work on: private chats, basic groups and
// supergroups. Broadcast channels are skipped, the account has no own
// conversational messages there. A paging fault keeps the dialogs
// fetched so far and reports the list as partial.
func (c *Cleaner) collectTargets(ctx context.Context, st *Stats) []telegram.Chat {
	chats, err := c.tg.Dialogs(ctx)
	if err != nil {
		c.log.Warn().Err(err).Int("got", len(chats)).Msg("cleaner: dialog listing incomplete, continuing with partial list")
	}

	out := make([]telegram.Chat, 0, len(chats))
	for _, ch := range chats {
		st.DialogsFound++
		switch ch.Kind {
		case telegram.KindPrivate, telegram.KindGroup, telegram.KindSupergroup:
			out = append(out, ch)
		default:
			st.DialogsSkipped++
			c.log.Debug().Str("chat", ch.Label()).Str("kind", ch.Kind.String()).Msg("cleaner: dialog kind skipped")
		}
	}

	c.log.Info().Int("found", st.DialogsFound).Int("skipped", st.DialogsSkipped).Msg("cleaner: dialogs enumerated")
	return out
}
