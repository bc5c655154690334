package cleaner

import (
	"context"
	"fmt"

	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

// cleanChatByKeywords sweeps one chat with every keyword. Matched own
// messages accumulate into batches that flush at BatchSize mid-search
// and once after each keyword. The dedup set spans all keywords of the
// chat, so a message matching several keywords lands in exactly one
// batch. In private chats with revoke enabled, foreign matches get a
// one-shot deletion attempt each.
func (c *Cleaner) cleanChatByKeywords(ctx context.Context, chat *telegram.Chat, kws []string, revoke bool, selfID int64, st *Stats) error {
	seen := make(map[int]struct{})
	var pending []int

	flush := func() {
		if len(pending) == 0 {
			return
		}
		out := c.del.DeleteOwnBatch(ctx, chat, pending, revoke)
		st.recordBatch(out, len(pending))
		pending = pending[:0]
	}

	for _, kw := range kws {
		if ctx.Err() != nil {
			flush()
			return ctx.Err()
		}

		c.log.Debug().Str("chat", chat.Label()).Str("keyword", kw).Msg("cleaner: searching keyword")
		offset := 0
		for {
			var page []telegram.Message
			err := c.retry.Do(ctx, "search messages", func(ctx context.Context) error {
				var err error
				page, err = c.tg.SearchMessages(ctx, chat, kw, offset, searchPageSize)
				return err
			})
			if err != nil {
				flush()
				return fmt.Errorf("search %q in %s: %w", kw, chat.Label(), err)
			}
			if len(page) == 0 {
				break
			}

			for i := range page {
				m := &page[i]
				st.Checked++

				if m.Own(selfID) {
					if _, dup := seen[m.ID]; dup {
						continue
					}
					seen[m.ID] = struct{}{}
					st.MatchedOwn++
					pending = append(pending, m.ID)
					if len(pending) >= BatchSize {
						flush()
					}
					continue
				}

				if revoke && chat.Kind == telegram.KindPrivate {
					st.ForeignAttempted++
					if c.del.DeleteForeign(ctx, chat, m.ID) == ForeignDeleted {
						st.ForeignDeleted++
					} else {
						st.ForeignRefused++
					}
				}
			}

			offset = page[len(page)-1].ID
		}

		flush()

		if err := c.sleep(ctx, interKeywordDelay); err != nil {
			return err
		}
	}

	return nil
}
