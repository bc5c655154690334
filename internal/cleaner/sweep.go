package cleaner

import (
	"context"
	"fmt"

	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

// sweepChat finds every message the account ever sent in a resolved
// chat and deletes them for everyone. Broadcast channels are swept
// through their linked discussion group; without one there is nothing
// to sweep. A chat the account cannot search (kicked, chat gone)
// finishes with zero deletions instead of failing.
func (c *Cleaner) sweepChat(ctx context.Context, chat *telegram.Chat, st *Stats) error {
	target := chat
	if chat.Kind == telegram.KindChannel {
		var linked *telegram.Chat
		err := c.retry.Do(ctx, "find linked chat", func(ctx context.Context) error {
			var err error
			linked, err = c.tg.LinkedChat(ctx, chat)
			return err
		})
		if err != nil {
			switch telegram.Classify(err).Kind {
			case telegram.FaultNotFound, telegram.FaultDenied:
				c.log.Warn().Err(err).Str("chat", chat.Label()).Msg("cleaner: cannot inspect broadcast channel, skipping")
				return nil
			default:
				return fmt.Errorf("find linked chat of %s: %w", chat.Label(), err)
			}
		}
		if linked == nil {
			c.log.Info().Str("chat", chat.Label()).Msg("cleaner: broadcast has no discussion group, nothing to sweep")
			return nil
		}
		c.log.Info().Str("chat", chat.Label()).Str("linked", linked.Label()).Msg("cleaner: sweeping linked discussion group")
		target = linked
	}

	// collect all own message ids first, then delete in chunks
	var ids []int
	offset := 0
	for {
		var page []telegram.Message
		err := c.retry.Do(ctx, "search own messages", func(ctx context.Context) error {
			var err error
			page, err = c.tg.SearchMyMessages(ctx, target, offset, searchPageSize)
			return err
		})
		if err != nil {
			if telegram.Classify(err).Kind == telegram.FaultNotFound {
				c.log.Warn().Err(err).Str("chat", target.Label()).Msg("cleaner: cannot search chat, skipping")
				return nil
			}
			return fmt.Errorf("collect own messages in %s: %w", target.Label(), err)
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			st.Checked++
			ids = append(ids, page[i].ID)
		}
		offset = page[len(page)-1].ID
	}

	if len(ids) == 0 {
		c.log.Info().Str("chat", target.Label()).Msg("cleaner: no own messages found")
		return nil
	}

	st.MatchedOwn += len(ids)
	c.log.Info().Str("chat", target.Label()).Int("count", len(ids)).Msg("cleaner: deleting own messages")

	chunks := chunkIDs(ids, BatchSize)
	for i, chunk := range chunks {
		out := c.del.DeleteOwnBatch(ctx, target, chunk, true)
		st.recordBatch(out, len(chunk))

		if len(chunks) > 1 && i < len(chunks)-1 {
			if err := c.sleep(ctx, interChunkDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func chunkIDs(ids []int, size int) [][]int {
	var out [][]int
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end])
	}
	return out
}
