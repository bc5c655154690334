package cleaner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lonesomestranger/tcleaner/internal/logger"
	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

// BatchOutcome says where every id of a submitted batch ended up.
type BatchOutcome int

const (
	// BatchEmpty means nothing was submitted.
	BatchEmpty BatchOutcome = iota
	// BatchDeletedAll removed the messages for every participant.
	BatchDeletedAll
	// BatchDeletedSelf removed them for this account only, as requested.
	BatchDeletedSelf
	// BatchFallbackSelf removed them for this account after a refused revoke.
	BatchFallbackSelf
	// BatchFailed deleted nothing.
	BatchFailed
)

// ForeignOutcome is the result of a single foreign-message attempt.
type ForeignOutcome int

const (
	ForeignDeleted ForeignOutcome = iota
	ForeignRefused
)

const (
	deleteTimeout     = 60 * time.Second
	deleteFloodMargin = 5 * time.Second
)

// Deleter submits delete batches and turns the platform's answers into
// outcomes. It owns the revoke fallback and the flood pauses of the
// delete path.
type Deleter struct {
	tg          Telegram
	log         *logger.Logger
	sleep       sleepFunc
	timeout     time.Duration
	floodMargin time.Duration
}

// NewDeleter creates a Deleter with the default delete pacing.
func NewDeleter(tg Telegram, log *logger.Logger) *Deleter {
	return &Deleter{
		tg:          tg,
		log:         log,
		sleep:       sleepCtx,
		timeout:     deleteTimeout,
		floodMargin: deleteFloodMargin,
	}
}

// DeleteOwnBatch deletes a batch of the account's own messages. Flood
// pauses are waited out and the identical request repeated; a refused
// revoke downgrades the batch to self-only deletion once. Exactly one
// outcome covers the whole batch.
func (d *Deleter) DeleteOwnBatch(ctx context.Context, chat *telegram.Chat, ids []int, revoke bool) BatchOutcome {
	if len(ids) == 0 {
		return BatchEmpty
	}

	batch := uuid.NewString()
	revokeNow := revoke
	for {
		err := d.deleteOnce(ctx, chat, ids, revokeNow)

		switch f := telegram.Classify(err); f.Kind {
		case telegram.FaultNone:
			d.log.Info().Str("batch", batch).Str("chat", chat.Label()).Int("count", len(ids)).Bool("revoke", revokeNow).Msg("cleaner: batch deleted")
			switch {
			case revokeNow:
				return BatchDeletedAll
			case revoke:
				return BatchFallbackSelf
			default:
				return BatchDeletedSelf
			}
		case telegram.FaultFlood:
			wait := f.Wait + d.floodMargin
			d.log.Warn().Str("batch", batch).Dur("wait", wait).Msg("cleaner: flood wait during delete, sleeping")
			if serr := d.sleep(ctx, wait); serr != nil {
				return BatchFailed
			}
		case telegram.FaultDenied:
			if revokeNow {
				d.log.Warn().Str("batch", batch).Str("chat", chat.Label()).Msg("cleaner: revoke refused, deleting for this account only")
				revokeNow = false
				continue
			}
			d.log.Warn().Err(err).Str("batch", batch).Str("chat", chat.Label()).Msg("cleaner: delete denied")
			return BatchFailed
		case telegram.FaultNotFound:
			d.log.Warn().Err(err).Str("batch", batch).Msg("cleaner: batch rejected, ids invalid")
			return BatchFailed
		default:
			d.log.Error().Err(err).Str("batch", batch).Str("fault", f.Kind.String()).Msg("cleaner: batch failed")
			return BatchFailed
		}
	}
}

func (d *Deleter) deleteOnce(ctx context.Context, chat *telegram.Chat, ids []int, revoke bool) error {
	dctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.tg.DeleteMessages(dctx, chat, ids, revoke)
}

// DeleteForeign tries to remove someone else's message for everyone.
// Anything but success or a flood pause counts as a refusal; the
// platform denies these in almost every chat.
func (d *Deleter) DeleteForeign(ctx context.Context, chat *telegram.Chat, id int) ForeignOutcome {
	for {
		err := d.deleteOnce(ctx, chat, []int{id}, true)

		switch f := telegram.Classify(err); f.Kind {
		case telegram.FaultNone:
			d.log.Info().Str("chat", chat.Label()).Int("message_id", id).Msg("cleaner: foreign message deleted")
			return ForeignDeleted
		case telegram.FaultFlood:
			if serr := d.sleep(ctx, f.Wait+d.floodMargin); serr != nil {
				return ForeignRefused
			}
		default:
			d.log.Debug().Err(err).Str("chat", chat.Label()).Int("message_id", id).Msg("cleaner: foreign delete refused")
			return ForeignRefused
		}
	}
}
