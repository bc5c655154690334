package cleaner

import "github.com/lonesomestranger/tcleaner/internal/logger"

// Stats counts everything a run did. Flows mutate their own instance
// and merge child results with Add; the summary is read once at the end.
type Stats struct {
	Checked    int // messages inspected via search
	MatchedOwn int // own messages matched and queued for deletion

	DeletedForAll   int // removed for every participant
	DeletedForMe    int // removed for this account only
	RevokeFallbacks int // part of DeletedForMe: revoke was refused first
	FailedOwn       int // own messages that could not be deleted

	ForeignAttempted int // foreign messages the engine tried to remove
	ForeignDeleted   int
	ForeignRefused   int

	ChatsProcessed int
	ChatsFailed    int

	DialogsFound   int // dialogs seen while enumerating
	DialogsSkipped int // dialogs rejected by kind

	LinksFound      int // links extracted for a link run
	LinksUnresolved int // links that produced no usable chat
}

// Add merges another result into s.
func (s *Stats) Add(o *Stats) {
	s.Checked += o.Checked
	s.MatchedOwn += o.MatchedOwn
	s.DeletedForAll += o.DeletedForAll
	s.DeletedForMe += o.DeletedForMe
	s.RevokeFallbacks += o.RevokeFallbacks
	s.FailedOwn += o.FailedOwn
	s.ForeignAttempted += o.ForeignAttempted
	s.ForeignDeleted += o.ForeignDeleted
	s.ForeignRefused += o.ForeignRefused
	s.ChatsProcessed += o.ChatsProcessed
	s.ChatsFailed += o.ChatsFailed
	s.DialogsFound += o.DialogsFound
	s.DialogsSkipped += o.DialogsSkipped
	s.LinksFound += o.LinksFound
	s.LinksUnresolved += o.LinksUnresolved
}

// recordBatch folds a batch outcome into the counters. n is the batch size.
func (s *Stats) recordBatch(out BatchOutcome, n int) {
	switch out {
	case BatchDeletedAll:
		s.DeletedForAll += n
	case BatchDeletedSelf:
		s.DeletedForMe += n
	case BatchFallbackSelf:
		s.DeletedForMe += n
		s.RevokeFallbacks += n
	case BatchFailed:
		s.FailedOwn += n
	}
}

// Log emits the final summary.
func (s *Stats) Log(log *logger.Logger) {
	log.Info().
		Int("checked", s.Checked).
		Int("matched_own", s.MatchedOwn).
		Int("deleted_for_all", s.DeletedForAll).
		Int("deleted_for_me", s.DeletedForMe).
		Int("revoke_fallbacks", s.RevokeFallbacks).
		Int("failed_own", s.FailedOwn).
		Msg("cleaner: summary, own messages")

	if s.ForeignAttempted > 0 {
		log.Info().
			Int("attempted", s.ForeignAttempted).
			Int("deleted", s.ForeignDeleted).
			Int("refused", s.ForeignRefused).
			Msg("cleaner: summary, foreign messages")
	}

	if s.LinksFound > 0 {
		log.Info().
			Int("found", s.LinksFound).
			Int("unresolved", s.LinksUnresolved).
			Msg("cleaner: summary, links")
	}

	log.Info().
		Int("chats_processed", s.ChatsProcessed).
		Int("chats_failed", s.ChatsFailed).
		Int("dialogs_found", s.DialogsFound).
		Int("dialogs_skipped", s.DialogsSkipped).
		Msg("cleaner: summary, chats")
}
