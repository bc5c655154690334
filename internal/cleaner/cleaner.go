// Package cleaner implements the message cleaning engine: keyword-driven
// deletion across dialogs and link-driven sweeps of whole chats.
package cleaner

import (
	"context"
	"errors"
	"time"

	"github.com/lonesomestranger/tcleaner/internal/logger"
	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

const (
	// BatchSize is the platform ceiling for ids in one delete call.
	BatchSize = 100

	searchPageSize = 100

	// pacing between work units, matching what the account survives
	interKeywordDelay = 500 * time.Millisecond
	interLinkDelay    = time.Second
	interChunkDelay   = time.Second
)

// Setup faults abort a run before anything is deleted.
var (
	ErrNoKeywords  = errors.New("keyword file is empty")
	ErrNoLinks     = errors.New("no links found in file")
	ErrNotSignedIn = errors.New("telegram client is not signed in")
)

// Telegram is the transport surface the engine needs. Implemented by
// telegram.Client; tests substitute a fake.
type Telegram interface {
	Me() (int64, string)
	SearchMessages(ctx context.Context, chat *telegram.Chat, query string, offsetID, limit int) ([]telegram.Message, error)
	SearchMyMessages(ctx context.Context, chat *telegram.Chat, offsetID, limit int) ([]telegram.Message, error)
	DeleteMessages(ctx context.Context, chat *telegram.Chat, ids []int, revoke bool) error
	Dialogs(ctx context.Context) ([]telegram.Chat, error)
	FindDialog(ctx context.Context, channelID int64) (*telegram.Chat, error)
	ResolveUsername(ctx context.Context, username string) (*telegram.Chat, error)
	LinkedChat(ctx context.Context, chat *telegram.Chat) (*telegram.Chat, error)
	CheckInvite(ctx context.Context, hash string) (*telegram.Chat, error)
	JoinChat(ctx context.Context, hash string) (*telegram.Chat, error)
	LeaveChat(ctx context.Context, chat *telegram.Chat) error
}

// Prompter asks the operator questions. Implemented by prompt.Prompt.
type Prompter interface {
	Choice(title string, options []string) (int, error)
	Text(title string) (string, error)
	Confirm(title string) (bool, error)
}

// Options configures a Cleaner.
type Options struct {
	KeywordsFile string
	LinksFile    string
	AutoJoin     bool
}

// Cleaner runs cleaning flows against one signed-in account.
type Cleaner struct {
	tg      Telegram
	prompts Prompter
	opts    Options

	retry *Retrier
	del   *Deleter
	log   *logger.Logger
	sleep sleepFunc
}

// New creates a Cleaner on top of a transport and a prompter.
func New(tg Telegram, prompts Prompter, opts Options) *Cleaner {
	log := logger.Get()
	return &Cleaner{
		tg:      tg,
		prompts: prompts,
		opts:    opts,
		retry:   NewRetrier(log),
		del:     NewDeleter(tg, log),
		log:     log,
		sleep:   sleepCtx,
	}
}

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
