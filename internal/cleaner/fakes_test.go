package cleaner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gotd/td/tgerr"

	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

// fakeTelegram scripts the transport surface for engine tests. Pages
// and errors are consumed in call order; a nil page entry ends one
// chat's paging so multi-chat scripts can be chained.
type fakeTelegram struct {
	selfID   int64
	selfName string

	pages      map[string][][]telegram.Message // search pages per query
	searchErrs map[string][]error              // popped per call; nil entry = serve page
	searchFn   func(chat *telegram.Chat, query string, offsetID int) ([]telegram.Message, error)
	searches   []searchCall

	myPages    [][]telegram.Message
	myErrs     []error
	mySearches []int64 // chat ids, in call order

	deleteErrs []error // popped per call; nil entry = success
	deletes    []deleteCall

	dialogs    []telegram.Chat
	dialogsErr error

	resolved   map[string]*telegram.Chat
	resolveErr error
	resolves   []string

	linked      *telegram.Chat
	linkedErr   error
	linkedCalls int

	inviteChat *telegram.Chat
	inviteErr  error
	invites    []string

	joinResult *telegram.Chat
	joinErr    error
	joins      []string

	leaveErr error
	leaves   []int64
}

type searchCall struct {
	chatID int64
	query  string
	offset int
}

type deleteCall struct {
	chatID int64
	ids    []int
	revoke bool
}

func (f *fakeTelegram) Me() (int64, string) {
	return f.selfID, f.selfName
}

func (f *fakeTelegram) SearchMessages(ctx context.Context, chat *telegram.Chat, query string, offsetID, limit int) ([]telegram.Message, error) {
	f.searches = append(f.searches, searchCall{chatID: chat.ID, query: query, offset: offsetID})
	if f.searchFn != nil {
		return f.searchFn(chat, query, offsetID)
	}
	if errs := f.searchErrs[query]; len(errs) > 0 {
		err := errs[0]
		f.searchErrs[query] = errs[1:]
		if err != nil {
			return nil, err
		}
	}
	pages := f.pages[query]
	if len(pages) == 0 {
		return nil, nil
	}
	page := pages[0]
	f.pages[query] = pages[1:]
	return page, nil
}

func (f *fakeTelegram) SearchMyMessages(ctx context.Context, chat *telegram.Chat, offsetID, limit int) ([]telegram.Message, error) {
	f.mySearches = append(f.mySearches, chat.ID)
	if len(f.myErrs) > 0 {
		err := f.myErrs[0]
		f.myErrs = f.myErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(f.myPages) == 0 {
		return nil, nil
	}
	page := f.myPages[0]
	f.myPages = f.myPages[1:]
	return page, nil
}

func (f *fakeTelegram) DeleteMessages(ctx context.Context, chat *telegram.Chat, ids []int, revoke bool) error {
	f.deletes = append(f.deletes, deleteCall{
		chatID: chat.ID,
		ids:    append([]int(nil), ids...),
		revoke: revoke,
	})
	if len(f.deleteErrs) > 0 {
		err := f.deleteErrs[0]
		f.deleteErrs = f.deleteErrs[1:]
		return err
	}
	return nil
}

func (f *fakeTelegram) Dialogs(ctx context.Context) ([]telegram.Chat, error) {
	return f.dialogs, f.dialogsErr
}

func (f *fakeTelegram) FindDialog(ctx context.Context, channelID int64) (*telegram.Chat, error) {
	if f.dialogsErr != nil {
		return nil, f.dialogsErr
	}
	for i := range f.dialogs {
		if f.dialogs[i].ID == channelID && f.dialogs[i].IsChannelKind() {
			return &f.dialogs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTelegram) ResolveUsername(ctx context.Context, username string) (*telegram.Chat, error) {
	username = strings.TrimPrefix(username, "@")
	f.resolves = append(f.resolves, username)
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	if ch, ok := f.resolved[username]; ok {
		return ch, nil
	}
	return nil, tgerr.New(400, "USERNAME_NOT_OCCUPIED")
}

func (f *fakeTelegram) LinkedChat(ctx context.Context, chat *telegram.Chat) (*telegram.Chat, error) {
	f.linkedCalls++
	return f.linked, f.linkedErr
}

func (f *fakeTelegram) CheckInvite(ctx context.Context, hash string) (*telegram.Chat, error) {
	f.invites = append(f.invites, hash)
	return f.inviteChat, f.inviteErr
}

func (f *fakeTelegram) JoinChat(ctx context.Context, hash string) (*telegram.Chat, error) {
	f.joins = append(f.joins, hash)
	return f.joinResult, f.joinErr
}

func (f *fakeTelegram) LeaveChat(ctx context.Context, chat *telegram.Chat) error {
	f.leaves = append(f.leaves, chat.ID)
	return f.leaveErr
}

// scriptPrompter answers prompts from pre-filled queues. Running out of
// answers fails the call, which surfaces as a test failure.
type scriptPrompter struct {
	choices  []int
	texts    []string
	confirms []bool
	asked    []string
}

func (p *scriptPrompter) Choice(title string, options []string) (int, error) {
	p.asked = append(p.asked, title)
	if len(p.choices) == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	v := p.choices[0]
	p.choices = p.choices[1:]
	return v, nil
}

func (p *scriptPrompter) Text(title string) (string, error) {
	p.asked = append(p.asked, title)
	if len(p.texts) == 0 {
		return "", io.ErrUnexpectedEOF
	}
	v := p.texts[0]
	p.texts = p.texts[1:]
	return v, nil
}

func (p *scriptPrompter) Confirm(title string) (bool, error) {
	p.asked = append(p.asked, title)
	if len(p.confirms) == 0 {
		return false, io.ErrUnexpectedEOF
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

// sleepRecorder replaces real sleeps and keeps the requested durations.
type sleepRecorder struct {
	slept []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.slept = append(r.slept, d)
	return nil
}

func newTestCleaner(tg Telegram, p Prompter, opts Options) (*Cleaner, *sleepRecorder) {
	c := New(tg, p, opts)
	rec := &sleepRecorder{}
	c.sleep = rec.sleep
	c.retry.sleep = rec.sleep
	c.del.sleep = rec.sleep
	return c, rec
}

// ownMsgs builds n messages sent by the account, ids start..start+n-1.
func ownMsgs(start, n int) []telegram.Message {
	out := make([]telegram.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, telegram.Message{ID: start + i, Out: true, Text: "mine"})
	}
	return out
}

func floodErr(seconds int) error {
	return tgerr.New(420, fmt.Sprintf("FLOOD_WAIT_%d", seconds))
}
