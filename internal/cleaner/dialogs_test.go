package cleaner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

func TestCollectTargets_FiltersByKind(t *testing.T) {
	f := &fakeTelegram{
		dialogs: []telegram.Chat{
			{ID: 1, Title: "Alice", Kind: telegram.KindPrivate},
			{ID: 2, Title: "Old Group", Kind: telegram.KindGroup},
			{ID: 3, Title: "Big Group", Kind: telegram.KindSupergroup},
			{ID: 4, Title: "News Feed", Kind: telegram.KindChannel},
			{ID: 5, Title: "Odd Peer", Kind: telegram.KindUnknown},
		},
	}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})

	st := &Stats{}
	out := c.collectTargets(context.Background(), st)

	assert.Len(t, out, 3)
	assert.Equal(t, 5, st.DialogsFound)
	assert.Equal(t, 2, st.DialogsSkipped)
	for _, ch := range out {
		assert.NotEqual(t, telegram.KindChannel, ch.Kind)
	}
}

func TestCollectTargets_PartialListing(t *testing.T) {
	f := &fakeTelegram{
		dialogs: []telegram.Chat{
			{ID: 1, Title: "Alice", Kind: telegram.KindPrivate},
		},
		dialogsErr: errors.New("paging broke"),
	}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})

	st := &Stats{}
	out := c.collectTargets(context.Background(), st)

	// whatever was fetched before the fault is still usable
	assert.Len(t, out, 1)
	assert.Equal(t, 1, st.DialogsFound)
}

func TestCollectTargets_Empty(t *testing.T) {
	f := &fakeTelegram{}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})

	st := &Stats{}
	out := c.collectTargets(context.Background(), st)

	assert.Empty(t, out)
	assert.Equal(t, 0, st.DialogsFound)
}
