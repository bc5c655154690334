package cleaner

import (
	"context"
	"testing"

	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

func TestSweepChat_DeletesOwnMessages(t *testing.T) {
	f := &fakeTelegram{
		myPages: [][]telegram.Message{ownMsgs(1, 3)},
	}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})
	chat := &telegram.Chat{ID: 50, Title: "Group", Kind: telegram.KindSupergroup}

	st := &Stats{}
	err := c.sweepChat(context.Background(), chat, st)

	require.NoError(t, err)
	require.Len(t, f.deletes, 1)
	assert.Equal(t, []int{1, 2, 3}, f.deletes[0].ids)
	assert.Equal(t, int64(50), f.deletes[0].chatID)
	assert.True(t, f.deletes[0].revoke)
	assert.Equal(t, 3, st.Checked)
	assert.Equal(t, 3, st.MatchedOwn)
	assert.Equal(t, 3, st.DeletedForAll)
}

func TestSweepChat_ChunksLargeSets(t *testing.T) {
	f := &fakeTelegram{
		myPages: [][]telegram.Message{
			ownMsgs(1, 100),
			ownMsgs(101, 100),
			ownMsgs(201, 50),
		},
	}
	c, rec := newTestCleaner(f, &scriptPrompter{}, Options{})
	chat := &telegram.Chat{ID: 50, Title: "Group", Kind: telegram.KindSupergroup}

	st := &Stats{}
	err := c.sweepChat(context.Background(), chat, st)

	require.NoError(t, err)
	require.Len(t, f.deletes, 3)
	assert.Len(t, f.deletes[0].ids, 100)
	assert.Len(t, f.deletes[1].ids, 100)
	assert.Len(t, f.deletes[2].ids, 50)
	assert.Equal(t, 250, st.DeletedForAll)
	// one pause between chunks, none after the last
	require.Len(t, rec.slept, 2)
	assert.Equal(t, interChunkDelay, rec.slept[0])
}

func TestSweepChat_BroadcastWithLinkedGroup(t *testing.T) {
	linked := &telegram.Chat{ID: 2, Title: "Discussion", Kind: telegram.KindSupergroup}
	f := &fakeTelegram{
		linked:  linked,
		myPages: [][]telegram.Message{ownMsgs(5, 2)},
	}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})
	broadcast := &telegram.Chat{ID: 1, Title: "News", Kind: telegram.KindChannel}

	st := &Stats{}
	err := c.sweepChat(context.Background(), broadcast, st)

	require.NoError(t, err)
	assert.Equal(t, 1, f.linkedCalls)
	// search and delete both target the discussion group
	assert.Equal(t, []int64{2, 2}, f.mySearches)
	require.Len(t, f.deletes, 1)
	assert.Equal(t, int64(2), f.deletes[0].chatID)
}

func TestSweepChat_BroadcastWithoutLinkedGroup(t *testing.T) {
	f := &fakeTelegram{}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})
	broadcast := &telegram.Chat{ID: 1, Title: "News", Kind: telegram.KindChannel}

	st := &Stats{}
	err := c.sweepChat(context.Background(), broadcast, st)

	require.NoError(t, err)
	assert.Empty(t, f.mySearches)
	assert.Empty(t, f.deletes)
	assert.Equal(t, 0, st.MatchedOwn)
}

func TestSweepChat_BroadcastInspectDenied(t *testing.T) {
	f := &fakeTelegram{
		linkedErr: tgerr.New(403, "CHAT_ADMIN_REQUIRED"),
	}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})
	broadcast := &telegram.Chat{ID: 1, Title: "News", Kind: telegram.KindChannel}

	st := &Stats{}
	err := c.sweepChat(context.Background(), broadcast, st)

	require.NoError(t, err)
	assert.Empty(t, f.deletes)
}

func TestSweepChat_SearchGoneChatSkips(t *testing.T) {
	f := &fakeTelegram{
		myErrs: []error{tgerr.New(400, "CHANNEL_PRIVATE")},
	}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})
	chat := &telegram.Chat{ID: 50, Title: "Gone", Kind: telegram.KindSupergroup}

	st := &Stats{}
	err := c.sweepChat(context.Background(), chat, st)

	require.NoError(t, err)
	assert.Empty(t, f.deletes)
}

func TestSweepChat_NoOwnMessages(t *testing.T) {
	f := &fakeTelegram{}
	c, _ := newTestCleaner(f, &scriptPrompter{}, Options{})
	chat := &telegram.Chat{ID: 50, Title: "Quiet", Kind: telegram.KindPrivate}

	st := &Stats{}
	err := c.sweepChat(context.Background(), chat, st)

	require.NoError(t, err)
	assert.Empty(t, f.deletes)
	assert.Equal(t, 0, st.MatchedOwn)
}

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		size int
		want [][]int
	}{
		{"empty", nil, 3, nil},
		{"under one chunk", []int{1, 2}, 3, [][]int{{1, 2}}},
		{"exact multiple", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"remainder", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkIDs(tt.ids, tt.size))
		})
	}
}
