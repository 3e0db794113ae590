package feednav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkoval/vtv/internal/catalog"
)

const extent = 40 // rows per item in these tests

func feedOf(n int) []catalog.Video {
	videos := make([]catalog.Video, n)
	for i := range videos {
		videos[i] = catalog.Video{ID: string(rune('a' + i)), Title: "video"}
	}
	return videos
}

func newFeed(t *testing.T, n int) *Engine {
	t.Helper()
	e := NewEngine(extent, 2)
	e.Populate(feedOf(n), 0)
	require.Equal(t, n, e.Len())
	return e
}

func TestPopulateDeduplicatesByID(t *testing.T) {
	e := NewEngine(extent, 2)
	e.Populate([]catalog.Video{
		{ID: "dup", Title: "from search one"},
		{ID: "other"},
		{ID: "dup", Title: "from search two"},
	}, 0)

	assert.Equal(t, 2, e.Len(), "two videos sharing an id must yield one item")
}

func TestPopulateCapsAndResets(t *testing.T) {
	e := NewEngine(extent, 2)
	e.Populate(feedOf(10), 4)
	assert.Equal(t, 4, e.Len())
	assert.Equal(t, 0, e.Cursor())
	assert.Equal(t, Idle, e.Phase())
}

func TestEmptyFeedAllOpsNoop(t *testing.T) {
	e := NewEngine(extent, 2)
	e.Populate(nil, 0)

	assert.Equal(t, -1, e.Cursor())

	tr := e.OnDirectional(1)
	assert.False(t, tr.CursorChanged)
	assert.Nil(t, tr.Scroll)
	assert.Nil(t, tr.Settle)

	tr = e.OnScroll(3 * extent)
	assert.False(t, tr.CursorChanged)
	assert.Nil(t, tr.Settle)
}

func TestSingleItemDirectionalNoop(t *testing.T) {
	e := newFeed(t, 1)

	assert.Nil(t, e.OnDirectional(1).Scroll)
	assert.Nil(t, e.OnDirectional(-1).Scroll)
	assert.Equal(t, 0, e.Cursor())
}

func TestScrollCursorMonotoneAndBounded(t *testing.T) {
	e := newFeed(t, 6)

	prev := e.Cursor()
	for offset := 0; offset <= 10*extent; offset += 7 {
		e.OnScroll(offset)
		c := e.Cursor()
		assert.GreaterOrEqual(t, c, prev, "monotone offsets must not move the cursor backwards")
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, e.Len())
		prev = c
	}
	assert.Equal(t, 5, prev, "offsets past the end clamp to the last index")
}

func TestScrollRoundsToNearestItem(t *testing.T) {
	e := newFeed(t, 5)

	e.OnScroll(extent + extent/2 + 1) // just past the midpoint between 1 and 2
	assert.Equal(t, 2, e.Cursor())

	e.OnScroll(extent + 1) // just past item 1's origin
	assert.Equal(t, 1, e.Cursor())

	e.OnScroll(-50)
	assert.Equal(t, 0, e.Cursor())
}

func TestDirectionalBoundaries(t *testing.T) {
	e := newFeed(t, 3)

	// At index 0, previous is a no-op with no scroll request.
	tr := e.OnDirectional(-1)
	assert.False(t, tr.CursorChanged)
	assert.Nil(t, tr.Scroll)
	assert.Equal(t, 0, e.Cursor())

	// Walk to the end.
	e.OnDirectional(1)
	e.SettleExpired(latestSeq(e))
	e.OnDirectional(1)
	e.SettleExpired(latestSeq(e))
	require.Equal(t, 2, e.Cursor())

	// At the last index, next is a no-op.
	tr = e.OnDirectional(1)
	assert.False(t, tr.CursorChanged)
	assert.Nil(t, tr.Scroll)
	assert.Equal(t, 2, e.Cursor())
}

func TestDirectionalEmitsOneScrollRequest(t *testing.T) {
	e := newFeed(t, 5)
	e.OnScroll(2 * extent)
	e.SettleExpired(latestSeq(e))
	require.Equal(t, 2, e.Cursor())

	tr := e.OnDirectional(-1)
	require.True(t, tr.CursorChanged)
	require.NotNil(t, tr.Scroll)
	assert.Equal(t, 1*extent, tr.Scroll.Offset)
	assert.True(t, tr.Scroll.Smooth)
	assert.Equal(t, 1, e.Cursor())

	// The echo of the programmatic scroll is idempotent.
	echo := e.OnScroll(1 * extent)
	assert.False(t, echo.CursorChanged)
	assert.Equal(t, 1, e.Cursor())
}

func TestRapidDirectionalCoalesces(t *testing.T) {
	e := newFeed(t, 5)
	require.Equal(t, 0, e.Cursor())

	// Three nexts inside the settle window produce a single step.
	first := e.OnDirectional(1)
	require.NotNil(t, first.Scroll)

	second := e.OnDirectional(1)
	assert.Nil(t, second.Scroll, "pending step must coalesce, not queue")
	third := e.OnDirectional(1)
	assert.Nil(t, third.Scroll)

	assert.Equal(t, 1, e.Cursor(), "final cursor is initial+1, not initial+3")

	// After settle the next command moves again.
	e.SettleExpired(latestSeq(e))
	e.OnDirectional(1)
	assert.Equal(t, 2, e.Cursor())
}

func TestStaleSettleIgnored(t *testing.T) {
	e := newFeed(t, 5)

	tr1 := e.OnScroll(1 * extent)
	require.NotNil(t, tr1.Settle)
	tr2 := e.OnScroll(2 * extent)
	require.NotNil(t, tr2.Settle)

	// The first timer expiring must not end the second window.
	e.SettleExpired(tr1.Settle.Seq)
	assert.Equal(t, Settling, e.Phase())

	e.SettleExpired(tr2.Settle.Seq)
	assert.Equal(t, Idle, e.Phase())
}

func TestLoadedSetIsPureFunctionOfCursor(t *testing.T) {
	e := newFeed(t, 9)

	// Wander around, then land on index 4 from two different histories.
	e.OnScroll(8 * extent)
	e.OnScroll(4 * extent)
	fromAbove := loadedSet(e)

	e2 := newFeed(t, 9)
	e2.OnScroll(4 * extent)
	fromBelow := loadedSet(e2)

	want := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	assert.Equal(t, want, fromAbove)
	assert.Equal(t, want, fromBelow, "loaded set depends only on the cursor")
}

func TestLoadedSetClampsAtBoundaries(t *testing.T) {
	e := newFeed(t, 4)
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, loadedSet(e))

	e.OnScroll(3 * extent)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, loadedSet(e))
}

func TestItemsOutsideRadiusRevertToUnloaded(t *testing.T) {
	e := newFeed(t, 9)

	e.MarkReady(0)
	item, _ := e.Item(0)
	require.Equal(t, Ready, item.Load)

	e.OnScroll(6 * extent)
	item, _ = e.Item(0)
	assert.Equal(t, Unloaded, item.Load, "items beyond the radius release their media")
}

func TestActivityClassification(t *testing.T) {
	e := newFeed(t, 5)
	e.OnScroll(2 * extent)

	wantActivity := []Activity{Dormant, Adjacent, Active, Adjacent, Dormant}
	for i, want := range wantActivity {
		item, ok := e.Item(i)
		require.True(t, ok)
		assert.Equal(t, want, item.Activity, "item %d", i)
	}
}

func TestMarkReadyOnlyPromotesPreloading(t *testing.T) {
	e := newFeed(t, 9)

	e.MarkReady(8) // far outside the radius: stays unloaded
	item, _ := e.Item(8)
	assert.Equal(t, Unloaded, item.Load)

	e.MarkReady(1)
	item, _ = e.Item(1)
	assert.Equal(t, Ready, item.Load)

	e.MarkReady(100) // out of range: no panic
}

// latestSeq re-arms and returns a fresh settle seq so tests can force
// the engine back to Idle without tracking every intermediate arm.
func latestSeq(e *Engine) int {
	return e.settleSeq
}

func loadedSet(e *Engine) map[int]bool {
	set := make(map[int]bool)
	for i, item := range e.Items() {
		if item.Load == Preloading || item.Load == Ready {
			set[i] = true
		}
	}
	return set
}
