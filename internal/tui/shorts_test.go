package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/config"
	"github.com/nkoval/vtv/internal/feednav"
)

func shortsTestApp(t *testing.T, radius int, videos ...catalog.Video) *App {
	t.Helper()
	cfg := &config.Config{
		Shorts: config.ShortsConfig{
			PreloadRadius: radius,
			SettleDelay:   10 * time.Millisecond,
			HistoryDwell:  10 * time.Millisecond,
		},
	}
	a := &App{config: cfg, shorts: newShortsState(cfg)}
	a.shorts.populate(videos, 0)
	return a
}

func shortVideos(n int) []catalog.Video {
	out := make([]catalog.Video, n)
	for i := range out {
		out[i] = catalog.Video{ID: string(rune('a' + i)), Title: "short " + string(rune('a'+i))}
	}
	return out
}

func wheelDown() tea.MouseMsg {
	return tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress}
}

func TestShortsWheelCrossesMidpoint(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(3)...)
	s := a.shorts

	// one tick: offset 25, still below the midpoint
	a.handleShortsMouse(wheelDown())
	assert.Equal(t, 0, s.engine.Cursor())
	assert.Equal(t, 25, s.offset)

	// second tick reaches 50, the midpoint of item 0/1
	a.handleShortsMouse(wheelDown())
	assert.Equal(t, 1, s.engine.Cursor())
	assert.Equal(t, feednav.Settling, s.engine.Phase())
}

func TestShortsWheelClampsAtEnds(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(2)...)
	s := a.shorts

	up := tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress}
	a.handleShortsMouse(up)
	assert.Equal(t, 0, s.offset)

	for i := 0; i < 20; i++ {
		a.handleShortsMouse(wheelDown())
	}
	assert.Equal(t, (s.engine.Len()-1)*shortsExtent, s.offset)
	assert.Equal(t, s.engine.Len()-1, s.engine.Cursor())
}

func TestShortsDirectionalStepAppliesScroll(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(3)...)
	s := a.shorts

	cmd := a.shortsStep(1)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, s.engine.Cursor())
	assert.Equal(t, shortsExtent, s.offset)
	assert.Equal(t, feednav.Settling, s.engine.Phase())
}

func TestShortsDirectionalSuppressedWhileSettling(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(3)...)
	s := a.shorts

	a.shortsStep(1)
	a.shortsStep(1)
	assert.Equal(t, 1, s.engine.Cursor())
}

func TestShortsSettleSnapsOffset(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(3)...)
	s := a.shorts

	// rest the wheel just past the midpoint, then let the timer fire
	tr := s.engine.OnScroll(60)
	require.NotNil(t, tr.Settle)
	s.offset = 60

	s.settle(tr.Settle.Seq)
	assert.Equal(t, feednav.Idle, s.engine.Phase())
	assert.Equal(t, shortsExtent, s.offset)
}

func TestShortsStaleSettleIgnored(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(3)...)
	s := a.shorts

	first := s.engine.OnScroll(60)
	second := s.engine.OnScroll(70)
	s.offset = 70

	s.settle(first.Settle.Seq)
	assert.Equal(t, feednav.Settling, s.engine.Phase())
	assert.Equal(t, 70, s.offset)

	s.settle(second.Settle.Seq)
	assert.Equal(t, feednav.Idle, s.engine.Phase())
}

func TestShortsDwellRecordsOnce(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(2)...)
	s := a.shorts
	video, ok := s.currentVideo()
	require.True(t, ok)
	s.dwellSeq = 3

	// a stale timer fires after the viewer moved on
	assert.Nil(t, a.handleShortsDwell(shortsDwellMsg{seq: 2, videoID: video.ID}))
	assert.False(t, s.recorded[video.ID])

	cmds := a.handleShortsDwell(shortsDwellMsg{seq: 3, videoID: video.ID})
	assert.Len(t, cmds, 1)
	assert.True(t, s.recorded[video.ID])

	// already recorded this session
	assert.Nil(t, a.handleShortsDwell(shortsDwellMsg{seq: 3, videoID: video.ID}))
}

func TestShortsDwellIgnoresMovedCursor(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(3)...)
	s := a.shorts
	s.dwellSeq = 1

	assert.Nil(t, a.handleShortsDwell(shortsDwellMsg{seq: 1, videoID: "not-current"}))
}

func TestShortsPreloadDedup(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(3)...)
	s := a.shorts

	cmds := a.shortsAfterCursorChange()
	assert.NotEmpty(t, cmds)
	var preloading int
	for _, item := range s.engine.Items() {
		if item.Load == feednav.Preloading {
			preloading++
		}
	}
	// every preloading item is now an in-flight fetch
	assert.Equal(t, preloading, len(s.inflight))

	// a second pass promotes in-flight items instead of refetching
	a.shortsAfterCursorChange()
	for i, item := range s.engine.Items() {
		if s.inflight[item.Video.ID] {
			assert.Equal(t, feednav.Ready, s.engine.Items()[i].Load)
		}
	}
}

func TestShortsReadyCachesDetail(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(2)...)
	s := a.shorts
	a.shortsAfterCursorChange()

	items := s.engine.Items()
	var idx int
	for i, item := range items {
		if item.Load == feednav.Preloading {
			idx = i
			break
		}
	}
	id := items[idx].Video.ID

	detail := catalog.Video{ID: id, Title: "full detail", Description: "desc"}
	a.handleShortsReady(shortsReadyMsg{index: idx, videoID: id, video: &detail})

	assert.False(t, s.inflight[id])
	got, ok := s.engine.Item(idx)
	require.True(t, ok)
	assert.Equal(t, feednav.Ready, got.Load)
	assert.Equal(t, "full detail", s.details[id].Title)
}

func TestShortsReadyMismatchedItemIgnored(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(2)...)
	s := a.shorts
	a.shortsAfterCursorChange()

	// the feed was repopulated while the fetch was in flight
	a.handleShortsReady(shortsReadyMsg{index: 0, videoID: "gone", video: &catalog.Video{ID: "gone"}})
	assert.Empty(t, s.details)
}

func TestShortsCurrentVideoPrefersDetail(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(1)...)
	s := a.shorts

	base, ok := s.currentVideo()
	require.True(t, ok)

	s.details[base.ID] = catalog.Video{ID: base.ID, Title: "enriched", ViewCount: 42}
	got, ok := s.currentVideo()
	require.True(t, ok)
	assert.Equal(t, "enriched", got.Title)
	assert.Equal(t, uint64(42), got.ViewCount)
}

func TestShortsPopulateResetsSessionState(t *testing.T) {
	a := shortsTestApp(t, 1, shortVideos(2)...)
	s := a.shorts
	s.recorded["x"] = true
	s.details["x"] = catalog.Video{ID: "x"}
	s.offset = 150

	s.populate(shortVideos(2), 0)
	assert.Empty(t, s.recorded)
	assert.Empty(t, s.details)
	assert.Equal(t, 0, s.offset)
}
