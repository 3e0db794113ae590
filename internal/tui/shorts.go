package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/config"
	"github.com/nkoval/vtv/internal/feednav"
)

// The shorts feed runs in virtual scroll units decoupled from the
// terminal: every item spans shortsExtent units and a wheel tick moves
// wheelStep. Crossing an item's midpoint flips the cursor.
const (
	shortsExtent = 100
	wheelStep    = 25
)

type shortsState struct {
	engine *feednav.Engine
	offset int

	settleDelay  time.Duration
	historyDwell time.Duration

	dwellSeq int
	recorded map[string]bool
	inflight map[string]bool
	details  map[string]catalog.Video

	width  int
	height int
}

func newShortsState(cfg *config.Config) *shortsState {
	return &shortsState{
		engine:       feednav.NewEngine(shortsExtent, cfg.Shorts.PreloadRadius),
		settleDelay:  cfg.Shorts.SettleDelay,
		historyDwell: cfg.Shorts.HistoryDwell,
		recorded:     map[string]bool{},
		inflight:     map[string]bool{},
		details:      map[string]catalog.Video{},
	}
}

func (s *shortsState) populate(videos []catalog.Video, max int) {
	s.engine.Populate(videos, max)
	s.offset = 0
	s.recorded = map[string]bool{}
	s.inflight = map[string]bool{}
	s.details = map[string]catalog.Video{}
}

func (s *shortsState) resize(width, height int) {
	s.width = width
	s.height = height
}

// settle forwards timer expiry and snaps the offset onto the cursor
// once the gesture is over, the way scroll-snap leaves a feed aligned.
func (s *shortsState) settle(seq int) {
	s.engine.SettleExpired(seq)
	if s.engine.Phase() == feednav.Idle && s.engine.Cursor() >= 0 {
		s.offset = s.engine.Cursor() * shortsExtent
	}
}

func (s *shortsState) currentVideo() (catalog.Video, bool) {
	item, ok := s.engine.Item(s.engine.Cursor())
	if !ok {
		return catalog.Video{}, false
	}
	if detail, have := s.details[item.Video.ID]; have {
		return detail, true
	}
	return item.Video, true
}

// handleShortsMouse maps wheel movement onto the virtual offset.
func (a *App) handleShortsMouse(msg tea.MouseMsg) tea.Cmd {
	var delta int
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		delta = -wheelStep
	case tea.MouseButtonWheelDown:
		delta = wheelStep
	default:
		return nil
	}
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	s := a.shorts
	maxOffset := (s.engine.Len() - 1) * shortsExtent
	if maxOffset < 0 {
		maxOffset = 0
	}
	s.offset += delta
	if s.offset < 0 {
		s.offset = 0
	}
	if s.offset > maxOffset {
		s.offset = maxOffset
	}

	t := s.engine.OnScroll(s.offset)
	return tea.Batch(a.applyShortsTransition(t)...)
}

// shortsStep handles a discrete previous/next command.
func (a *App) shortsStep(delta int) tea.Cmd {
	t := a.shorts.engine.OnDirectional(delta)
	return tea.Batch(a.applyShortsTransition(t)...)
}

// applyShortsTransition executes the engine's requested effects. A
// programmatic scroll is applied to the virtual offset and echoed
// straight back through OnScroll; the echo's settle arm supersedes the
// original one.
func (a *App) applyShortsTransition(t feednav.Transition) []tea.Cmd {
	s := a.shorts
	var cmds []tea.Cmd

	if t.Scroll != nil {
		s.offset = t.Scroll.Offset
		echo := s.engine.OnScroll(s.offset)
		if echo.Settle != nil {
			t.Settle = echo.Settle
		}
	}

	if t.Settle != nil {
		seq := t.Settle.Seq
		cmds = append(cmds, tea.Tick(s.settleDelay, func(time.Time) tea.Msg {
			return shortsSettleMsg{seq: seq}
		}))
	}

	if t.CursorChanged {
		cmds = append(cmds, a.shortsAfterCursorChange()...)
	}
	return cmds
}

// shortsAfterCursorChange re-arms the history dwell timer and starts
// detail fetches for every item the engine wants preloaded.
func (a *App) shortsAfterCursorChange() []tea.Cmd {
	s := a.shorts
	var cmds []tea.Cmd

	if video, ok := s.currentVideo(); ok && !s.recorded[video.ID] {
		s.dwellSeq++
		seq := s.dwellSeq
		id := video.ID
		cmds = append(cmds, tea.Tick(s.historyDwell, func(time.Time) tea.Msg {
			return shortsDwellMsg{seq: seq, videoID: id}
		}))
	}

	for i, item := range s.engine.Items() {
		if item.Load != feednav.Preloading {
			continue
		}
		if s.inflight[item.Video.ID] || s.details[item.Video.ID].ID != "" {
			s.engine.MarkReady(i)
			continue
		}
		s.inflight[item.Video.ID] = true
		cmds = append(cmds, a.preloadShort(i, item.Video.ID))
	}
	return cmds
}

// handleShortsDwell records a watch once the viewer has stayed on the
// same item long enough. A stale timer or a moved cursor is ignored.
func (a *App) handleShortsDwell(msg shortsDwellMsg) []tea.Cmd {
	s := a.shorts
	if msg.seq != s.dwellSeq {
		return nil
	}
	video, ok := s.currentVideo()
	if !ok || video.ID != msg.videoID || s.recorded[video.ID] {
		return nil
	}
	s.recorded[video.ID] = true
	return []tea.Cmd{a.recordHistory(video, true)}
}

func (a *App) handleShortsReady(msg shortsReadyMsg) {
	s := a.shorts
	delete(s.inflight, msg.videoID)

	item, ok := s.engine.Item(msg.index)
	if !ok || item.Video.ID != msg.videoID {
		return
	}
	if msg.video != nil {
		s.details[msg.videoID] = *msg.video
	}
	s.engine.MarkReady(msg.index)
}

// view renders the active short as a full-height card with adjacent
// item hints above and below.
func (s *shortsState) view(width, height int) string {
	if s.engine.Len() == 0 {
		return renderCentered(width, height,
			StatusInfoStyle.Render("No shorts available"))
	}

	cursor := s.engine.Cursor()
	video, _ := s.currentVideo()
	item, _ := s.engine.Item(cursor)

	var lines []string
	lines = append(lines,
		HeaderStyle.Render(fmt.Sprintf("› shorts  %d / %d", cursor+1, s.engine.Len())))

	if prev, ok := s.engine.Item(cursor - 1); ok {
		lines = append(lines, TimeStyle.Render("↑ "+truncateEnd(prev.Video.Title, width-6)))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, "")

	title := lipgloss.NewStyle().Foreground(TextColor).Bold(true).
		Render(truncateEnd(video.Title, width-8))
	lines = append(lines, title)
	meta := ChannelStyle.Render(video.ChannelTitle)
	if video.ViewCount > 0 {
		meta += StatusInfoStyle.Render(" • " + formatCount(video.ViewCount) + " views")
	}
	lines = append(lines, meta)

	switch item.Load {
	case feednav.Ready:
		if video.Description != "" {
			lines = append(lines, "",
				StatusInfoStyle.Render(truncateEnd(video.Description, (width-8)*2)))
		}
	case feednav.Preloading:
		lines = append(lines, "", StatusInfoStyle.Render(MsgLoading))
	}

	lines = append(lines, "")
	if next, ok := s.engine.Item(cursor + 1); ok {
		lines = append(lines, TimeStyle.Render("↓ "+truncateEnd(next.Video.Title, width-6)))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SurfaceColor).
		Padding(1, 2).
		Width(width - 6).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return renderCentered(width, height, card)
}
