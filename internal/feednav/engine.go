// Package feednav tracks the active cursor of the short-form feed and
// classifies every item's proximity to it. It reacts to two input
// channels, continuous scroll offsets and discrete directional
// commands, without letting the two feed back into each other.
//
// The engine is pure index arithmetic: no operation can fail, no
// transition blocks, and out-of-range inputs clamp instead of
// erroring. Timers live with the caller; the engine only hands out
// effects describing which timer to arm and which scroll to issue.
package feednav

import (
	"math/rand"

	"github.com/nkoval/vtv/internal/catalog"
)

// LoadState tracks per-item media loading, bounded by the preload radius.
type LoadState int

const (
	Unloaded LoadState = iota
	Preloading
	Ready
)

// Activity classifies an item's distance to the cursor.
type Activity int

const (
	Dormant Activity = iota
	Adjacent
	Active
)

// Item wraps a catalog video with feed-local state.
type Item struct {
	Video    catalog.Video
	Load     LoadState
	Activity Activity
}

// Phase is the scroll-settle state.
type Phase int

const (
	// Idle means no scroll gesture is in flight.
	Idle Phase = iota
	// Settling means a scroll gesture is in flight and a settle timer
	// is pending. Programmatic scrolls are suppressed in this phase so
	// a directional command cannot override user scroll intent.
	Settling
)

// ScrollTo asks the view to issue one programmatic scroll. Its echo
// arrives later as an OnScroll call and must be idempotent.
type ScrollTo struct {
	Offset int
	Smooth bool
}

// SettleArm asks the view to (re)arm the settle timer. Seq identifies
// the arm; expiry of a stale seq is ignored.
type SettleArm struct {
	Seq int
}

// Transition describes what the caller must do after an input.
type Transition struct {
	CursorChanged bool
	Scroll        *ScrollTo
	Settle        *SettleArm
}

// Engine owns the navigation cursor and every item's activity and load
// state. Nothing else may mutate them.
type Engine struct {
	items  []Item
	cursor int
	phase  Phase

	extent int // viewport extent per item, in the caller's scroll units
	radius int // media preload radius around the cursor

	settleSeq int
}

func NewEngine(extent, radius int) *Engine {
	if radius < 0 {
		radius = 0
	}
	return &Engine{
		cursor: -1,
		extent: extent,
		radius: radius,
	}
}

// Populate replaces the feed with a deduplicated, shuffled, capped set
// of videos and resets the cursor to the first item. Order is
// deliberately unstable: the feed is an unordered set limited to max.
func (e *Engine) Populate(videos []catalog.Video, max int) {
	seen := make(map[string]struct{}, len(videos))
	unique := make([]catalog.Video, 0, len(videos))
	for _, v := range videos {
		if v.ID == "" {
			continue
		}
		if _, dup := seen[v.ID]; dup {
			continue
		}
		seen[v.ID] = struct{}{}
		unique = append(unique, v)
	}

	rand.Shuffle(len(unique), func(i, j int) {
		unique[i], unique[j] = unique[j], unique[i]
	})
	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}

	e.items = make([]Item, len(unique))
	for i, v := range unique {
		e.items[i] = Item{Video: v}
	}
	e.phase = Idle
	if len(e.items) == 0 {
		e.cursor = -1
		return
	}
	e.cursor = 0
	e.recompute()
}

// SetExtent updates the per-item viewport extent (window resize).
func (e *Engine) SetExtent(extent int) {
	e.extent = extent
}

func (e *Engine) Len() int { return len(e.items) }

// Cursor returns the active index, or -1 when the feed is empty.
func (e *Engine) Cursor() int {
	if len(e.items) == 0 {
		return -1
	}
	return e.cursor
}

func (e *Engine) Phase() Phase { return e.phase }

// Item returns a copy of the item at i.
func (e *Engine) Item(i int) (Item, bool) {
	if i < 0 || i >= len(e.items) {
		return Item{}, false
	}
	return e.items[i], true
}

// Items returns a copy of the feed items.
func (e *Engine) Items() []Item {
	out := make([]Item, len(e.items))
	copy(out, e.items)
	return out
}

// OnScroll processes a raw scroll offset. The computed index clamps to
// the valid range; a cursor change takes effect immediately. Every
// scroll event (re)arms the settle timer.
func (e *Engine) OnScroll(rawOffset int) Transition {
	if len(e.items) == 0 || e.extent <= 0 {
		return Transition{}
	}

	idx := (rawOffset + e.extent/2) / e.extent
	if rawOffset < 0 {
		idx = 0
	}
	idx = clamp(idx, 0, len(e.items)-1)

	var t Transition
	if idx != e.cursor {
		e.cursor = idx
		e.recompute()
		t.CursorChanged = true
	}

	e.phase = Settling
	e.settleSeq++
	t.Settle = &SettleArm{Seq: e.settleSeq}
	return t
}

// OnDirectional processes a discrete command: negative delta moves to
// the previous item, positive to the next; only the sign counts. At a
// boundary it is a no-op. While a scroll is settling, repeated
// commands coalesce into the pending step instead of queueing.
func (e *Engine) OnDirectional(delta int) Transition {
	if len(e.items) == 0 || delta == 0 {
		return Transition{}
	}
	if e.phase == Settling {
		return Transition{}
	}

	target := clamp(e.cursor+sign(delta), 0, len(e.items)-1)
	if target == e.cursor {
		return Transition{}
	}

	e.cursor = target
	e.recompute()
	e.phase = Settling
	e.settleSeq++
	return Transition{
		CursorChanged: true,
		Scroll:        &ScrollTo{Offset: target * e.extent, Smooth: true},
		Settle:        &SettleArm{Seq: e.settleSeq},
	}
}

// SettleExpired transitions back to Idle when the expiring timer is
// the most recently armed one; stale expirations are ignored.
func (e *Engine) SettleExpired(seq int) {
	if seq != e.settleSeq {
		return
	}
	e.phase = Idle
}

// MarkReady promotes a preloading item whose media finished loading.
// Items outside the preload radius stay unloaded.
func (e *Engine) MarkReady(i int) {
	if i < 0 || i >= len(e.items) {
		return
	}
	if e.items[i].Load == Preloading {
		e.items[i].Load = Ready
	}
}

// recompute derives every item's activity and load state from the
// cursor. The loaded set is a pure function of the cursor: exactly
// {cursor-radius .. cursor+radius} clamped to the valid range.
func (e *Engine) recompute() {
	for i := range e.items {
		d := i - e.cursor
		if d < 0 {
			d = -d
		}

		switch {
		case d == 0:
			e.items[i].Activity = Active
		case d == 1:
			e.items[i].Activity = Adjacent
		default:
			e.items[i].Activity = Dormant
		}

		if d <= e.radius {
			if e.items[i].Load == Unloaded {
				e.items[i].Load = Preloading
			}
		} else {
			e.items[i].Load = Unloaded
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(d int) int {
	if d < 0 {
		return -1
	}
	return 1
}
