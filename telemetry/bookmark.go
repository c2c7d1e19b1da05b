package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSwarmLock   BookmarkType = "swarm_lock"
	BookmarkPanic       BookmarkType = "panic"
	BookmarkDepletion   BookmarkType = "depletion"
	BookmarkStableSwarm BookmarkType = "stable_swarm"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentResourcePeak int // peak active resource count in recent history
	stableWindowsCount int // consecutive windows with a steady locked fraction
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable swarm detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		checks := []func(WindowStats) *Bookmark{
			bd.checkSwarmLock,
			bd.checkPanic,
			bd.checkDepletion,
			bd.checkStableSwarm,
		}
		for _, check := range checks {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)
	if stats.ActiveResources > bd.recentResourcePeak {
		bd.recentResourcePeak = stats.ActiveResources
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

// checkSwarmLock fires when the share of minions holding a target jumps to
// more than twice its rolling average and covers at least half the swarm.
func (bd *BookmarkDetector) checkSwarmLock(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.LockedFraction()
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := stats.LockedFraction()
	if current > avg*2 && current >= 0.5 {
		return &Bookmark{
			Type:        BookmarkSwarmLock,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Locked fraction %.2f is %.1fx average (%.2f)", current, current/avg, avg),
		}
	}
	return nil
}

// checkPanic fires on the first run-away intents after a calm history.
func (bd *BookmarkDetector) checkPanic(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.RunAwayIntents == 0 {
		return nil
	}
	for _, h := range history {
		if h.RunAwayIntents > 0 {
			return nil
		}
	}
	return &Bookmark{
		Type:        BookmarkPanic,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d run-away intents after %d calm windows", stats.RunAwayIntents, len(history)),
	}
}

// checkDepletion fires when active resources drop more than 30% below their
// recent peak.
func (bd *BookmarkDetector) checkDepletion(stats WindowStats) *Bookmark {
	if bd.recentResourcePeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.ActiveResources)/float64(bd.recentResourcePeak)
	if drop > 0.30 && stats.ActiveResources <= bd.recentResourcePeak-5 {
		oldPeak := bd.recentResourcePeak
		bd.recentResourcePeak = stats.ActiveResources

		return &Bookmark{
			Type:        BookmarkDepletion,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Active resources fell %.0f%% from peak %d to %d", drop*100, oldPeak, stats.ActiveResources),
		}
	}
	return nil
}

// checkStableSwarm fires once after five consecutive windows whose locked
// fraction stays within 0.05 of its recent mean.
func (bd *BookmarkDetector) checkStableSwarm(stats WindowStats) *Bookmark {
	if stats.Minions == 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += h.LockedFraction()
	}
	mean := sum / float64(len(recent))

	steady := math.Abs(stats.LockedFraction()-mean) < 0.05
	for _, h := range recent {
		if math.Abs(h.LockedFraction()-mean) >= 0.05 {
			steady = false
		}
	}

	if steady {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkStableSwarm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Locked fraction steady near %.2f over 5 windows", mean),
		}
	}
	return nil
}
