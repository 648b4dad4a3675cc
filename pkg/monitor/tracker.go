package monitor

import "github.com/sw33tLie/livewatch/pkg/extract"

// ChangeKind describes how a channel's broadcasts changed between polls.
type ChangeKind string

const (
	ChangeLive        ChangeKind = "live"
	ChangeEnded       ChangeKind = "ended"
	ChangeScheduled   ChangeKind = "scheduled"
	ChangeUnscheduled ChangeKind = "unscheduled"
	ChangeRescheduled ChangeKind = "rescheduled"
)

// Change is one difference between two consecutive polls of a channel.
// StartTime is only set for upcoming broadcasts.
type Change struct {
	Kind      ChangeKind
	Channel   string
	Title     string
	Link      string
	StartTime float64
}

type snapshot struct {
	live     []extract.LiveEntry
	upcoming []extract.UpcomingEntry
}

// Tracker remembers the last poll of each channel in memory.
type Tracker struct {
	last map[string]snapshot
}

func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]snapshot)}
}

// Update records a new poll and returns what changed since the previous
// one. first is true when the channel had not been polled before, in which
// case everything found is reported as new.
func (t *Tracker) Update(channel string, live []extract.LiveEntry, upcoming []extract.UpcomingEntry) (changes []Change, first bool) {
	prev, seen := t.last[channel]
	t.last[channel] = snapshot{
		live:     append([]extract.LiveEntry(nil), live...),
		upcoming: append([]extract.UpcomingEntry(nil), upcoming...),
	}

	prevLive := make(map[string]bool, len(prev.live))
	for _, e := range prev.live {
		prevLive[e.Link] = true
	}
	curLive := make(map[string]bool, len(live))
	for _, e := range live {
		curLive[e.Link] = true
		if !prevLive[e.Link] {
			changes = append(changes, Change{Kind: ChangeLive, Channel: channel, Title: e.Title, Link: e.Link})
			prevLive[e.Link] = true
		}
	}
	for _, e := range prev.live {
		if !curLive[e.Link] {
			changes = append(changes, Change{Kind: ChangeEnded, Channel: channel, Title: e.Title, Link: e.Link})
			curLive[e.Link] = true
		}
	}

	prevUpcoming := make(map[string]extract.UpcomingEntry, len(prev.upcoming))
	for _, e := range prev.upcoming {
		prevUpcoming[e.Link] = e
	}
	curUpcoming := make(map[string]bool, len(upcoming))
	for _, e := range upcoming {
		if curUpcoming[e.Link] {
			continue
		}
		curUpcoming[e.Link] = true
		old, ok := prevUpcoming[e.Link]
		switch {
		case !ok:
			changes = append(changes, Change{Kind: ChangeScheduled, Channel: channel, Title: e.Title, Link: e.Link, StartTime: e.StartTime})
		case old.StartTime != e.StartTime:
			changes = append(changes, Change{Kind: ChangeRescheduled, Channel: channel, Title: e.Title, Link: e.Link, StartTime: e.StartTime})
		}
	}
	for _, e := range prev.upcoming {
		if !curUpcoming[e.Link] {
			changes = append(changes, Change{Kind: ChangeUnscheduled, Channel: channel, Title: e.Title, Link: e.Link, StartTime: e.StartTime})
			curUpcoming[e.Link] = true
		}
	}

	return changes, !seen
}
