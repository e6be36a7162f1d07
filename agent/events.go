package agent

import (
	"log/slog"

	"github.com/chaosmonkeys/vanguard/model"
	"github.com/chaosmonkeys/vanguard/rules"
)

// EventKind categorizes a notable change between consecutive ticks.
type EventKind string

const (
	EventBaseGained    EventKind = "base_gained" // starting base or ship conversion
	EventBaseLost      EventKind = "base_lost"
	EventUnderAttack   EventKind = "under_attack"
	EventThreatCleared EventKind = "threat_cleared"
	EventFleetWipedOut EventKind = "fleet_wiped_out"
)

// Event is a detected change worth logging. Events carry no behavior; the
// decision logic reacts to the underlying state directly, this is purely
// the agent's match narration.
type Event struct {
	Kind EventKind
	Time float64
	UID  string // base uid for base events, empty otherwise
}

// tickView captures the diffable fields of one tick.
type tickView struct {
	baseUIDs     map[string]bool
	underAttack  map[string]bool
	vehicleCount int
}

// eventTracker diffs consecutive ticks and logs the resulting events. The
// zero value is ready to use; the first observed tick produces only
// base_gained events for the starting bases.
type eventTracker struct {
	prev *tickView
}

func (et *eventTracker) observe(t float64, own model.Roster, state *rules.State) {
	view := takeView(own, state)
	events := detectEvents(t, et.prev, view)
	et.prev = &view
	for _, ev := range events {
		logEvent(ev)
	}
}

func takeView(own model.Roster, state *rules.State) tickView {
	v := tickView{
		baseUIDs:     make(map[string]bool, len(own.Bases)),
		underAttack:  make(map[string]bool, len(state.Threats)),
		vehicleCount: len(own.Tanks) + len(own.Ships) + len(own.Jets),
	}
	for _, b := range own.Bases {
		v.baseUIDs[b.UID()] = true
	}
	for uid := range state.Threats {
		v.underAttack[uid] = true
	}
	return v
}

// detectEvents diffs two tick views. A nil prev is the first tick: every
// existing base is reported as gained so the match log opens with the
// starting position.
func detectEvents(t float64, prev *tickView, cur tickView) []Event {
	var events []Event
	if prev == nil {
		for uid := range cur.baseUIDs {
			events = append(events, Event{Kind: EventBaseGained, Time: t, UID: uid})
		}
		return events
	}

	for uid := range cur.baseUIDs {
		if !prev.baseUIDs[uid] {
			events = append(events, Event{Kind: EventBaseGained, Time: t, UID: uid})
		}
	}
	for uid := range prev.baseUIDs {
		if !cur.baseUIDs[uid] {
			events = append(events, Event{Kind: EventBaseLost, Time: t, UID: uid})
		}
	}
	for uid := range cur.underAttack {
		if !prev.underAttack[uid] {
			events = append(events, Event{Kind: EventUnderAttack, Time: t, UID: uid})
		}
	}
	for uid := range prev.underAttack {
		if !cur.underAttack[uid] {
			events = append(events, Event{Kind: EventThreatCleared, Time: t, UID: uid})
		}
	}
	if prev.vehicleCount > 0 && cur.vehicleCount == 0 {
		events = append(events, Event{Kind: EventFleetWipedOut, Time: t})
	}
	return events
}

func logEvent(ev Event) {
	switch ev.Kind {
	case EventBaseLost, EventFleetWipedOut:
		slog.Warn("match event", "kind", ev.Kind, "t", ev.Time, "base", ev.UID)
	default:
		slog.Info("match event", "kind", ev.Kind, "t", ev.Time, "base", ev.UID)
	}
}
