package league

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventKind is the wire discriminator of a match event.
type EventKind string

const (
	KindGoal   EventKind = "GOAL"
	KindYellow EventKind = "YELLOW"
	KindRed    EventKind = "RED"
	KindSub    EventKind = "SUB"
)

type GoalDetail string

const (
	DetailOpenPlay GoalDetail = "OpenPlay"
	DetailSetPiece GoalDetail = "SetPiece"
	DetailCounter  GoalDetail = "Counter"
	DetailPenalty  GoalDetail = "Penalty"
	DetailOwnGoal  GoalDetail = "OwnGoal"
)

type CardReason string

const (
	ReasonFoul             CardReason = "Foul"
	ReasonDissent          CardReason = "Dissent"
	ReasonTimeWasting      CardReason = "TimeWasting"
	ReasonSecondYellow     CardReason = "SecondYellow"
	ReasonSeriousFoul      CardReason = "SeriousFoul"
	ReasonProfessionalFoul CardReason = "ProfessionalFoul"
)

type SubReason string

const (
	SubTactical SubReason = "Tactical"
	SubInjury   SubReason = "Injury"
	SubFatigue  SubReason = "Fatigue"
)

// EventBase is shared by every event. TeamID is the side the event counts
// for; for an own goal that is the side that benefits.
type EventBase struct {
	Minute int
	TeamID string
	Team   string
}

// Base returns the shared fields.
func (b EventBase) Base() EventBase { return b }

// Event is one entry of a match timeline. The set of implementations is
// closed: Goal, YellowCard, RedCard and Substitution.
type Event interface {
	Kind() EventKind
	Base() EventBase
	wire() wireEvent
}

type Goal struct {
	EventBase
	Scorer string
	Assist string
	Detail GoalDetail
}

type YellowCard struct {
	EventBase
	Player string
	Reason CardReason
}

type RedCard struct {
	EventBase
	Player string
	Reason CardReason
}

type Substitution struct {
	EventBase
	Out    string
	In     string
	Reason SubReason
}

func (Goal) Kind() EventKind         { return KindGoal }
func (YellowCard) Kind() EventKind   { return KindYellow }
func (RedCard) Kind() EventKind      { return KindRed }
func (Substitution) Kind() EventKind { return KindSub }

// IsOwnGoal reports whether the goal was put in by the conceding side.
func (g Goal) IsOwnGoal() bool { return g.Detail == DetailOwnGoal }

// wireEvent is the flat JSON shape shared by all events.
type wireEvent struct {
	Type       EventKind `json:"type"`
	Minute     int       `json:"minute"`
	TeamID     string    `json:"teamId"`
	Team       string    `json:"team"`
	PlayerName string    `json:"playerName,omitempty"`
	AssistBy   string    `json:"assistBy,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Out        string    `json:"out,omitempty"`
	In         string    `json:"in,omitempty"`
}

func baseWire(k EventKind, b EventBase) wireEvent {
	return wireEvent{Type: k, Minute: b.Minute, TeamID: b.TeamID, Team: b.Team}
}

func (g Goal) wire() wireEvent {
	w := baseWire(KindGoal, g.EventBase)
	w.PlayerName, w.AssistBy, w.Detail = g.Scorer, g.Assist, string(g.Detail)
	return w
}

func (y YellowCard) wire() wireEvent {
	w := baseWire(KindYellow, y.EventBase)
	w.PlayerName, w.Reason = y.Player, string(y.Reason)
	return w
}

func (r RedCard) wire() wireEvent {
	w := baseWire(KindRed, r.EventBase)
	w.PlayerName, w.Reason = r.Player, string(r.Reason)
	return w
}

func (s Substitution) wire() wireEvent {
	w := baseWire(KindSub, s.EventBase)
	w.Out, w.In, w.Reason = s.Out, s.In, string(s.Reason)
	return w
}

func (w wireEvent) event() (Event, error) {
	b := EventBase{Minute: w.Minute, TeamID: w.TeamID, Team: w.Team}
	switch w.Type {
	case KindGoal:
		return Goal{EventBase: b, Scorer: w.PlayerName, Assist: w.AssistBy, Detail: GoalDetail(w.Detail)}, nil
	case KindYellow:
		return YellowCard{EventBase: b, Player: w.PlayerName, Reason: CardReason(w.Reason)}, nil
	case KindRed:
		return RedCard{EventBase: b, Player: w.PlayerName, Reason: CardReason(w.Reason)}, nil
	case KindSub:
		return Substitution{EventBase: b, Out: w.Out, In: w.In, Reason: SubReason(w.Reason)}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", w.Type)
}

// EventList is a minute-ordered match timeline.
type EventList []Event

func (l EventList) MarshalJSON() ([]byte, error) {
	out := make([]wireEvent, len(l))
	for i, e := range l {
		out[i] = e.wire()
	}
	return json.Marshal(out)
}

func (l *EventList) UnmarshalJSON(data []byte) error {
	var in []wireEvent
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decoding events: %w", err)
	}
	list := make(EventList, 0, len(in))
	for i, w := range in {
		e, err := w.event()
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		list = append(list, e)
	}
	*l = list
	return nil
}

// Goals returns only the goal events, in timeline order.
func (l EventList) Goals() []Goal {
	var goals []Goal
	for _, e := range l {
		if g, ok := e.(Goal); ok {
			goals = append(goals, g)
		}
	}
	return goals
}

// Describe renders one event as a single report line, e.g.
// "23' GOAL Lions: Vega (assist Ruiz, OpenPlay)".
func Describe(e Event) string {
	b := e.Base()
	prefix := fmt.Sprintf("%2d' %-6s %s:", b.Minute, e.Kind(), b.Team)

	switch ev := e.(type) {
	case Goal:
		if ev.Assist != "" {
			return fmt.Sprintf("%s %s (assist %s, %s)", prefix, ev.Scorer, ev.Assist, ev.Detail)
		}
		return fmt.Sprintf("%s %s (%s)", prefix, ev.Scorer, ev.Detail)
	case YellowCard:
		return fmt.Sprintf("%s %s (%s)", prefix, ev.Player, ev.Reason)
	case RedCard:
		return fmt.Sprintf("%s %s (%s)", prefix, ev.Player, ev.Reason)
	case Substitution:
		return fmt.Sprintf("%s %s ↔ %s (%s)", prefix, ev.Out, ev.In, ev.Reason)
	}
	return prefix
}
