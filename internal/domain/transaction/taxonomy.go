package transaction

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnrecognizedMessageType = errors.New("unrecognized message type")

// TeamSide names the message field carrying the acting team.
type TeamSide int

const (
	SideTo TeamSide = iota
	SideFrom
	SideFor
)

// Kind describes how one message type renders: the verb, which field
// holds the acting team, an optional acquisition source, whether the
// destination team takes part, and whether the target is a draft pick
// instead of a player.
type Kind struct {
	Action     string
	Side       TeamSide
	Origin     string
	WithToTeam bool
	DraftPick  bool
}

// TeamRef picks the acting-team field of msg for this kind.
func (k Kind) TeamRef(msg Message) EntityRef {
	switch k.Side {
	case SideFrom:
		return msg.From
	case SideFor:
		return msg.For
	default:
		return msg.To
	}
}

// HeaderRule labels a topic when any of its messages carries one of the
// listed type ids. Rules are checked in declaration order.
type HeaderRule struct {
	Label   string
	TypeIDs []int
}

func (r HeaderRule) matches(typeID int) bool {
	for _, id := range r.TypeIDs {
		if id == typeID {
			return true
		}
	}

	return false
}

// Taxonomy is the full message-type classification table.
type Taxonomy struct {
	kinds   map[int]Kind
	headers []HeaderRule
}

// Default covers every transaction type the feed emits today, including
// draft picks changing hands inside trades.
func Default() Taxonomy {
	return Taxonomy{
		kinds: map[int]Kind{
			178: {Action: "added", Side: SideTo, Origin: "Free Agency"},
			180: {Action: "added", Side: SideTo, Origin: "Waivers"},
			179: {Action: "dropped", Side: SideTo},
			181: {Action: "dropped", Side: SideTo},
			239: {Action: "dropped", Side: SideFor},
			// pending trade legs (accepted/vetoed) use present tense,
			// processed legs past tense
			224: {Action: "trades", Side: SideFrom, WithToTeam: true},
			241: {Action: "trades", Side: SideFrom, WithToTeam: true},
			226: {Action: "trades", Side: SideFrom, WithToTeam: true, DraftPick: true},
			243: {Action: "trades", Side: SideFrom, WithToTeam: true, DraftPick: true},
			244: {Action: "traded", Side: SideFrom, WithToTeam: true},
			246: {Action: "traded", Side: SideFrom, WithToTeam: true, DraftPick: true},
			225: {Action: "drops", Side: SideFrom},
			242: {Action: "drops", Side: SideFrom},
			245: {Action: "dropped", Side: SideFrom},
		},
		headers: defaultHeaders(),
	}
}

// Legacy is the table without draft-pick trade types, for leagues where
// those codes should be treated as unknown rather than rendered.
func Legacy() Taxonomy {
	t := Default()
	kinds := make(map[int]Kind, len(t.kinds))
	for id, kind := range t.kinds {
		if kind.DraftPick {
			continue
		}
		kinds[id] = kind
	}
	t.kinds = kinds

	return t
}

func defaultHeaders() []HeaderRule {
	return []HeaderRule{
		{Label: "Trade Accepted:", TypeIDs: []int{224, 226}},
		{Label: "Trade Processed:", TypeIDs: []int{244, 246}},
		{Label: "Trade Vetoed by LM:", TypeIDs: []int{241, 242, 243}},
	}
}

func (t Taxonomy) Kind(typeID int) (Kind, error) {
	kind, ok := t.kinds[typeID]
	if !ok {
		return Kind{}, fmt.Errorf("%w: messageTypeId=%d", ErrUnrecognizedMessageType, typeID)
	}

	return kind, nil
}

// TypeIDs returns every known type id sorted ascending, for server-side
// feed filtering.
func (t Taxonomy) TypeIDs() []int {
	out := make([]int, 0, len(t.kinds))
	for id := range t.kinds {
		out = append(out, id)
	}
	sort.Ints(out)

	return out
}

// TopicHeader returns the label of the first header rule matching any
// message in the topic, or "" when no rule matches.
func (t Taxonomy) TopicHeader(topic MessageTopic) string {
	for _, rule := range t.headers {
		for _, msg := range topic.Messages {
			if rule.matches(msg.MessageTypeID) {
				return rule.Label
			}
		}
	}

	return ""
}
