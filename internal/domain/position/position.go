package position

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnrecognizedCode = errors.New("unrecognized position code")

// Position is a lineup slot a skater or goalie can occupy.
type Position struct {
	Code   int
	Abbrev string
	Name   string
}

var slotTable = map[int]Position{
	0:  {Code: 0, Abbrev: "C", Name: "Center"},
	1:  {Code: 1, Abbrev: "LW", Name: "Left Wing"},
	2:  {Code: 2, Abbrev: "RW", Name: "Right Wing"},
	3:  {Code: 3, Abbrev: "F", Name: "Forward"},
	4:  {Code: 4, Abbrev: "D", Name: "Defenseman"},
	5:  {Code: 5, Abbrev: "G", Name: "Goalie"},
	6:  {Code: 6, Abbrev: "UTIL", Name: "Utility"},
	7:  {Code: 7, Abbrev: "BE", Name: "Bench"},
	8:  {Code: 8, Abbrev: "IR", Name: "Injury Reserve"},
	9:  {Code: 9, Abbrev: "INV", Name: "Invalid Player"},
	10: {Code: 10, Abbrev: "SK", Name: "Skater"},
}

// Meta slots describe roster mechanics, not what a player actually plays.
var metaSlotAbbrevs = map[string]struct{}{
	"F":    {},
	"UTIL": {},
	"BE":   {},
	"IR":   {},
	"INV":  {},
	"SK":   {},
}

func Resolve(code int) (Position, error) {
	pos, ok := slotTable[code]
	if !ok {
		return Position{}, fmt.Errorf("%w: slot=%d", ErrUnrecognizedCode, code)
	}

	return pos, nil
}

// ResolveDefault maps a player's default position id. The id space is
// offset from the slot space and only covers real playing positions.
func ResolveDefault(id int) (Position, error) {
	switch id {
	case 1:
		return slotTable[0], nil
	case 2:
		return slotTable[1], nil
	case 3:
		return slotTable[2], nil
	case 4:
		return slotTable[4], nil
	case 5:
		return slotTable[5], nil
	default:
		return Position{}, fmt.Errorf("%w: default position id=%d", ErrUnrecognizedCode, id)
	}
}

// Eligible resolves slot codes into playing positions, dropping meta
// slots. Input order is preserved.
func Eligible(slots []int) ([]Position, error) {
	out := make([]Position, 0, len(slots))
	for _, slot := range slots {
		pos, err := Resolve(slot)
		if err != nil {
			return nil, err
		}
		if _, meta := metaSlotAbbrevs[pos.Abbrev]; meta {
			continue
		}
		out = append(out, pos)
	}

	return out, nil
}

// NonPrimary returns eligible minus the primary position, sorted by
// abbreviation ascending.
func NonPrimary(eligible []Position, primary Position) []Position {
	out := make([]Position, 0, len(eligible))
	for _, pos := range eligible {
		if pos.Abbrev == primary.Abbrev {
			continue
		}
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Abbrev < out[j].Abbrev
	})

	return out
}

func Abbrevs(positions []Position) []string {
	out := make([]string, 0, len(positions))
	for _, pos := range positions {
		out = append(out, pos.Abbrev)
	}

	return out
}
