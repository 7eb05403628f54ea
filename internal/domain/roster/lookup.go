package roster

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("reference entity not found")

// A failed lookup means the reference snapshot is inconsistent with the
// transaction feed, so callers are expected to abort the run.

func FindPlayer(players []Player, id int64) (Player, error) {
	for i := range players {
		if players[i].ID == id {
			return players[i], nil
		}
	}

	return Player{}, fmt.Errorf("%w: player id=%d", ErrNotFound, id)
}

func FindFantasyTeam(teams []FantasyTeam, id int64) (FantasyTeam, error) {
	for i := range teams {
		if teams[i].ID == id {
			return teams[i], nil
		}
	}

	return FantasyTeam{}, fmt.Errorf("%w: fantasy team id=%d", ErrNotFound, id)
}

func FindProTeam(teams []ProTeam, id int64) (ProTeam, error) {
	for i := range teams {
		if teams[i].ID == id {
			return teams[i], nil
		}
	}

	return ProTeam{}, fmt.Errorf("%w: pro team id=%d", ErrNotFound, id)
}
