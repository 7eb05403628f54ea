package espn

import (
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/roster"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/transaction"
)

type communicationResponse struct {
	Topics []transaction.MessageTopic `json:"topics"`
}

type leagueResponse struct {
	Teams []roster.FantasyTeam `json:"teams"`
}

type seasonResponse struct {
	Settings struct {
		ProTeams []roster.ProTeam `json:"proTeams"`
	} `json:"settings"`
}
