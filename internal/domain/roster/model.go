package roster

// Player is an active skater or goalie from the league-wide player feed.
type Player struct {
	ID                int64  `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
	EligibleSlots     []int  `json:"eligibleSlots"`
	ProTeamID         int64  `json:"proTeamId"`
}

// FantasyTeam is a roster owned by a league member.
type FantasyTeam struct {
	ID     int64  `json:"id"`
	Abbrev string `json:"abbrev"`
	Name   string `json:"name"`
}

// ProTeam is a professional franchise players belong to.
type ProTeam struct {
	ID       int64  `json:"id"`
	Abbrev   string `json:"abbrev"`
	Location string `json:"location"`
	Name     string `json:"name"`
}
