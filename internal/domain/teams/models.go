package teams

// Team is the normalized team shape as returned by the stats feed.
// Immutable once fetched.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TeamName     string `json:"teamName"`
	ShortName    string `json:"shortName"`
	LocationName string `json:"locationName"`
	Abbreviation string `json:"abbreviation"`
}
