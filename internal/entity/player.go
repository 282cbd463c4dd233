package entity

// Player - a room member. The ID is assigned by the transport, one per
// connection; name, color and symbol come from the client and are purely
// presentational.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Symbol string `json:"symbol"`
	Score  int    `json:"score"`
}

// LeaderboardEntry - one row of the cross-room score archive.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}
