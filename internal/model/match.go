package model

import "time"

// TimestampLayout is the fixed-width UTC form used for Match.Date.
// Lexicographic order of these strings equals chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// MatchStatus marks whether every write of a match has landed
type MatchStatus string

const (
	MatchCommitted MatchStatus = "committed"
	MatchPending   MatchStatus = "pending"
)

// PlayerSnapshot is a player as they stood entering a match
type PlayerSnapshot struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Rating int    `json:"rating" bson:"rating"`
}

// Team is a doubles pairing
type Team [2]PlayerSnapshot

// Rating returns the team-average rating of the snapshot
func (t Team) Rating() float64 {
	return float64(t[0].Rating+t[1].Rating) / 2
}

// Has reports whether name plays in this team
func (t Team) Has(name string) bool {
	return t[0].Name == name || t[1].Name == name
}

// Provenance holds, per team and slot, the ID of that player's previous match.
// A nil entry means the player had no earlier match.
type Provenance [2][2]*string

// Of returns the previous match ID for a team slot
func (p Provenance) Of(team, slot int) (string, bool) {
	id := p[team][slot]
	if id == nil {
		return "", false
	}
	return *id, true
}

// Match is an immutable record of one doubles game
type Match struct {
	ID     string      `json:"id" bson:"_id"`
	Date   string      `json:"date" bson:"date"`
	Teams  [2]Team     `json:"teams" bson:"teams"`
	Parent Provenance  `json:"parent" bson:"parent"`
	Result [2]int      `json:"result" bson:"result"`
	Status MatchStatus `json:"status,omitempty" bson:"status,omitempty"`
}

// Involves reports whether the named player appears in any of the four slots
func (m *Match) Involves(name string) bool {
	return m.Teams[0].Has(name) || m.Teams[1].Has(name)
}

// IsPending reports whether the match was left half-written by a staged commit.
// Records without a status count as committed.
func (m *Match) IsPending() bool {
	return m.Status == MatchPending
}

// Time parses Date back into a time.Time
func (m *Match) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, m.Date)
}

// FormatTimestamp renders t in TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
