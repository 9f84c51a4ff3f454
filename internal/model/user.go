package model

// User is a registered player. Rating is only mutated by the match ledger.
type User struct {
	ID     string `json:"id" bson:"_id"`
	Name   string `json:"name" bson:"name"`
	Rating int    `json:"rating" bson:"rating"`
}

// Snapshot copies the user into an immutable match snapshot
func (u *User) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:     u.ID,
		Name:   u.Name,
		Rating: u.Rating,
	}
}
