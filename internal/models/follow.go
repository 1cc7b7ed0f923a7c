package models

import "time"

// Follow is a directed follower -> followee edge, unique per ordered pair.
// Self-loops are rejected at the repository boundary.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowEdges is a user's follow graph neighborhood: who they follow and who
// follows them.
type FollowEdges struct {
	Following map[uint]struct{} `json:"-"`
	Followers map[uint]struct{} `json:"-"`
}

// Mutual reports whether the edge to other exists in both directions.
func (e FollowEdges) Mutual(other uint) bool {
	_, out := e.Following[other]
	_, in := e.Followers[other]
	return out && in
}

// Follows reports whether the owning user follows other.
func (e FollowEdges) Follows(other uint) bool {
	_, ok := e.Following[other]
	return ok
}
