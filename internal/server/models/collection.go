package models

// Collection is a secret collection. Access is gated by a challenge key;
// only its hash and salt are persisted, the plaintext is revealed exactly
// once at creation time.
type Collection struct {
	ID               int64
	Name             string
	ChallengeKeyHash string
	ChallengeKeySalt []byte
}

// CollectionMember links a user to a collection. At most one membership per
// user may be flagged default.
type CollectionMember struct {
	UserID           int64
	CollectionID     int64
	IsDefaultForUser bool
}
