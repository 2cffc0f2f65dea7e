package models

import "time"

type ChallengeStatus string

const (
	ChallengePending  ChallengeStatus = "pending"
	ChallengeVerified ChallengeStatus = "verified"
	ChallengeExpired  ChallengeStatus = "expired"
	ChallengeFailed   ChallengeStatus = "failed"
)

// VerificationChallenge is a time-boxed OTP bound to one transfer snapshot.
// Only a keyed digest of the code is kept.
type VerificationChallenge struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	SnapshotHash string          `json:"snapshot_hash"`
	CodeDigest   string          `json:"code_digest"`
	IssuedAt     time.Time       `json:"issued_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
	AttemptCount int             `json:"attempt_count"`
	Status       ChallengeStatus `json:"status"`
}

func (c *VerificationChallenge) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Authorization is the single-use proof that a challenge was passed.
type Authorization struct {
	Token        string    `json:"token"`
	ChallengeID  string    `json:"challenge_id"`
	SnapshotHash string    `json:"snapshot_hash"`
	UserID       string    `json:"user_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

type Credential struct {
	UserID                  string    `db:"user_id"`
	TransactionPasswordHash string    `db:"transaction_password_hash"`
	Contact                 string    `db:"contact"`
	UpdatedAt               time.Time `db:"updated_at"`
}
