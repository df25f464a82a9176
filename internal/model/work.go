package model

import "time"

// WorkSubmission is a piece of finished work handed in by any non-admin
// actor for review and payment. Exactly one (ActorVariant, ActorID) pair
// identifies the submitter.
type WorkSubmission struct {
	ID           uint64
	ActorVariant string // streamer | voice_actor | content_creator | team_member
	ActorID      uint64
	Title        string
	Description  *string
	Status       string // pending | approved | rejected
	Cost         int64  // set by the reviewing admin, zero while pending
	AdminNotes   *string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExtraWorkRequest asks for additional paid hours outside the regular
// schedule. Follows the same pending/approved/rejected lifecycle as
// WorkSubmission; Cost is populated at approval.
type ExtraWorkRequest struct {
	ID           uint64
	ActorVariant string
	ActorID      uint64
	WorkDate     time.Time
	Hours        float64
	Reason       string
	Status       string
	Cost         int64
	AdminNotes   *string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
