package model

import "time"

// Workflow statuses shared by streams, work submissions and extra work
// requests. pending is the only non-terminal state; once a record reaches
// approved or rejected it never transitions again.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Payment statuses for approved streams.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Stream is a streamer's broadcast submitted for payment. Money fields are
// whole currency units and stay zero while the stream is pending; they are
// populated exactly once, at approval.
//
// Fields:
//  ID              – primary key identifier.
//  StreamerID      – owning streamer.
//  StreamDate      – day of the broadcast (date only, UTC).
//  DurationHours   – length of the broadcast in hours.
//  MatchInfo       – optional free-form match/opponent metadata.
//  Team            – optional team name; feeds the rate table at approval.
//  Status          – pending | approved | rejected.
//  PaymentStatus   – unpaid | paid; meaningful after approval.
//  TotalRevenue    – revenue generated by the stream.
//  StreamerEarning – streamer's share of TotalRevenue.
//  ArhavalProfit   – company's share of TotalRevenue.
//  Cost            – side costs booked against the stream.
//  AdminNotes      – reviewer notes, set at review time.
//  ReviewedAt      – when an admin approved the stream; nil for pending and
//                    rejected records.
type Stream struct {
	ID              uint64
	StreamerID      uint64
	StreamDate      time.Time
	DurationHours   float64
	MatchInfo       *string
	Team            *string
	Status          string
	PaymentStatus   string
	TotalRevenue    int64
	StreamerEarning int64
	ArhavalProfit   int64
	Cost            int64
	AdminNotes      *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal reports whether a workflow status permits no further transition.
func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
