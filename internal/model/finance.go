package model

import "time"

// FinancialRecord is a flat monthly bookkeeping row. (Month, Category) is
// unique; inserting a duplicate pair is a conflict, not an update.
type FinancialRecord struct {
	ID          uint64
	Month       string // YYYY-MM
	Category    string
	Description *string
	Income      int64
	Expense     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SocialMediaStats is an append-mostly weekly snapshot per platform.
// (Week, Platform) is unique.
type SocialMediaStats struct {
	ID         uint64
	Week       string // YYYY-Www, e.g. 2025-W03
	Platform   string
	Followers  int64
	Views      int64
	Engagement int64
	CreatedAt  time.Time
}

// MonthlyPlan is a planning item for a given month. (Month, Title) is unique.
type MonthlyPlan struct {
	ID          uint64
	Month       string // YYYY-MM
	Title       string
	Description *string
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuditLog records who did what. Rows are append-only; nothing updates or
// deletes them through the application.
type AuditLog struct {
	ID           uint64
	ActorVariant string
	ActorID      uint64
	Action       string // e.g. stream.review, auth.login, export.run
	Entity       string
	EntityID     uint64
	Detail       *string
	CreatedAt    time.Time
}
