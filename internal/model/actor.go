// Package model defines the entity structs mirroring the database tables.
// These types are used by the repository layer; handlers declare their own
// response shapes with JSON tags where the wire format differs.
package model

import "time"

// Actor represents a row in one of the five actor tables (admin_users,
// streamers, voice_actors, content_creators, team_members). The tables share
// a layout; only admin_users carries a meaningful role column.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – login email, lowercased, unique per table. Nil when the
//                 actor has no portal access.
//  PasswordHash – bcrypt hash; nil means the actor cannot authenticate.
//  DisplayName  – name shown in dashboards.
//  Role         – admin_users.role ("admin" or "staff"); empty for the
//                 other variants.
//  IsActive     – deactivated actors cannot authenticate or submit.
type Actor struct {
	ID           uint64
	Email        *string
	PasswordHash *string
	DisplayName  string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
