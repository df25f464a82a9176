package model

import "time"

// VoiceoverScript is written by a content creator and optionally assigned to
// a voice actor. A nil VoiceActorID means the script is unclaimed; voice
// actors may claim unclaimed scripts themselves or an admin may assign one.
type VoiceoverScript struct {
	ID           uint64
	CreatorID    uint64
	VoiceActorID *uint64
	Title        string
	Text         string
	AudioURL     *string // reference to the recorded take, set by the voice actor
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EditPack grants time-limited, unauthenticated access to one script through
// an unguessable token (capability URL). Access control is the token itself;
// after ExpiresAt the pack answers 410 rather than 404 so the UI can tell a
// dead link from one that never existed.
type EditPack struct {
	ID        uint64
	Token     string
	ScriptID  uint64
	ExpiresAt time.Time
	CreatedAt time.Time
}
