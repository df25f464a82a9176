// Package auth implements the session layer: opaque per-role tokens stored in
// role-scoped cookies, a pluggable session store, and a resolver that maps an
// incoming request to an authenticated actor.
package auth

import "time"

// Variant identifies which kind of actor a session or record belongs to.
// Each variant has its own table, its own cookie and its own session
// namespace; a token issued for one variant is never valid for another.
type Variant string

const (
	VariantAdmin          Variant = "admin"
	VariantStreamer       Variant = "streamer"
	VariantVoiceActor     Variant = "voice_actor"
	VariantContentCreator Variant = "content_creator"
	VariantTeamMember     Variant = "team_member"
)

// RoleAdmin is the admin_users.role value that passes the strict admin gate.
// Other values (e.g. "staff") authenticate as the admin variant but are
// rejected by admin-only operations with 403.
const RoleAdmin = "admin"

// SessionTTL is the lifetime of a session and its cookie.
const SessionTTL = 7 * 24 * time.Hour

// cookieNames maps each variant to its session cookie. Cookies are httpOnly
// and scoped to a single variant so that, for example, an admin cookie can
// never authorize a streamer-only operation.
var cookieNames = map[Variant]string{
	VariantAdmin:          "arhaval_admin",
	VariantStreamer:       "arhaval_streamer",
	VariantVoiceActor:     "arhaval_va",
	VariantContentCreator: "arhaval_creator",
	VariantTeamMember:     "arhaval_team",
}

// CookieName returns the session cookie name for a variant.
func CookieName(v Variant) string { return cookieNames[v] }

// Variants lists all actor variants in a stable order.
func Variants() []Variant {
	return []Variant{
		VariantAdmin,
		VariantStreamer,
		VariantVoiceActor,
		VariantContentCreator,
		VariantTeamMember,
	}
}

// ParseVariant converts the URL form of a variant (as used in login paths,
// e.g. /v1/auth/voice-actor/login) into a Variant. The second return value
// reports whether the input named a known variant.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "admin":
		return VariantAdmin, true
	case "streamer":
		return VariantStreamer, true
	case "voice-actor", "voice_actor":
		return VariantVoiceActor, true
	case "creator", "content-creator", "content_creator":
		return VariantContentCreator, true
	case "team", "team-member", "team_member":
		return VariantTeamMember, true
	}
	return "", false
}

// Identity is the tagged union produced by the resolver: which variant the
// session belongs to, the actor's row id, and for admins the role string.
type Identity struct {
	Variant Variant
	ID      uint64
	Role    string // populated for VariantAdmin only
}

// IsAdminRole reports whether the identity carries the literal admin role.
func (id Identity) IsAdminRole() bool {
	return id.Variant == VariantAdmin && id.Role == RoleAdmin
}
