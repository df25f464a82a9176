package auth

import (
	"context"
	"net/http"
)

// ActorLookup loads the minimal actor state the resolver needs. Implemented
// by repository.ActorRepo; kept as an interface here so this package stays
// free of the persistence layer.
type ActorLookup interface {
	// LookupActor returns the actor's role (admin variant only, "" otherwise)
	// and active flag. Missing rows must surface as an error.
	LookupActor(ctx context.Context, v Variant, id uint64) (role string, active bool, err error)
}

// Resolver turns a request's cookies into an Identity. All failure modes
// (no cookie, unknown or expired token, missing or deactivated actor, store
// outage) collapse into "unauthenticated" (ok=false). Callers never learn
// which one occurred.
type Resolver struct {
	Store  Store
	Actors ActorLookup
}

func NewResolver(store Store, actors ActorLookup) *Resolver {
	return &Resolver{Store: store, Actors: actors}
}

// Resolve authenticates a request against a single variant's cookie.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request, v Variant) (Identity, bool) {
	ck, err := req.Cookie(CookieName(v))
	if err != nil || ck.Value == "" {
		return Identity{}, false
	}
	actorID, err := r.Store.Resolve(ctx, v, ck.Value)
	if err != nil {
		return Identity{}, false
	}
	role, active, err := r.Actors.LookupActor(ctx, v, actorID)
	if err != nil || !active {
		return Identity{}, false
	}
	return Identity{Variant: v, ID: actorID, Role: role}, true
}

// ResolveAny tries each of the given variants in order and returns the first
// identity that authenticates.
func (r *Resolver) ResolveAny(ctx context.Context, req *http.Request, variants ...Variant) (Identity, bool) {
	for _, v := range variants {
		if id, ok := r.Resolve(ctx, req, v); ok {
			return id, true
		}
	}
	return Identity{}, false
}
