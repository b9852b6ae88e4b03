package domain

import (
	"strings"
)

// MaxScopeIDLength bounds identity header values after trimming.
const MaxScopeIDLength = 256

// ScopeKind tags which identity a Scope carries.
type ScopeKind int

const (
	// ScopeUser is a registered user, keyed by the durable user id.
	ScopeUser ScopeKind = iota + 1
	// ScopeAnonymous is a client-generated session id kept in browser storage.
	ScopeAnonymous
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeUser:
		return "user"
	case ScopeAnonymous:
		return "session"
	default:
		return "none"
	}
}

// Scope partitions all owned data. It is either User(id) or Anonymous(id); the zero value is no scope.
type Scope struct {
	kind ScopeKind
	id   string
}

// UserScope returns the scope of a registered user.
func UserScope(userID string) Scope { return Scope{kind: ScopeUser, id: userID} }

// AnonymousScope returns the scope of an anonymous browser session.
func AnonymousScope(sessionID string) Scope { return Scope{kind: ScopeAnonymous, id: sessionID} }

// Kind returns the scope tag.
func (s Scope) Kind() ScopeKind { return s.kind }

// ID returns the user id or session id.
func (s Scope) ID() string { return s.id }

// IsZero reports whether no identity was resolved.
func (s Scope) IsZero() bool { return s.kind == 0 || s.id == "" }

// UserID returns the user id and true for a user scope.
func (s Scope) UserID() (string, bool) {
	if s.kind == ScopeUser {
		return s.id, true
	}
	return "", false
}

func (s Scope) String() string { return s.kind.String() + ":" + s.id }

// Owner returns the ownership stamp stored on entities created in this scope.
func (s Scope) Owner() Owner {
	switch s.kind {
	case ScopeUser:
		return Owner{UserID: s.id}
	case ScopeAnonymous:
		return Owner{SessionID: s.id, IsTemporary: true}
	default:
		return Owner{}
	}
}

// Owns reports whether an entity stamped with o belongs to this scope.
func (s Scope) Owns(o Owner) bool {
	switch s.kind {
	case ScopeUser:
		return o.UserID != "" && o.UserID == s.id
	case ScopeAnonymous:
		return o.UserID == "" && o.SessionID != "" && o.SessionID == s.id
	default:
		return false
	}
}

// Owner is the scope key persisted on every owned entity: exactly one of UserID or SessionID is set.
type Owner struct {
	UserID      string
	SessionID   string
	IsTemporary bool
}

// NormalizeScopeID trims an identity header value; it returns "" when the value is unusable.
func NormalizeScopeID(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" || len(v) > MaxScopeIDLength {
		return ""
	}
	return v
}

// ResolveScope derives the caller scope from the user-id and session-id header values.
// A user id wins over a session id when both are present.
func ResolveScope(userID, sessionID string) (Scope, bool) {
	if id := NormalizeScopeID(userID); id != "" {
		return UserScope(id), true
	}
	if id := NormalizeScopeID(sessionID); id != "" {
		return AnonymousScope(id), true
	}
	return Scope{}, false
}
