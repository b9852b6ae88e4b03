package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		sessionID string
		wantKind  ScopeKind
		wantID    string
		wantOK    bool
	}{
		{name: "user", userID: "u1", wantKind: ScopeUser, wantID: "u1", wantOK: true},
		{name: "session", sessionID: "s1", wantKind: ScopeAnonymous, wantID: "s1", wantOK: true},
		{name: "user wins", userID: "u1", sessionID: "s1", wantKind: ScopeUser, wantID: "u1", wantOK: true},
		{name: "trimmed", userID: "  u1 ", wantKind: ScopeUser, wantID: "u1", wantOK: true},
		{name: "blank user falls back", userID: "   ", sessionID: "s1", wantKind: ScopeAnonymous, wantID: "s1", wantOK: true},
		{name: "none"},
		{name: "too long", userID: strings.Repeat("x", MaxScopeIDLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, ok := ResolveScope(tt.userID, tt.sessionID)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.True(t, scope.IsZero())
				return
			}
			assert.Equal(t, tt.wantKind, scope.Kind())
			assert.Equal(t, tt.wantID, scope.ID())
		})
	}
}

func TestScopeOwnership(t *testing.T) {
	user := UserScope("u1")
	anon := AnonymousScope("s1")

	assert.Equal(t, Owner{UserID: "u1"}, user.Owner())
	assert.Equal(t, Owner{SessionID: "s1", IsTemporary: true}, anon.Owner())

	assert.True(t, user.Owns(user.Owner()))
	assert.True(t, anon.Owns(anon.Owner()))
	assert.False(t, user.Owns(anon.Owner()))
	assert.False(t, anon.Owns(user.Owner()))
	assert.False(t, UserScope("u2").Owns(user.Owner()))

	// a session id on a user-owned entity does not make it visible to that session
	assert.False(t, anon.Owns(Owner{UserID: "u1", SessionID: "s1"}))
	assert.False(t, Scope{}.Owns(Owner{}))
}

func TestScopeUserID(t *testing.T) {
	id, ok := UserScope("u1").UserID()
	assert.True(t, ok)
	assert.Equal(t, "u1", id)

	_, ok = AnonymousScope("s1").UserID()
	assert.False(t, ok)

	assert.Equal(t, "user:u1", UserScope("u1").String())
	assert.Equal(t, "session:s1", AnonymousScope("s1").String())
}
