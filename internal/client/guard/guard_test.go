package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAuth struct{ ok bool }

func (f *fakeAuth) IsAuthenticated(context.Context) bool { return f.ok }

func TestCanActivate_FollowsTokenPresence(t *testing.T) {
	auth := &fakeAuth{}
	g := New(auth)

	assert.False(t, g.CanActivate(context.Background()))
	auth.ok = true
	assert.True(t, g.CanActivate(context.Background()))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		authed     bool
		path       string
		want       string
		wantParams map[string]string
	}{
		{"empty goes to dashboard", true, "", "/dashboard", map[string]string{}},
		{"unknown goes to dashboard", true, "/nowhere/at/all", "/dashboard", map[string]string{}},
		{"unknown without session ends at login", false, "/nowhere", "/login", nil},
		{"protected without session", false, "/chat", "/login", nil},
		{"document detail", true, "/documents/d42", "/documents/d42", map[string]string{"id": "d42"}},
		{"document detail without session", false, "/documents/d42", "/login", nil},
		{"login is public", false, "/login", "/login", map[string]string{}},
		{"register is public", false, "register/", "/register", map[string]string{}},
		{"trailing slash on protected", true, "/chat/", "/chat", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(&fakeAuth{ok: tt.authed})
			got, params := g.Resolve(context.Background(), tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestMatch(t *testing.T) {
	r, params, ok := Match("/documents/abc")
	assert.True(t, ok)
	assert.Equal(t, PathDocument, r.Pattern)
	assert.True(t, r.Protected)
	assert.Equal(t, "abc", params["id"])

	_, _, ok = Match("/documents")
	assert.False(t, ok)
}
