// Package guard decides which view the router may enter.
package guard

import (
	"context"
	"strings"
)

const (
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
	PathChat      = "/chat"
	PathDocument  = "/documents/:id"
)

// Route is one entry of the route table. Segments starting with ':' bind
// a parameter.
type Route struct {
	Pattern   string
	Protected bool
}

// Routes is the client's route table.
var Routes = []Route{
	{Pattern: PathLogin},
	{Pattern: PathRegister},
	{Pattern: PathDashboard, Protected: true},
	{Pattern: PathDocument, Protected: true},
	{Pattern: PathChat, Protected: true},
}

// Authenticator reports whether a session token is present.
type Authenticator interface {
	IsAuthenticated(ctx context.Context) bool
}

type Guard struct {
	auth Authenticator
}

func New(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// CanActivate is evaluated before entering a protected view.
func (g *Guard) CanActivate(ctx context.Context) bool {
	return g.auth.IsAuthenticated(ctx)
}

// Match finds the route for path and its bound parameters.
func Match(path string) (Route, map[string]string, bool) {
	segs := split(path)
	for _, r := range Routes {
		if params, ok := matchPattern(split(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Resolve maps a requested path to the one actually entered: "" and unknown
// paths go to the dashboard, and a protected path without a session goes to
// the login view.
func (g *Guard) Resolve(ctx context.Context, path string) (string, map[string]string) {
	r, params, ok := Match(path)
	if !ok {
		path = PathDashboard
		r, params, _ = Match(path)
	}
	if r.Protected && !g.CanActivate(ctx) {
		return PathLogin, nil
	}
	return "/" + strings.Join(split(path), "/"), params
}

func split(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func matchPattern(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			params[name] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
