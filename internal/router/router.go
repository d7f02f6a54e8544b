// Package router maps a request's method and path onto a handler.
package router

import (
	"strings"

	"github.com/xaitan80/minihttpd/internal/request"
	"github.com/xaitan80/minihttpd/internal/response"
)

// Handler produces the response for a matched route. arg is the part of
// the path left after a prefix match, or "" for exact matches.
type Handler func(req *request.Request, arg string) response.Response

type matchKind int

const (
	matchExact matchKind = iota
	matchPrefix
)

// Matcher decides whether a path belongs to a route.
type Matcher struct {
	kind    matchKind
	pattern string
}

// Exact matches path and nothing else.
func Exact(path string) Matcher {
	return Matcher{kind: matchExact, pattern: path}
}

// Prefix matches every path starting with prefix and passes on the rest.
func Prefix(prefix string) Matcher {
	return Matcher{kind: matchPrefix, pattern: prefix}
}

// Match reports whether path matches and what remains of it.
func (m Matcher) Match(path string) (string, bool) {
	switch m.kind {
	case matchExact:
		return "", path == m.pattern
	case matchPrefix:
		return strings.CutPrefix(path, m.pattern)
	default:
		return "", false
	}
}

// Route binds a method and path matcher to a handler.
type Route struct {
	Name    string
	Method  string
	Path    Matcher
	Handler Handler
}

// Router holds an ordered, read-only route table. It is safe for
// concurrent use because nothing mutates it after New.
type Router struct {
	routes   []Route
	notFound Handler
}

// New builds a router that tries routes in the given order.
func New(routes ...Route) *Router {
	table := make([]Route, len(routes))
	copy(table, routes)
	return &Router{routes: table, notFound: NotFound}
}

// NotFound answers every unmatched request.
func NotFound(*request.Request, string) response.Response {
	return response.Empty(response.StatusNotFound)
}

// Lookup returns the first route matching method and path along with the
// path remainder.
func (rt *Router) Lookup(method, path string) (Route, string, bool) {
	for _, r := range rt.routes {
		if r.Method != method {
			continue
		}
		if arg, ok := r.Path.Match(path); ok {
			return r, arg, true
		}
	}
	return Route{}, "", false
}

// Serve dispatches req to the first matching route.
func (rt *Router) Serve(req *request.Request) response.Response {
	r, arg, ok := rt.Lookup(req.Method, req.Path)
	if !ok {
		return rt.notFound(req, "")
	}
	return r.Handler(req, arg)
}
