// Package auth implements scope-based authorization: granted scopes are
// matched segment-by-segment against the route a caller wants to reach.
// Matching is pure string work; the package performs no I/O and holds no
// state.
package auth

import "strings"

// Match reports whether a single scope pattern grants access to a route.
//
// Scopes and routes are "/"-separated segment lists; leading and trailing
// slashes are ignored. Within a scope, "*" matches exactly one route segment,
// and a trailing "*" matches the remainder of the route (one or more
// segments). An empty scope grants nothing.
func Match(scope, route string) bool {
	sp := segments(scope)
	rp := segments(route)
	if len(sp) == 0 {
		return false
	}

	for i, s := range sp {
		if s == "*" && i == len(sp)-1 {
			// Trailing wildcard swallows the rest of the route.
			return len(rp) > i
		}
		if i >= len(rp) {
			return false
		}
		if s != "*" && s != rp[i] {
			return false
		}
	}
	return len(sp) == len(rp)
}

// Allowed reports whether any of the granted scopes matches the route.
func Allowed(scopes []string, route string) bool {
	for _, s := range scopes {
		if Match(s, route) {
			return true
		}
	}
	return false
}

func segments(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}
