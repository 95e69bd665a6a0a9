// Package rbac maps roles to permissions such as "batch:run". A grant ending
// in "*" matches every permission with that prefix.
package rbac

import (
	"context"
	"strings"
)

type Checker struct {
	grants map[string][]string
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	c := &Checker{grants: make(map[string][]string, len(rp))}
	for role, perms := range rp {
		c.grants[strings.ToLower(role)] = append([]string(nil), perms...)
	}
	return c
}

// Has reports whether role is granted perm.
func (c *Checker) Has(role, perm string) bool {
	for _, g := range c.grants[strings.ToLower(role)] {
		if g == perm || (strings.HasSuffix(g, "*") && strings.HasPrefix(perm, strings.TrimSuffix(g, "*"))) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}
