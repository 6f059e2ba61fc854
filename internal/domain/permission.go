package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Permission names a single grant issued by the identity provider.
type Permission string

const (
	PermSubmitContribution   Permission = "contrib.submit"
	PermEvaluateContribution Permission = "contrib.evaluate"
	PermCreateStop           Permission = "stops.create"
	PermModifyStopAttrs      Permission = "stops.modify_attrs"
	PermModifyRoute          Permission = "routes.modify"
)

// Permissions is the set of grants held by a caller.
type Permissions map[Permission]struct{}

// NewPermissions builds a set from the given grants.
func NewPermissions(perms ...Permission) Permissions {
	set := make(Permissions, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// ParsePermissions builds a set from a comma-separated header value.
func ParsePermissions(csv string) Permissions {
	set := Permissions{}
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			set[Permission(p)] = struct{}{}
		}
	}
	return set
}

// Has reports whether p is in the set.
func (ps Permissions) Has(p Permission) bool {
	_, ok := ps[p]
	return ok
}

// List returns the grants in lexical order.
func (ps Permissions) List() []string {
	out := make([]string, 0, len(ps))
	for p := range ps {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// Capability is a gate evaluated against an explicit permission set.
type Capability func(Permissions) bool

// Requires returns a Capability satisfied only when every perm is held.
func Requires(perms ...Permission) Capability {
	return func(held Permissions) bool {
		for _, p := range perms {
			if !held.Has(p) {
				return false
			}
		}
		return true
	}
}

// Actor identifies who performs a mutation and where the request came from.
type Actor struct {
	UserID      uuid.UUID
	Address     string
	Permissions Permissions
}
