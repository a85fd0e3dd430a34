package domain

import "time"

// Group represents a set of people who split expenses with each other.
// Members are identified by their email address and keep their insertion
// order; every balance view is reported in that order.
type Group struct {
	ID        string
	Name      string
	Currency  string
	Members   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether the given identifier is a member of the group.
func (g *Group) HasMember(member string) bool {
	for _, m := range g.Members {
		if m == member {
			return true
		}
	}
	return false
}

// Validate validates the group invariants.
func (g *Group) Validate() error {
	if len(g.Members) == 0 {
		return ErrNoMembers
	}

	seen := make(map[string]struct{}, len(g.Members))
	for _, m := range g.Members {
		if _, ok := seen[m]; ok {
			return ErrDuplicateMember
		}
		seen[m] = struct{}{}
	}

	return nil
}

// memberIndex maps member identifiers to their position in the member list.
func memberIndex(members []string) map[string]int {
	idx := make(map[string]int, len(members))
	for i, m := range members {
		if _, ok := idx[m]; !ok {
			idx[m] = i
		}
	}
	return idx
}
