package roles

import "fmt"

// Set is the in-memory form of a role string: bit i is role i.
type Set uint8

// Parse converts a role string into a Set. Characters other than '1' read
// as not held; anything past Count is ignored.
func Parse(bits string) Set {
	var s Set
	for _, r := range All() {
		if HasRole(bits, r) {
			s |= 1 << uint(r)
		}
	}
	return s
}

// Has reports whether role is in the set.
func (s Set) Has(role Role) bool {
	if !role.Valid() {
		return false
	}
	return s&(1<<uint(role)) != 0
}

// Add returns s with role added.
func (s Set) Add(role Role) (Set, error) {
	if !role.Valid() {
		return s, fmt.Errorf("%w: %d", ErrInvalidRole, int(role))
	}
	return s | 1<<uint(role), nil
}

// Remove returns s with role removed.
func (s Set) Remove(role Role) (Set, error) {
	if !role.Valid() {
		return s, fmt.Errorf("%w: %d", ErrInvalidRole, int(role))
	}
	return s &^ (1 << uint(role)), nil
}

// Roles lists the members in ascending index order.
func (s Set) Roles() []Role {
	out := make([]Role, 0, Count)
	for _, r := range All() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// String renders the set as a full-width role string.
func (s Set) String() string {
	b := make([]byte, Count)
	for i := range b {
		b[i] = '0'
		if s.Has(Role(i)) {
			b[i] = '1'
		}
	}
	return string(b)
}
