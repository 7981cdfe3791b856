// Package roles implements the role bit-string stored on every user record.
//
// A role string is a sequence of '0'/'1' characters where position i tells
// whether the role with index i is held:
//
//	"00100" → User
//	"10100" → Administrator, User
//
// Strings shorter than Count read as zero-padded. Writes outside
// [0, Count) fail with ErrInvalidRole.
package roles

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the index of a role inside the bit-string.
type Role int

const (
	Admin Role = iota
	Moderator
	User
	Guest
	TripCoordinator
)

// Count is the number of defined roles and the width of a full role string.
const Count = 5

// ErrInvalidRole is returned when a role index is outside [0, Count).
var ErrInvalidRole = errors.New("invalid role index")

var names = [Count]string{
	Admin:           "Administrator",
	Moderator:       "Moderator",
	User:            "User",
	Guest:           "Guest",
	TripCoordinator: "Trip Coordinator",
}

// Valid reports whether r is a defined role index.
func (r Role) Valid() bool {
	return r >= 0 && r < Count
}

// String returns the human-readable role name, or "Unknown".
func (r Role) String() string {
	if !r.Valid() {
		return "Unknown"
	}
	return names[r]
}

// All returns every defined role in index order.
func All() []Role {
	out := make([]Role, Count)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// HasRole reports whether bits holds role. Out-of-range indices are never held.
func HasRole(bits string, role Role) bool {
	if !role.Valid() {
		return false
	}
	if int(role) >= len(bits) {
		return false
	}
	return bits[role] == '1'
}

// SetRole returns bits with role set, zero-padding as needed.
func SetRole(bits string, role Role) (string, error) {
	return write(bits, role, '1')
}

// RemoveRole returns bits with role cleared, zero-padding as needed.
func RemoveRole(bits string, role Role) (string, error) {
	return write(bits, role, '0')
}

// ToggleRole flips role in bits.
func ToggleRole(bits string, role Role) (string, error) {
	if HasRole(bits, role) {
		return RemoveRole(bits, role)
	}
	return SetRole(bits, role)
}

func write(bits string, role Role, c byte) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: %d, must be between 0 and %d", ErrInvalidRole, int(role), Count-1)
	}
	b := []byte(bits)
	for len(b) <= int(role) {
		b = append(b, '0')
	}
	b[role] = c
	return string(b), nil
}

// GenerateRoleString returns n zeros.
func GenerateRoleString(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("0", n)
}

// GenerateDefaultUserRoles returns the role string assigned at signup: only User.
func GenerateDefaultUserRoles() string {
	bits, _ := SetRole(GenerateRoleString(Count), User)
	return bits
}

// GetUserRoles returns the held roles in ascending index order.
func GetUserRoles(bits string) []Role {
	held := make([]Role, 0, Count)
	for _, r := range All() {
		if HasRole(bits, r) {
			held = append(held, r)
		}
	}
	return held
}

// Names maps roles to their human-readable names.
func Names(rs []Role) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.String())
	}
	return out
}

// FromIndices builds a full-width role string from scratch with only the
// given roles set.
func FromIndices(rs []Role) (string, error) {
	bits := GenerateRoleString(Count)
	for _, r := range rs {
		var err error
		if bits, err = SetRole(bits, r); err != nil {
			return "", err
		}
	}
	return bits, nil
}

// IsWellFormed reports whether bits contains only '0'/'1' and is no longer
// than Count.
func IsWellFormed(bits string) bool {
	if len(bits) > Count {
		return false
	}
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			return false
		}
	}
	return true
}

// Authorized reports whether a caller holding bits satisfies required.
// An empty requirement always passes; otherwise bits must be a non-empty
// string holding at least one of the required roles.
func Authorized(required []Role, bits any) bool {
	if len(required) == 0 {
		return true
	}
	s, ok := bits.(string)
	if !ok || s == "" {
		return false
	}
	for _, r := range required {
		if HasRole(s, r) {
			return true
		}
	}
	return false
}
