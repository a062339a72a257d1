package auth

import "strings"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func NormalizeRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUser
	}
}

func IsAdmin(role string) bool {
	return NormalizeRole(role) == RoleAdmin
}

// Actor is the authenticated identity performing an operation, as embedded
// in a verified session credential. A nil *Actor means an anonymous caller.
type Actor struct {
	ID    int
	Email string
	Role  Role
}

func ActorFromClaims(claims *Claims) (*Actor, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return &Actor{
		ID:    id,
		Email: claims.Email,
		Role:  NormalizeRole(claims.Role),
	}, nil
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Owns reports whether the actor is the owner of a record with the given
// owner id.
func (a *Actor) Owns(ownerID int) bool {
	return a != nil && a.ID == ownerID
}
