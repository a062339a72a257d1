package auth_test

import (
	"testing"
	"time"

	"github.com/eventboard/server/internal/auth"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw  string
		want auth.Role
	}{
		{"admin", auth.RoleAdmin},
		{" ADMIN ", auth.RoleAdmin},
		{"user", auth.RoleUser},
		{"", auth.RoleUser},
		{"superuser", auth.RoleUser},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, auth.NormalizeRole(tt.raw), "raw=%q", tt.raw)
	}
}

func TestActorNilSafety(t *testing.T) {
	var anonymous *auth.Actor

	require.False(t, anonymous.IsAdmin())
	require.False(t, anonymous.Owns(1))
}

func TestActorChecks(t *testing.T) {
	admin := &auth.Actor{ID: 1, Role: auth.RoleAdmin}
	user := &auth.Actor{ID: 2, Role: auth.RoleUser}

	require.True(t, admin.IsAdmin())
	require.False(t, user.IsAdmin())
	require.True(t, user.Owns(2))
	require.False(t, user.Owns(1))
}

func TestActorFromClaims(t *testing.T) {
	manager := auth.NewJWTManager("test-secret-at-least-32-bytes-long", time.Hour, "eventboard")
	token, err := manager.Generate(7, "mod@example.com", "Admin")
	require.NoError(t, err)
	claims, err := manager.Validate(token)
	require.NoError(t, err)

	actor, err := auth.ActorFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, 7, actor.ID)
	require.Equal(t, "mod@example.com", actor.Email)
	// Roles normalize case-insensitively.
	require.Equal(t, auth.RoleAdmin, actor.Role)
}
