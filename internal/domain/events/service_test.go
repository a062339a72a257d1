package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eventboard/server/internal/auth"
	"github.com/eventboard/server/internal/domain/events"
	"github.com/eventboard/server/internal/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	adminActor = &auth.Actor{ID: 1, Email: "admin@example.com", Role: auth.RoleAdmin}
	ownerActor = &auth.Actor{ID: 2, Email: "owner@example.com", Role: auth.RoleUser}
	otherActor = &auth.Actor{ID: 3, Email: "other@example.com", Role: auth.RoleUser}
)

func newService(t *testing.T) (*events.Service, events.Repository) {
	t.Helper()
	repo := memory.New().Events()
	return events.NewService(repo, zerolog.Nop()), repo
}

func validParams() events.CreateParams {
	return events.CreateParams{
		Title:      "Jazz Night",
		CategoryID: 1,
		Time:       "2025-06-01T20:00:00Z",
		Place:      "Hall",
	}
}

func TestCreateAsUserStartsPending(t *testing.T) {
	svc, _ := newService(t)

	event, err := svc.Create(context.Background(), ownerActor, validParams())

	require.NoError(t, err)
	require.Equal(t, 1, event.ID)
	require.False(t, event.Approved)
	require.False(t, event.Blocked)
	require.Equal(t, 0, event.Ratings)
	require.Equal(t, ownerActor.ID, event.OwnerID)
}

func TestCreateAsAdminStartsApproved(t *testing.T) {
	svc, _ := newService(t)

	event, err := svc.Create(context.Background(), adminActor, validParams())

	require.NoError(t, err)
	require.True(t, event.Approved)
	require.False(t, event.Blocked)
}

func TestCreateRequiresAuthentication(t *testing.T) {
	svc, repo := newService(t)

	_, err := svc.Create(context.Background(), nil, validParams())

	require.ErrorIs(t, err, events.ErrUnauthenticated)
	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*events.CreateParams)
		field  string
	}{
		{"missing title", func(p *events.CreateParams) { p.Title = "" }, "title"},
		{"missing category", func(p *events.CreateParams) { p.CategoryID = 0 }, "categoryId"},
		{"missing time", func(p *events.CreateParams) { p.Time = "" }, "time"},
		{"missing place", func(p *events.CreateParams) { p.Place = "" }, "place"},
		{"unparsable time", func(p *events.CreateParams) { p.Time = "tomorrow evening" }, "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			params := validParams()
			tt.mutate(&params)

			_, err := svc.Create(context.Background(), ownerActor, params)

			var fieldErr events.FieldError
			require.ErrorAs(t, err, &fieldErr)
			require.Equal(t, tt.field, fieldErr.Field)

			// Rejected before any mutation.
			all, err := repo.List(context.Background())
			require.NoError(t, err)
			require.Empty(t, all)
		})
	}
}

func TestModerationTransitions(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, adminActor, event.ID)
	require.NoError(t, err)
	require.True(t, approved.Approved)
	require.False(t, approved.Blocked)

	blocked, err := svc.Block(ctx, adminActor, event.ID)
	require.NoError(t, err)
	require.False(t, blocked.Approved)
	require.True(t, blocked.Blocked)

	// Approve un-blocks; block from approved clears the flag. The two
	// flags are never both set after any transition.
	unblocked, err := svc.Approve(ctx, adminActor, event.ID)
	require.NoError(t, err)
	require.True(t, unblocked.Approved)
	require.False(t, unblocked.Blocked)
}

func TestModerationIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := svc.Approve(ctx, adminActor, event.ID)
		require.NoError(t, err)
		require.True(t, result.Approved)
		require.False(t, result.Blocked)
	}
	for i := 0; i < 3; i++ {
		result, err := svc.Block(ctx, adminActor, event.ID)
		require.NoError(t, err)
		require.False(t, result.Approved)
		require.True(t, result.Blocked)
	}
}

func TestModerationRequiresAdmin(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	_, err = svc.Approve(ctx, ownerActor, event.ID)
	require.ErrorIs(t, err, events.ErrForbidden)

	_, err = svc.Block(ctx, otherActor, event.ID)
	require.ErrorIs(t, err, events.ErrForbidden)

	_, err = svc.Approve(ctx, nil, event.ID)
	require.ErrorIs(t, err, events.ErrUnauthenticated)

	stored, err := repo.Get(ctx, event.ID)
	require.NoError(t, err)
	require.False(t, stored.Approved)
	require.False(t, stored.Blocked)
}

func TestModerateMissingEvent(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Approve(context.Background(), adminActor, 42)

	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestRateApprovedEvent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, adminActor, validParams())
	require.NoError(t, err)

	for want := 1; want <= 5; want++ {
		ratings, err := svc.Rate(ctx, event.ID)
		require.NoError(t, err)
		require.Equal(t, want, ratings)
	}
}

func TestRateHiddenEventFails(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	pending, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	_, err = svc.Rate(ctx, pending.ID)
	require.ErrorIs(t, err, events.ErrNotFound)

	_, err = svc.Approve(ctx, adminActor, pending.ID)
	require.NoError(t, err)
	_, err = svc.Block(ctx, adminActor, pending.ID)
	require.NoError(t, err)

	_, err = svc.Rate(ctx, pending.ID)
	require.ErrorIs(t, err, events.ErrNotFound)

	stored, err := repo.Get(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Ratings)
}

func TestRateMissingEvent(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Rate(context.Background(), 99)

	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestUpdatePermissions(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	title := "Hacked"
	_, err = svc.Update(ctx, otherActor, event.ID, events.UpdateParams{Title: &title})
	require.ErrorIs(t, err, events.ErrForbidden)

	_, err = svc.Update(ctx, nil, event.ID, events.UpdateParams{Title: &title})
	require.ErrorIs(t, err, events.ErrUnauthenticated)

	stored, err := repo.Get(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, "Jazz Night", stored.Title)
}

func TestUpdateEditsFieldsOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, adminActor, validParams())
	require.NoError(t, err)
	_, err = svc.Rate(ctx, event.ID)
	require.NoError(t, err)

	title := "Blues Night"
	category := 7
	place := "Arena"
	updated, err := svc.Update(ctx, adminActor, event.ID, events.UpdateParams{
		Title:      &title,
		CategoryID: &category,
		Place:      &place,
	})

	require.NoError(t, err)
	require.Equal(t, "Blues Night", updated.Title)
	require.Equal(t, 7, updated.CategoryID)
	require.Equal(t, "Arena", updated.Place)
	// Moderation flags, ratings and ownership survive edits.
	require.True(t, updated.Approved)
	require.False(t, updated.Blocked)
	require.Equal(t, 1, updated.Ratings)
	require.Equal(t, adminActor.ID, updated.OwnerID)
}

func TestAdminEditDoesNotApprove(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	title := "Renamed by admin"
	updated, err := svc.Update(ctx, adminActor, event.ID, events.UpdateParams{Title: &title})

	require.NoError(t, err)
	require.False(t, updated.Approved)
	require.False(t, updated.Blocked)
}

func TestUpdateRejectsBadTime(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	bad := "not-a-time"
	title := "Changed"
	_, err = svc.Update(ctx, ownerActor, event.ID, events.UpdateParams{Title: &title, Time: &bad})

	var fieldErr events.FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "time", fieldErr.Field)

	stored, err := repo.Get(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, "Jazz Night", stored.Title)
}

func TestDeletePermissions(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	err = svc.Delete(ctx, otherActor, event.ID)
	require.ErrorIs(t, err, events.ErrForbidden)

	_, err = repo.Get(ctx, event.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ownerActor, event.ID))
	_, err = repo.Get(ctx, event.ID)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestAdminDeletesForeignEvent(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, adminActor, event.ID))
	_, err = repo.Get(ctx, event.ID)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func seedMixedStates(t *testing.T, svc *events.Service) (pending, approved, blocked *events.Event) {
	t.Helper()
	ctx := context.Background()

	var err error
	pending, err = svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	params := validParams()
	params.Title = "Approved Show"
	params.CategoryID = 2
	params.Time = "2025-07-01T19:00:00Z"
	created, err := svc.Create(ctx, ownerActor, params)
	require.NoError(t, err)
	approved, err = svc.Approve(ctx, adminActor, created.ID)
	require.NoError(t, err)

	params = validParams()
	params.Title = "Blocked Show"
	created, err = svc.Create(ctx, otherActor, params)
	require.NoError(t, err)
	blocked, err = svc.Block(ctx, adminActor, created.ID)
	require.NoError(t, err)
	return pending, approved, blocked
}

func TestListDefaultVisibility(t *testing.T) {
	svc, _ := newService(t)
	_, approved, _ := seedMixedStates(t, svc)

	result, err := svc.List(context.Background(), nil, events.Filters{})

	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, approved.ID, result[0].ID)
	for _, event := range result {
		require.True(t, event.Approved)
		require.False(t, event.Blocked)
	}
}

func TestListIncludeFlagsAdminOnly(t *testing.T) {
	svc, _ := newService(t)
	seedMixedStates(t, svc)
	ctx := context.Background()

	_, err := svc.List(ctx, nil, events.Filters{IncludeUnapproved: true})
	require.ErrorIs(t, err, events.ErrUnauthenticated)

	_, err = svc.List(ctx, ownerActor, events.Filters{IncludeBlocked: true})
	require.ErrorIs(t, err, events.ErrForbidden)

	all, err := svc.List(ctx, adminActor, events.Filters{IncludeUnapproved: true, IncludeBlocked: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestListFilters(t *testing.T) {
	svc, _ := newService(t)
	_, approved, _ := seedMixedStates(t, svc)
	ctx := context.Background()

	byCategory, err := svc.List(ctx, nil, events.Filters{CategoryID: 2})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, approved.ID, byCategory[0].ID)

	none, err := svc.List(ctx, nil, events.Filters{CategoryID: 9})
	require.NoError(t, err)
	require.Empty(t, none)

	from := approved.Time.Add(-time.Hour)
	to := approved.Time.Add(time.Hour)
	inRange, err := svc.List(ctx, nil, events.Filters{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, inRange, 1)

	// Inclusive bounds.
	exact, err := svc.List(ctx, nil, events.Filters{From: &approved.Time, To: &approved.Time})
	require.NoError(t, err)
	require.Len(t, exact, 1)

	after := approved.Time.Add(time.Hour)
	empty, err := svc.List(ctx, nil, events.Filters{From: &after})
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestListOwnedReturnsAllStates(t *testing.T) {
	svc, _ := newService(t)
	pending, approved, blocked := seedMixedStates(t, svc)
	ctx := context.Background()

	mine, err := svc.ListOwned(ctx, ownerActor)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	ids := []int{mine[0].ID, mine[1].ID}
	require.ElementsMatch(t, []int{pending.ID, approved.ID}, ids)

	others, err := svc.ListOwned(ctx, otherActor)
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, blocked.ID, others[0].ID)

	_, err = svc.ListOwned(ctx, nil)
	require.ErrorIs(t, err, events.ErrUnauthenticated)
}

func TestGetHiddenEvent(t *testing.T) {
	svc, _ := newService(t)
	pending, approved, _ := seedMixedStates(t, svc)
	ctx := context.Background()

	// Visible to anyone.
	got, err := svc.Get(ctx, nil, approved.ID)
	require.NoError(t, err)
	require.Equal(t, approved.ID, got.ID)

	// Hidden: owner and admin see it, everyone else gets not-found.
	_, err = svc.Get(ctx, ownerActor, pending.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, adminActor, pending.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, otherActor, pending.ID)
	require.ErrorIs(t, err, events.ErrNotFound)
	_, err = svc.Get(ctx, nil, pending.ID)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestModerationInvariantUnderSequences(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, ownerActor, validParams())
	require.NoError(t, err)

	ops := []func() error{
		func() error { _, err := svc.Approve(ctx, adminActor, event.ID); return err },
		func() error { _, err := svc.Block(ctx, adminActor, event.ID); return err },
	}
	sequence := []int{0, 1, 1, 0, 0, 1, 0}
	for _, op := range sequence {
		require.NoError(t, ops[op]())
		stored, err := repo.Get(ctx, event.ID)
		require.NoError(t, err)
		require.False(t, stored.Approved && stored.Blocked, "approved and blocked must never both be set")
	}
}

func TestNotFoundErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, adminActor, 1)
	require.ErrorIs(t, err, events.ErrNotFound)

	title := "x"
	_, err = svc.Update(ctx, adminActor, 1, events.UpdateParams{Title: &title})
	require.ErrorIs(t, err, events.ErrNotFound)

	err = svc.Delete(ctx, adminActor, 1)
	require.ErrorIs(t, err, events.ErrNotFound)
	require.True(t, errors.Is(err, events.ErrNotFound))
}
