package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	teamRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/team"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeTeam struct {
	members map[string]*domain.TeamMember
	err     error
	calls   int
}

func (f *fakeTeam) GetMember(_ context.Context, ownerID, userID string) (*domain.TeamMember, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.members[ownerID+"/"+userID]
	if !ok {
		return nil, teamRepo.ErrMemberNotFound
	}
	return m, nil
}

func newService(team *fakeTeam) *Service {
	return NewService(team, logger.NewNop())
}

func TestResolve_OwnerHasEverything(t *testing.T) {
	team := &fakeTeam{}
	perms, err := newService(team).Resolve(context.Background(), "owner-1", "owner-1")

	require.NoError(t, err)
	assert.Equal(t, domain.OwnerPermissions(), perms)
	assert.Zero(t, team.calls, "owner must not hit the team table")
}

func TestResolve_TeamMember(t *testing.T) {
	team := &fakeTeam{members: map[string]*domain.TeamMember{
		"owner-1/user-2": {
			OwnerID: "owner-1",
			UserID:  "user-2",
			Role:    "receptionist",
			Permissions: domain.Permissions{
				IsOwner:           true,
				CanManageBookings: true,
			},
		},
	}}

	perms, err := newService(team).Resolve(context.Background(), "owner-1", "user-2")
	require.NoError(t, err)

	assert.False(t, perms.IsOwner, "stored flag must not grant ownership")
	assert.True(t, perms.CanManageBookings)
	assert.False(t, perms.CanManageSettings)
}

func TestResolve_Stranger(t *testing.T) {
	_, err := newService(&fakeTeam{}).Resolve(context.Background(), "owner-1", "user-9")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestResolve_RepositoryError(t *testing.T) {
	_, err := newService(&fakeTeam{err: errors.New("db down")}).Resolve(context.Background(), "owner-1", "user-2")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestResolve_MissingIDs(t *testing.T) {
	_, err := newService(&fakeTeam{}).Resolve(context.Background(), "", "user-2")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRequire(t *testing.T) {
	team := &fakeTeam{members: map[string]*domain.TeamMember{
		"owner-1/user-2": {Permissions: domain.Permissions{CanManageBookings: true}},
	}}
	s := newService(team)
	ctx := context.Background()

	assert.NoError(t, s.Require(ctx, "owner-1", "user-2", CanManageBookings))
	assert.ErrorIs(t, s.Require(ctx, "owner-1", "user-2", CanManageSettings), ErrAccessDenied)
	assert.NoError(t, s.Require(ctx, "owner-1", "owner-1", CanManageSettings))
}

func TestGetUserPermissions(t *testing.T) {
	resp, err := newService(&fakeTeam{}).GetUserPermissions(context.Background(), "owner-1", "owner-1")
	require.NoError(t, err)

	assert.Equal(t, "owner-1", resp.OwnerID)
	assert.True(t, resp.IsOwner)
	assert.True(t, resp.CanManageBilling)
}
