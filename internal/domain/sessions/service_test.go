package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byToken map[string]Session
	deletes int
}

func newTestRepo() *testRepo {
	return &testRepo{byToken: map[string]Session{}}
}

func (r *testRepo) Save(ctx context.Context, s Session) error {
	r.byToken[s.Token] = s
	return nil
}

func (r *testRepo) Get(ctx context.Context, token string) (Session, error) {
	s, ok := r.byToken[token]
	if !ok {
		return Session{}, apperr.ErrNotFound
	}
	return s, nil
}

func (r *testRepo) Delete(ctx context.Context, token string) error {
	r.deletes++
	delete(r.byToken, token)
	return nil
}

type testUsers map[string]users.User

func (u testUsers) GetByID(ctx context.Context, id string) (users.User, error) {
	x, ok := u[id]
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return x, nil
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	us := testUsers{
		"user_a": {ID: "user_a", Email: "a@example.com", Name: "Ana", Role: users.RolePetOwner},
	}
	svc := NewService(repo, us, nil)
	svc.now = func() time.Time { return t0 }
	return svc, repo
}

// -------------------------
// Evaluate
// -------------------------

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name      string
		expiresAt time.Time
		valid     bool
		del       bool
	}{
		{"future", t0.Add(time.Minute), true, false},
		{"boundary is still valid", t0, true, false},
		{"past", t0.Add(-time.Nanosecond), false, true},
		// Mismo instante expresado en otra zona: se compara en UTC.
		{"other zone", t0.Add(time.Hour).In(time.FixedZone("UTC-5", -5*3600)), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			valid, del := Evaluate(Session{ExpiresAt: tc.expiresAt}, t0)
			assert.Equal(t, tc.valid, valid)
			assert.Equal(t, tc.del, del)
		})
	}
}

// -------------------------
// Service
// -------------------------

func TestService_IssueThenResolve(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	s, err := svc.Issue(ctx, "user_a", "")
	require.NoError(t, err)
	assert.Regexp(t, `^session_[0-9a-f]{32}$`, s.Token)
	assert.Equal(t, t0.Add(TTL), s.ExpiresAt)
	assert.Contains(t, repo.byToken, s.Token)

	u, err := svc.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "user_a", u.ID)
}

func TestService_Issue_AdoptsProvidedToken(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Issue(context.Background(), "user_a", "ext-token")
	require.NoError(t, err)

	// Un segundo Issue con el mismo token reemplaza la fila.
	svc.now = func() time.Time { return t0.Add(time.Hour) }
	_, err = svc.Issue(context.Background(), "user_a", "ext-token")
	require.NoError(t, err)

	require.Len(t, repo.byToken, 1)
	assert.Equal(t, t0.Add(time.Hour).Add(TTL), repo.byToken["ext-token"].ExpiresAt)
}

func TestService_Resolve_Unauthenticated(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	repo.byToken["orphan"] = Session{Token: "orphan", UserID: "user_gone", ExpiresAt: t0.Add(time.Hour)}
	_, err = svc.Resolve(ctx, "orphan")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Contains(t, repo.byToken, "orphan", "orphan sessions are not cleaned up")
}

func TestService_Resolve_ExpiredIsDeleted(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	repo.byToken["old"] = Session{Token: "old", UserID: "user_a", ExpiresAt: t0.Add(-time.Second)}

	_, err := svc.Resolve(ctx, "old")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.NotContains(t, repo.byToken, "old")
	assert.Equal(t, 1, repo.deletes)

	// Segunda vez: ya no existe, sin nuevo delete.
	_, err = svc.Resolve(ctx, "old")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Equal(t, 1, repo.deletes)
}

func TestService_Resolve_NoRefreshOnUse(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	s, err := svc.Issue(ctx, "user_a", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return t0.Add(3 * 24 * time.Hour) }
	_, err = svc.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.ExpiresAt, repo.byToken[s.Token].ExpiresAt)

	svc.now = func() time.Time { return s.ExpiresAt.Add(time.Second) }
	_, err = svc.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestService_Verify(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	s, err := svc.Issue(ctx, "user_a", "")
	require.NoError(t, err)

	c, err := svc.Verify(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "user_a", c.UserID)
	assert.Equal(t, "pet_owner", c.Role)
	assert.Equal(t, "Ana", c.Name)
}

func TestService_Revoke(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	s, err := svc.Issue(ctx, "user_a", "")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, s.Token))
	require.NoError(t, svc.Revoke(ctx, s.Token))
	require.NoError(t, svc.Revoke(ctx, ""))
	assert.Empty(t, repo.byToken)

	_, err = svc.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
