package resilient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tucanviajes/crm-backend/internal/auth"
)

type fakeRefresher struct {
	calls   int
	session *auth.Session
	err     error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (*auth.Session, error) {
	f.calls++
	return f.session, f.err
}

type fakeCache struct {
	invalidated []string
	err         error
}

func (f *fakeCache) Invalidate(ctx context.Context, entity, orgID, branchID string) error {
	f.invalidated = append(f.invalidated, entity+":"+orgID+":"+branchID)
	return f.err
}

func authExpiredErr() error {
	return &auth.Error{Kind: auth.KindAuthExpired, Message: "JWT expired"}
}

func TestDo_SuccessNeverRefreshes(t *testing.T) {
	refresher := &fakeRefresher{}
	e := New(refresher, nil)

	ops := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		ops++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, ops)
	assert.Equal(t, 0, refresher.calls)
}

func TestDo_NonAuthErrorPassesThrough(t *testing.T) {
	refresher := &fakeRefresher{}
	e := New(refresher, nil)

	boom := errors.New("Network request failed")
	ops := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		ops++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ops, "un error común no gatilla reintento")
	assert.Equal(t, 0, refresher.calls, "ni refresh")
}

func TestDo_AuthExpiredRefreshesAndRetriesOnce(t *testing.T) {
	refresher := &fakeRefresher{session: &auth.Session{AccessToken: "fresh"}}
	e := New(refresher, nil)

	ops := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		ops++
		if ops == 1 {
			return authExpiredErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, ops)
	assert.Equal(t, 1, refresher.calls)
}

func TestDo_RetryFailureIsFinal(t *testing.T) {
	refresher := &fakeRefresher{session: &auth.Session{AccessToken: "fresh"}}
	e := New(refresher, nil)

	ops := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		ops++
		return authExpiredErr()
	})

	// El reintento también falló: sube tal cual, sin segundo refresh.
	require.Error(t, err)
	assert.Equal(t, 2, ops, "exactamente un reintento, nunca más")
	assert.Equal(t, 1, refresher.calls)
}

func TestDo_RefreshFailureSurfacesSessionExpired(t *testing.T) {
	refresher := &fakeRefresher{err: authExpiredErr()}
	e := New(refresher, nil)

	ops := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		ops++
		return authExpiredErr()
	})

	assert.ErrorIs(t, err, auth.ErrSessionExpired)
	assert.Equal(t, 1, ops, "sin sesión recuperada no hay reintento")
}

func TestDoMutation_InvalidatesEveryScopeOnSuccess(t *testing.T) {
	cache := &fakeCache{}
	e := New(&fakeRefresher{}, cache)

	err := e.DoMutation(context.Background(),
		func(ctx context.Context) error { return nil },
		Scope{Entity: "leads", OrganizationID: "org-1", BranchID: "br-1"},
		Scope{Entity: "contacts", OrganizationID: "org-1", BranchID: "br-1"},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"leads:org-1:br-1", "contacts:org-1:br-1"}, cache.invalidated)
}

func TestDoMutation_SkipsInvalidationOnFailure(t *testing.T) {
	cache := &fakeCache{}
	e := New(&fakeRefresher{}, cache)

	boom := errors.New("constraint violation")
	err := e.DoMutation(context.Background(),
		func(ctx context.Context) error { return boom },
		Scope{Entity: "leads", OrganizationID: "org-1", BranchID: "br-1"},
	)

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, cache.invalidated, "una mutación fallida no ensucia nada")
}

func TestDoMutation_CacheErrorDoesNotFailTheMutation(t *testing.T) {
	cache := &fakeCache{err: errors.New("redis down")}
	e := New(&fakeRefresher{}, cache)

	err := e.DoMutation(context.Background(),
		func(ctx context.Context) error { return nil },
		Scope{Entity: "leads", OrganizationID: "org-1", BranchID: "br-1"},
	)

	// El store ya commiteó; la invalidación fallida solo se loguea.
	assert.NoError(t, err)
}
