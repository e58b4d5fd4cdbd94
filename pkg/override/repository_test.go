//go:build integration

package override

import (
	"context"
	"os"
	"testing"

	"github.com/citypulse/citypulse/internal/test_utils"
	"github.com/citypulse/citypulse/internal/utils"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}()
	code := m.Run()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl) {
	ctx := context.Background()
	db := openDb()
	repository := NewRepository(db)
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, repository
}

func TestRepositoryImpl_GetSet(t *testing.T) {
	t.Run("should report missing keys", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)

		// when
		_, err := repo.Get(ctx, CustomEventsKey)

		// then
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("should overwrite an existing key", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		require.NoError(t, repo.Set(ctx, DisabledEventIdsKey, []byte(`["tm-1"]`)))

		// when
		err := repo.Set(ctx, DisabledEventIdsKey, []byte(`["tm-1", "tm-2"]`))

		// then
		require.NoError(t, err)
		stored, err := repo.Get(ctx, DisabledEventIdsKey)
		require.NoError(t, err)
		assert.JSONEq(t, `["tm-1", "tm-2"]`, string(stored))
	})
}

func TestRepositoryImpl_WithService(t *testing.T) {
	t.Run("should round-trip custom events", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		service := NewService(repo, utils.SystemClock{}, nil)

		// when
		created, err := service.AddCustom(ctx, event.Event{Title: "Stored in Postgres", Venue: "Sector 17"})
		require.NoError(t, err)
		_, err = service.ToggleDisable(ctx, "tm-1")
		require.NoError(t, err)

		// then
		state, err := NewService(repo, utils.SystemClock{}, nil).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []event.Event{created}, state.Custom)
		assert.Equal(t, []string{"tm-1"}, state.DisabledIds)
	})
}
