package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/safebox-auth/internal/models"
	"github.com/pribylovaa/safebox-auth/internal/storage"
)

func applySessionsMigration(t *testing.T, st *Storage) {
	t.Helper()
	_, err := st.db.Exec(context.Background(), readMigration(t, "2_init_sessions.up.sql"))
	require.NoError(t, err, "apply 2_init_sessions.up.sql")
}

// seedUser создаёт пользователя.
func seedUser(t *testing.T, st *Storage, email string) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.SaveUser(context.Background(), u))
	return u.ID
}

func seedSession(t *testing.T, st *Storage, userID uuid.UUID, token string, expiresAt time.Time) *models.Session {
	t.Helper()
	s := &models.Session{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: token,
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    expiresAt,
	}
	require.NoError(t, st.SaveSession(context.Background(), s))
	return s
}

func TestIntegration_SaveSession_And_GetByToken_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	applySessionsMigration(t, st)

	ctx := context.Background()
	userID := seedUser(t, st, "ann@example.com")

	now := time.Now().UTC()
	s := seedSession(t, st, userID, "refresh-1", now.Add(time.Hour))

	got, err := st.SessionByToken(ctx, "refresh-1")
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, userID, got.UserID)
	require.Equal(t, "refresh-1", got.RefreshToken)
	require.WithinDuration(t, now.Add(time.Hour), got.ExpiresAt, 2*time.Second)
}

func TestIntegration_SaveSession_UniqueViolation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	applySessionsMigration(t, st)

	ctx := context.Background()
	userID := seedUser(t, st, "ann@example.com")
	now := time.Now().UTC()

	seedSession(t, st, userID, "dup-refresh", now.Add(time.Hour))

	// Повтор с тем же refresh_token.
	err := st.SaveSession(ctx, &models.Session{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: "dup-refresh",
		CreatedAt:    now,
		ExpiresAt:    now.Add(2 * time.Hour),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_SessionByToken_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	applySessionsMigration(t, st)

	_, err := st.SessionByToken(context.Background(), "missing")
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_DeleteSessionByToken(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	applySessionsMigration(t, st)

	ctx := context.Background()
	userID := seedUser(t, st, "ann@example.com")
	seedSession(t, st, userID, "refresh-1", time.Now().UTC().Add(time.Hour))

	deleted, err := st.DeleteSessionByToken(ctx, "refresh-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	// Повторное удаление — ноль строк, не ошибка.
	deleted, err = st.DeleteSessionByToken(ctx, "refresh-1")
	require.NoError(t, err)
	require.EqualValues(t, 0, deleted)

	_, err = st.SessionByToken(ctx, "refresh-1")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_DeleteSessionsByUser(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	applySessionsMigration(t, st)

	ctx := context.Background()
	now := time.Now().UTC()
	ann := seedUser(t, st, "ann@example.com")
	bob := seedUser(t, st, "bob@example.com")

	seedSession(t, st, ann, "ann-1", now.Add(time.Hour))
	seedSession(t, st, ann, "ann-2", now.Add(time.Hour))
	seedSession(t, st, bob, "bob-1", now.Add(time.Hour))

	deleted, err := st.DeleteSessionsByUser(ctx, ann)
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	// Чужие сессии не затронуты.
	got, err := st.SessionByToken(ctx, "bob-1")
	require.NoError(t, err)
	require.Equal(t, bob, got.UserID)
}

func TestIntegration_DeleteExpiredSessions(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	applySessionsMigration(t, st)

	ctx := context.Background()
	now := time.Now().UTC()
	userID := seedUser(t, st, "ann@example.com")

	seedSession(t, st, userID, "stale", now.Add(-time.Hour))
	seedSession(t, st, userID, "live", now.Add(time.Hour))

	require.NoError(t, st.DeleteExpiredSessions(ctx, now))

	_, err := st.SessionByToken(ctx, "stale")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.SessionByToken(ctx, "live")
	require.NoError(t, err)
}
