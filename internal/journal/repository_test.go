package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vrom/vrom/internal/bridge"
	"github.com/vrom/vrom/internal/command"
)

func setupRepo(t *testing.T) (*Repo, context.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	db, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepo(db), ctx
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()
	repo, ctx := setupRepo(t)

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, command.Entry{
		Topic:   bridge.TopicTakeObject,
		FrameID: "cube",
		Payload: bridge.PoseMessage{FrameID: "cube", Orientation: bridge.Orientation{W: 1}},
		SentAt:  base,
	}))
	require.NoError(t, repo.Record(ctx, command.Entry{
		Topic:   bridge.TopicAction1,
		FrameID: "cube",
		Payload: bridge.TextMessage{Data: "Action 1 with object 'cube'"},
		SentAt:  base.Add(time.Minute),
	}))

	recs, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, bridge.TopicAction1, recs[0].Topic)
	require.JSONEq(t, `{"data":"Action 1 with object 'cube'"}`, recs[0].Payload)
	require.Equal(t, bridge.TopicTakeObject, recs[1].Topic)
	require.True(t, recs[1].SentAt.Equal(base))
	require.NotEqual(t, recs[0].ID, recs[1].ID)

	recs, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
