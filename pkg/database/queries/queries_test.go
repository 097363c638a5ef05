package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/diapredict/pkg/database"
	"github.com/OldStager01/diapredict/pkg/database/queries"
	"github.com/OldStager01/diapredict/pkg/models"
)

func newTestDB(t *testing.T) *database.DB {
	db, err := database.New(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db).Run(context.Background()))
	return db
}

func sampleRun(label string, accuracy float64, at time.Time) *models.TrainingRun {
	cv := 0.76
	run := models.NewTrainingRun(models.NewUUID(), label, "random_forest", "models/diabetes_model.json", models.Evaluation{
		Accuracy:  accuracy,
		Precision: 0.7,
		Recall:    0.6,
		F1:        0.65,
		ROCAUC:    0.81,
		CVMean:    &cv,
		Confusion: models.ConfusionMatrix{{90, 10}, {20, 34}},
	})
	run.TrainSize = 614
	run.TestSize = 154
	run.Seed = 42
	run.Candidates = []models.CandidateScore{
		{Label: "Logistic Regression", Kind: "logistic_regression", Accuracy: 0.75},
		{Label: label, Kind: "random_forest", Accuracy: accuracy, Selected: true},
	}
	run.TrainedAt = at
	return run
}

func TestTrainingRunRepository_InsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := queries.NewTrainingRunRepository(newTestDB(t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := sampleRun("Random Forest", 0.74, base)
	second := sampleRun("Random Forest", 0.77, base.Add(time.Hour))

	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	runs, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ModelID, runs[0].ModelID)
	assert.Equal(t, first.ModelID, runs[1].ModelID)

	got := runs[0]
	assert.Equal(t, 614, got.TrainSize)
	assert.Equal(t, 154, got.TestSize)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, second.Evaluation, got.Evaluation)
	assert.Equal(t, second.Candidates, got.Candidates)
	assert.True(t, second.TrainedAt.Equal(got.TrainedAt))

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ModelID, page[0].ModelID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTrainingRunRepository_Lookup(t *testing.T) {
	ctx := context.Background()
	repo := queries.NewTrainingRunRepository(newTestDB(t))

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, queries.ErrRunNotFound)

	run := sampleRun("Random Forest", 0.75, time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, run))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ModelID, latest.ModelID)

	byID, err := repo.GetByModelID(ctx, run.ModelID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, byID.ID)

	_, err = repo.GetByModelID(ctx, models.NewUUID())
	assert.ErrorIs(t, err, queries.ErrRunNotFound)
}

func TestClientRepository(t *testing.T) {
	ctx := context.Background()
	repo := queries.NewClientRepository(newTestDB(t))

	_, err := repo.GetByUsername(ctx, "clinic")
	assert.ErrorIs(t, err, queries.ErrClientNotFound)

	created, err := repo.Create(ctx, "clinic", "hash")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = repo.Create(ctx, "clinic", "other")
	assert.ErrorIs(t, err, queries.ErrClientExists)

	got, err := repo.GetByUsername(ctx, "clinic")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)
}
