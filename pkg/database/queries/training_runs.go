package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OldStager01/diapredict/pkg/database"
	"github.com/OldStager01/diapredict/pkg/models"
)

var ErrRunNotFound = errors.New("training run not found")

type TrainingRunRepository struct {
	db *database.DB
}

func NewTrainingRunRepository(db *database.DB) *TrainingRunRepository {
	return &TrainingRunRepository{db: db}
}

const trainingRunColumns = `id, model_id, model_label, model_kind, artifact_path,
	train_size, test_size, seed, evaluation, candidates, trained_at`

func (r *TrainingRunRepository) Insert(ctx context.Context, run *models.TrainingRun) error {
	evaluation, err := json.Marshal(run.Evaluation)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation: %w", err)
	}
	candidates, err := json.Marshal(run.Candidates)
	if err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO training_runs
			(model_id, model_label, model_kind, artifact_path,
			 accuracy, precision_score, recall, f1, roc_auc, cv_mean,
			 train_size, test_size, seed, evaluation, candidates, trained_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	eval := run.Evaluation
	return r.db.QueryRowContext(ctx, query,
		run.ModelID,
		run.ModelLabel,
		run.ModelKind,
		run.ArtifactPath,
		eval.Accuracy,
		eval.Precision,
		eval.Recall,
		eval.F1,
		eval.ROCAUC,
		eval.CVMean,
		run.TrainSize,
		run.TestSize,
		run.Seed,
		string(evaluation),
		string(candidates),
		run.TrainedAt,
	).Scan(&run.ID)
}

// List returns runs newest first.
func (r *TrainingRunRepository) List(ctx context.Context, limit, offset int) ([]models.TrainingRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.Rebind(`
		SELECT ` + trainingRunColumns + `
		FROM training_runs
		ORDER BY trained_at DESC, id DESC
		LIMIT ? OFFSET ?`)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []models.TrainingRun{}
	for rows.Next() {
		run, err := scanTrainingRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

func (r *TrainingRunRepository) GetByModelID(ctx context.Context, modelID string) (*models.TrainingRun, error) {
	query := r.db.Rebind(`
		SELECT ` + trainingRunColumns + `
		FROM training_runs
		WHERE model_id = ?`)

	run, err := scanTrainingRun(r.db.QueryRowContext(ctx, query, modelID))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	return run, err
}

func (r *TrainingRunRepository) Latest(ctx context.Context) (*models.TrainingRun, error) {
	runs, err := r.List(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[0], nil
}

func (r *TrainingRunRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_runs`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrainingRun(row rowScanner) (*models.TrainingRun, error) {
	var (
		run        models.TrainingRun
		evaluation string
		candidates string
	)
	err := row.Scan(
		&run.ID, &run.ModelID, &run.ModelLabel, &run.ModelKind, &run.ArtifactPath,
		&run.TrainSize, &run.TestSize, &run.Seed, &evaluation, &candidates, &run.TrainedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(evaluation), &run.Evaluation); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation of run %d: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(candidates), &run.Candidates); err != nil {
		return nil, fmt.Errorf("failed to decode candidates of run %d: %w", run.ID, err)
	}
	return &run, nil
}
