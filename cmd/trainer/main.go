// Command trainer fits the candidate classifiers on the diabetes dataset,
// keeps the best one and writes it as a versioned artifact.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/cheggaaa/pb/v3"

	"github.com/OldStager01/diapredict/internal/artifact"
	"github.com/OldStager01/diapredict/internal/classifier"
	"github.com/OldStager01/diapredict/internal/dataset"
	"github.com/OldStager01/diapredict/internal/logger"
	"github.com/OldStager01/diapredict/internal/training"
	"github.com/OldStager01/diapredict/pkg/config"
	"github.com/OldStager01/diapredict/pkg/database"
	"github.com/OldStager01/diapredict/pkg/database/queries"
	"github.com/OldStager01/diapredict/pkg/models"
)

type args struct {
	Config     string `arg:"help:Path to config file."`
	Data       string `arg:"help:Dataset CSV (overrides training.data_path)."`
	Out        string `arg:"help:Artifact output path (overrides model.artifact_path)."`
	GridSearch bool   `arg:"help:Tune the random forest by cross-validated grid search."`
	Workers    int    `arg:"help:Trees fitted concurrently (default is the number of CPUs)."`
	NoCV       bool   `arg:"help:Skip k-fold cross-validation."`
	NoProgress bool   `arg:"help:Do not draw progress bars."`
}

func (args) Version() string {
	return "diapredict trainer 1.0"
}

func (args) Description() string {
	return `Train logistic regression and random forest classifiers on the Pima diabetes dataset and save the most accurate one.`
}

func main() {
	var a args
	arg.MustParse(&a)

	if err := run(a); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, dataset.ErrDataMissing) {
			fmt.Fprintln(os.Stderr, "download diabetes.csv into the data directory or pass --data")
		}
		os.Exit(1)
	}
}

func run(a args) error {
	cfg, err := config.Load(a.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyArgs(cfg, a)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.SetupWithFile(cfg.App.LogLevel, cfg.App.Mode, logFileOptions(cfg.App.LogFile))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []training.Option
	if !a.NoProgress {
		opts = append(opts, training.WithProgress(progressBar))
	}

	trainer := training.NewTrainer(trainingConfig(cfg.Training), opts...)
	report, err := trainer.Run(ctx)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	art, err := artifact.New(report.Selected.Pipeline, artifact.Details{
		Metrics:    report.Evaluation,
		Candidates: report.Scores(),
		TrainSize:  report.TrainSize,
		TestSize:   report.TestSize,
		Seed:       report.Seed,
	})
	if err != nil {
		return fmt.Errorf("failed to build artifact: %w", err)
	}

	if err := artifact.Save(cfg.Model.ArtifactPath, art); err != nil {
		return err
	}
	logger.WithModel(art.Manifest.ModelID).Infof("Model saved to %s", cfg.Model.ArtifactPath)

	if cfg.Database.Enabled {
		if err := recordRun(ctx, cfg, art); err != nil {
			// The artifact is already on disk; a registry outage only loses history.
			logger.WithModel(art.Manifest.ModelID).Warnf("Failed to record training run: %v", err)
		}
	}

	printReport(os.Stdout, report, cfg.Model.ArtifactPath)
	return nil
}

func applyArgs(cfg *config.Config, a args) {
	if a.Data != "" {
		cfg.Training.DataPath = a.Data
	}
	if a.Out != "" {
		cfg.Model.ArtifactPath = a.Out
	}
	if a.GridSearch {
		cfg.Training.GridSearch = true
	}
	if a.Workers > 0 {
		cfg.Training.Workers = a.Workers
	}
	if a.NoCV {
		cfg.Training.CVFolds = 0
	}
}

func trainingConfig(tc config.TrainingConfig) training.Config {
	return training.Config{
		DataPath:   tc.DataPath,
		TestRatio:  tc.TestRatio,
		Seed:       tc.Seed,
		CVFolds:    tc.CVFolds,
		GridSearch: tc.GridSearch,
		Candidates: tc.Candidates,
		Logistic: classifier.LogisticConfig{
			C:       tc.Logistic.C,
			MaxIter: tc.Logistic.MaxIter,
		},
		Forest: classifier.ForestConfig{
			NEstimators:     tc.Forest.NEstimators,
			MaxDepth:        tc.Forest.MaxDepth,
			MinSamplesSplit: tc.Forest.MinSamplesSplit,
			Workers:         tc.Workers,
		},
	}
}

func logFileOptions(lf config.LogFileConfig) logger.FileOptions {
	return logger.FileOptions{
		Path:       lf.Path,
		MaxSizeMB:  lf.MaxSizeMB,
		MaxBackups: lf.MaxBackups,
		MaxAgeDays: lf.MaxAgeDays,
	}
}

// progressBar draws one bar per forest fit. Increment is safe to call from
// the fitting goroutines.
func progressBar(label string, total int) (func(), func()) {
	bar := pb.Full.Start(total)
	bar.Set("prefix", label+" ")
	return func() { bar.Increment() }, func() { bar.Finish() }
}

func recordRun(ctx context.Context, cfg *config.Config, art *artifact.Artifact) error {
	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, cfg.Database.MigrationTimeout)
	defer cancel()
	if err := database.NewMigrator(db).Run(migrateCtx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	m := art.Manifest
	run := models.NewTrainingRun(m.ModelID, m.Label, m.Kind, cfg.Model.ArtifactPath, m.Metrics)
	run.Candidates = m.Candidates
	run.TrainSize = m.TrainSize
	run.TestSize = m.TestSize
	run.Seed = m.Seed
	run.TrainedAt = m.CreatedAt

	if err := queries.NewTrainingRunRepository(db).Insert(ctx, run); err != nil {
		return err
	}
	logger.WithModel(m.ModelID).Infof("Recorded training run %d", run.ID)
	return nil
}
