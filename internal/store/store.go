// Package store persists non-pass IterationOutcomes to Postgres and
// content-addresses the generated Verilog that produced them, the way
// the teacher's crash.CrashManager content-addresses crash files.
package store

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vdiff/internal/tool"
	"vdiff/internal/types"
)

// OutcomeRow is the gorm model for one tool's non-pass contribution to an
// iteration, generalizing the teacher's Bug model from a single POC path
// to a (tool, expected, observed) triple.
type OutcomeRow struct {
	ID             uint      `gorm:"primaryKey;column:id"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	IterationIndex int       `gorm:"column:iteration_index;not null"`
	ToolName       string    `gorm:"column:tool_name;not null"`
	Classification string    `gorm:"column:classification;not null"`
	ExpectedValue  int64     `gorm:"column:expected_value"`
	ObservedValue  int64     `gorm:"column:observed_value"`
	ArtifactPath   string    `gorm:"column:artifact_path;not null"`
}

// OutcomeStore is the optional outcome-persistence sink. A nil
// *OutcomeStore is valid and means persistence is disabled.
type OutcomeStore struct {
	db           *gorm.DB
	logger       *zap.Logger
	artifactRoot string
}

// Open connects to databaseURL and migrates the outcome table. Returns
// (nil, nil) when databaseURL is empty, since outcome persistence is
// optional.
func Open(databaseURL, artifactRoot string, logger *zap.Logger) (*OutcomeStore, error) {
	if databaseURL == "" {
		return nil, nil
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := db.AutoMigrate(&OutcomeRow{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	if err := os.MkdirAll(artifactRoot, 0o755); err != nil {
		return nil, fmt.Errorf("store: create artifact root %s: %w", artifactRoot, err)
	}
	return &OutcomeStore{db: db, logger: logger, artifactRoot: artifactRoot}, nil
}

// Persist writes one OutcomeRow per non-pass tool in outcome, and stores
// verilog once under its md5 digest so every row referencing the same
// failing iteration shares one artifact.
func (s *OutcomeStore) Persist(outcome *types.IterationOutcome, verilog string) error {
	if outcome.Classification == tool.Pass {
		return nil
	}

	artifactPath, err := s.storeArtifact(verilog)
	if err != nil {
		return fmt.Errorf("store: artifact: %w", err)
	}

	var rows []OutcomeRow
	for name, result := range outcome.Results {
		status := tool.ClassifyTool(name, result, outcome.TimedOut[name], outcome.Oracle)
		if status == tool.Pass {
			continue
		}
		rows = append(rows, OutcomeRow{
			IterationIndex: outcome.Index,
			ToolName:       name,
			Classification: status.String(),
			ExpectedValue:  int64(outcome.Oracle),
			ObservedValue:  int64(result.Value),
			ArtifactPath:   artifactPath,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("store: insert outcome rows: %w", err)
	}
	for _, r := range rows {
		outcome.RowID = r.ID
	}
	return nil
}

// storeArtifact writes verilog under its md5 digest, returning the
// artifact's path. It stages the write under a uuid-named temp file in
// the same directory and renames it into place, the way the teacher's
// seeds manager stages a file under a random name before exposing it
// under its final one, so a reader never observes a partially written
// artifact at the content-addressed path.
func (s *OutcomeStore) storeArtifact(verilog string) (string, error) {
	sum := md5.Sum([]byte(verilog))
	name := hex.EncodeToString(sum[:]) + ".v"
	path := filepath.Join(s.artifactRoot, name)

	tmp := filepath.Join(s.artifactRoot, uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, []byte(verilog), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}
