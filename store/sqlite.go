package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/caldera-labs/agentgraph/types"
)

// workflowRow is the SQLite row shape for a workflow definition.
// The full definition is stored as a JSON document; the indexed columns
// exist only for lookup and ordering.
type workflowRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Document  []byte    `gorm:"column:document"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (workflowRow) TableName() string { return "workflows" }

// executionRow is the SQLite row shape for an execution record.
type executionRow struct {
	ID         string    `gorm:"column:id;primaryKey"`
	WorkflowID string    `gorm:"column:workflow_id;index"`
	Document   []byte    `gorm:"column:document"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (executionRow) TableName() string { return "executions" }

// SQLiteStore is a GORM-backed embedded implementation of Store.
// Suitable for single-node production deployments.
type SQLiteStore struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the database file and migrates the
// schema.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&workflowRow{}, &executionRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	logger.Info("sqlite store initialized", zap.String("path", path))

	return &SQLiteStore{
		db:     db,
		sqlDB:  sqlDB,
		logger: logger.With(zap.String("component", "sqlite_store")),
	}, nil
}

// Close closes the underlying database handle
func (s *SQLiteStore) Close() error {
	return s.sqlDB.Close()
}

// Ping checks if the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// CreateWorkflow persists a workflow definition
func (s *SQLiteStore) CreateWorkflow(ctx context.Context, wf *types.Workflow) error {
	if wf == nil {
		return ErrInvalidInput
	}

	if wf.ID == "" {
		wf.ID = uuid.New().String()
	}
	now := time.Now()
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = now
	}
	wf.UpdatedAt = now

	doc, err := json.Marshal(wf)
	if err != nil {
		return fmt.Errorf("failed to encode workflow: %w", err)
	}

	row := workflowRow{
		ID:        wf.ID,
		Name:      wf.Name,
		Document:  doc,
		CreatedAt: wf.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID
func (s *SQLiteStore) GetWorkflow(ctx context.Context, id string) (*types.Workflow, error) {
	var row workflowRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow: %w", err)
	}
	return decodeWorkflow(row.Document)
}

// ListWorkflows returns workflows in creation order, capped at 100
func (s *SQLiteStore) ListWorkflows(ctx context.Context) ([]*types.Workflow, error) {
	var rows []workflowRow
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(workflowListLimit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	result := make([]*types.Workflow, 0, len(rows))
	for _, row := range rows {
		wf, err := decodeWorkflow(row.Document)
		if err != nil {
			return nil, err
		}
		result = append(result, wf)
	}
	return result, nil
}

// DeleteWorkflow removes a workflow by ID
func (s *SQLiteStore) DeleteWorkflow(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&workflowRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete workflow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateExecution persists an execution record
func (s *SQLiteStore) CreateExecution(ctx context.Context, rec *types.ExecutionRecord) error {
	if rec == nil {
		return ErrInvalidInput
	}

	if rec.ExecutionID == "" {
		rec.ExecutionID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode execution: %w", err)
	}

	row := executionRow{
		ID:         rec.ExecutionID,
		WorkflowID: rec.WorkflowID,
		Document:   doc,
		CreatedAt:  rec.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert execution: %w", err)
	}
	return nil
}

// GetExecution retrieves an execution record by ID
func (s *SQLiteStore) GetExecution(ctx context.Context, id string) (*types.ExecutionRecord, error) {
	var row executionRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query execution: %w", err)
	}
	return decodeExecution(row.Document)
}

// ListExecutionsByWorkflow returns records for one workflow, newest first,
// capped at 50
func (s *SQLiteStore) ListExecutionsByWorkflow(ctx context.Context, workflowID string) ([]*types.ExecutionRecord, error) {
	var rows []executionRow
	err := s.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Order("created_at DESC").
		Limit(executionListLimit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	result := make([]*types.ExecutionRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeExecution(row.Document)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, nil
}

func decodeWorkflow(doc []byte) (*types.Workflow, error) {
	var wf types.Workflow
	if err := json.Unmarshal(doc, &wf); err != nil {
		return nil, fmt.Errorf("failed to decode workflow document: %w", err)
	}
	return &wf, nil
}

func decodeExecution(doc []byte) (*types.ExecutionRecord, error) {
	var rec types.ExecutionRecord
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode execution document: %w", err)
	}
	return &rec, nil
}
