package store

import (
	"context"
	"errors"

	"github.com/caldera-labs/agentgraph/types"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrStoreClosed  = errors.New("store is closed")
	ErrInvalidInput = errors.New("invalid input")
)

// List caps. Workflow listings return at most 100 definitions;
// per-workflow execution listings return at most the 50 most recent runs.
const (
	workflowListLimit  = 100
	executionListLimit = 50
)

// StoreType represents the type of storage backend
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeSQLite StoreType = "sqlite"
	StoreTypeMongo  StoreType = "mongo"
)

// MongoConfig contains MongoDB-specific configuration
type MongoConfig struct {
	// URI is the MongoDB connection string
	URI string `json:"uri" yaml:"uri"`

	// Database is the database name
	Database string `json:"database" yaml:"database"`
}

// Config is the base configuration for all store implementations
type Config struct {
	// Type is the storage backend type
	Type StoreType `json:"type" yaml:"type"`

	// SQLitePath is the database file path (only used when Type is "sqlite")
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"`

	// Mongo configuration (only used when Type is "mongo")
	Mongo MongoConfig `json:"mongo" yaml:"mongo"`
}

// DefaultConfig returns the default store configuration
func DefaultConfig() Config {
	return Config{
		Type:       StoreTypeMemory,
		SQLitePath: "./data/agentgraph.db",
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "agentgraph",
		},
	}
}

// WorkflowStore persists workflow definitions
type WorkflowStore interface {
	// CreateWorkflow persists a new definition. An empty ID is filled
	// with a generated UUID; CreatedAt/UpdatedAt are set when zero.
	CreateWorkflow(ctx context.Context, wf *types.Workflow) error

	// GetWorkflow retrieves a definition by ID
	GetWorkflow(ctx context.Context, id string) (*types.Workflow, error)

	// ListWorkflows returns definitions in creation order, capped at 100
	ListWorkflows(ctx context.Context) ([]*types.Workflow, error)

	// DeleteWorkflow removes a definition by ID
	DeleteWorkflow(ctx context.Context, id string) error
}

// ExecutionStore persists execution records
type ExecutionStore interface {
	// CreateExecution persists a finished run record. An empty
	// ExecutionID is filled with a generated UUID.
	CreateExecution(ctx context.Context, rec *types.ExecutionRecord) error

	// GetExecution retrieves a record by execution ID
	GetExecution(ctx context.Context, id string) (*types.ExecutionRecord, error)

	// ListExecutionsByWorkflow returns the most recent records for one
	// workflow, newest first, capped at 50
	ListExecutionsByWorkflow(ctx context.Context, workflowID string) ([]*types.ExecutionRecord, error)
}

// Store is the combined persistence interface the API layer depends on
type Store interface {
	WorkflowStore
	ExecutionStore

	// Close closes the store and releases resources
	Close() error

	// Ping checks if the store is healthy
	Ping(ctx context.Context) error
}
