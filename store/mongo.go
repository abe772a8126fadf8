package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/types"
)

// MongoStore is a MongoDB-backed implementation of Store.
// Suitable for distributed production deployments. Workflows and
// executions live in their own collections.
type MongoStore struct {
	client     *mongo.Client
	workflows  *mongo.Collection
	executions *mongo.Collection
	logger     *zap.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(cfg MongoConfig, logger *zap.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	logger.Info("mongo store initialized",
		zap.String("uri", cfg.URI),
		zap.String("database", cfg.Database),
	)

	return &MongoStore{
		client:     client,
		workflows:  db.Collection("workflows"),
		executions: db.Collection("executions"),
		logger:     logger.With(zap.String("component", "mongo_store")),
	}, nil
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping checks if the server is reachable
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// CreateWorkflow persists a workflow definition
func (s *MongoStore) CreateWorkflow(ctx context.Context, wf *types.Workflow) error {
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

	if _, err := s.workflows.InsertOne(ctx, wf); err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID
func (s *MongoStore) GetWorkflow(ctx context.Context, id string) (*types.Workflow, error) {
	var wf types.Workflow
	err := s.workflows.FindOne(ctx, bson.M{"id": id}).Decode(&wf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow: %w", err)
	}
	return &wf, nil
}

// ListWorkflows returns workflows in creation order, capped at 100
func (s *MongoStore) ListWorkflows(ctx context.Context) ([]*types.Workflow, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(workflowListLimit)
	cursor, err := s.workflows.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	result := make([]*types.Workflow, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode workflows: %w", err)
	}
	return result, nil
}

// DeleteWorkflow removes a workflow by ID
func (s *MongoStore) DeleteWorkflow(ctx context.Context, id string) error {
	res, err := s.workflows.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateExecution persists an execution record
func (s *MongoStore) CreateExecution(ctx context.Context, rec *types.ExecutionRecord) error {
	if rec == nil {
		return ErrInvalidInput
	}

	if rec.ExecutionID == "" {
		rec.ExecutionID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if _, err := s.executions.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert execution: %w", err)
	}
	return nil
}

// GetExecution retrieves an execution record by ID
func (s *MongoStore) GetExecution(ctx context.Context, id string) (*types.ExecutionRecord, error) {
	var rec types.ExecutionRecord
	err := s.executions.FindOne(ctx, bson.M{"execution_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query execution: %w", err)
	}
	return &rec, nil
}

// ListExecutionsByWorkflow returns records for one workflow, newest first,
// capped at 50
func (s *MongoStore) ListExecutionsByWorkflow(ctx context.Context, workflowID string) ([]*types.ExecutionRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(executionListLimit)
	cursor, err := s.executions.Find(ctx, bson.M{"workflow_id": workflowID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	result := make([]*types.ExecutionRecord, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode executions: %w", err)
	}
	return result, nil
}
