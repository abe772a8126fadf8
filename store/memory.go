package store

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caldera-labs/agentgraph/types"
)

// MemoryStore is an in-memory implementation of Store.
// Suitable for development and testing. Data is lost on restart.
type MemoryStore struct {
	workflows     map[string]*types.Workflow
	workflowOrder []string
	executions    map[string]*types.ExecutionRecord
	mu            sync.RWMutex
	closed        bool
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workflows:  make(map[string]*types.Workflow),
		executions: make(map[string]*types.ExecutionRecord),
	}
}

// Close closes the store
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping checks if the store is healthy
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// CreateWorkflow persists a workflow definition
func (s *MemoryStore) CreateWorkflow(ctx context.Context, wf *types.Workflow) error {
	if wf == nil {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if wf.ID == "" {
		wf.ID = uuid.New().String()
	}
	now := time.Now()
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = now
	}
	wf.UpdatedAt = now

	if _, exists := s.workflows[wf.ID]; !exists {
		s.workflowOrder = append(s.workflowOrder, wf.ID)
	}
	s.workflows[wf.ID] = cloneWorkflow(wf)

	return nil
}

// GetWorkflow retrieves a workflow by ID
func (s *MemoryStore) GetWorkflow(ctx context.Context, id string) (*types.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	wf, ok := s.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneWorkflow(wf), nil
}

// ListWorkflows returns workflows in creation order, capped at 100
func (s *MemoryStore) ListWorkflows(ctx context.Context) ([]*types.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	result := make([]*types.Workflow, 0, len(s.workflowOrder))
	for _, id := range s.workflowOrder {
		result = append(result, cloneWorkflow(s.workflows[id]))
		if len(result) >= workflowListLimit {
			break
		}
	}
	return result, nil
}

// DeleteWorkflow removes a workflow by ID
func (s *MemoryStore) DeleteWorkflow(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, ok := s.workflows[id]; !ok {
		return ErrNotFound
	}
	delete(s.workflows, id)
	for i, wid := range s.workflowOrder {
		if wid == id {
			s.workflowOrder = append(s.workflowOrder[:i], s.workflowOrder[i+1:]...)
			break
		}
	}
	return nil
}

// CreateExecution persists an execution record
func (s *MemoryStore) CreateExecution(ctx context.Context, rec *types.ExecutionRecord) error {
	if rec == nil {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if rec.ExecutionID == "" {
		rec.ExecutionID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.executions[rec.ExecutionID] = cloneExecution(rec)

	return nil
}

// GetExecution retrieves an execution record by ID
func (s *MemoryStore) GetExecution(ctx context.Context, id string) (*types.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rec, ok := s.executions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneExecution(rec), nil
}

// ListExecutionsByWorkflow returns records for one workflow, newest first,
// capped at 50
func (s *MemoryStore) ListExecutionsByWorkflow(ctx context.Context, workflowID string) ([]*types.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	result := make([]*types.ExecutionRecord, 0)
	for _, rec := range s.executions {
		if rec.WorkflowID == workflowID {
			result = append(result, cloneExecution(rec))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > executionListLimit {
		result = result[:executionListLimit]
	}
	return result, nil
}

// cloneWorkflow returns an independent copy so callers cannot mutate the
// stored value. The other backends decode fresh values on every read and
// this store keeps the same contract.
func cloneWorkflow(wf *types.Workflow) *types.Workflow {
	out := *wf
	out.Nodes = slices.Clone(wf.Nodes)
	for i := range out.Nodes {
		out.Nodes[i].Config = maps.Clone(out.Nodes[i].Config)
	}
	out.Edges = slices.Clone(wf.Edges)
	return &out
}

// cloneExecution returns an independent copy of an execution record.
func cloneExecution(rec *types.ExecutionRecord) *types.ExecutionRecord {
	out := *rec
	out.Steps = slices.Clone(rec.Steps)
	return &out
}
