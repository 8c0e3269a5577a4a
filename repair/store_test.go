package repair

import (
	"context"
	"errors"
	"sync"

	"go.stackadmin.dev/authkeys/repair/types"
)

var errNotFound = errors.New("deployment not found")

// memStore is an in-memory DeploymentStore.
type memStore struct {
	mu         sync.Mutex
	envs       map[string]map[string]string
	updates    [][]types.VariableUpdate
	restarts   int
	updateErr  error
	restartErr error
}

func newMemStore(id string, env map[string]string) *memStore {
	return &memStore{envs: map[string]map[string]string{id: env}}
}

func (s *memStore) GetEnvironment(_ context.Context, deploymentID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, ok := s.envs[deploymentID]
	if !ok {
		return nil, errNotFound
	}
	copied := make(map[string]string, len(env))
	for k, v := range env {
		copied[k] = v
	}
	return copied, nil
}

func (s *memStore) UpdateVariables(_ context.Context, deploymentID string, updates []types.VariableUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}
	env, ok := s.envs[deploymentID]
	if !ok {
		return errNotFound
	}
	for _, u := range updates {
		env[u.Name] = u.Value
	}
	s.updates = append(s.updates, updates)
	return nil
}

func (s *memStore) Restart(_ context.Context, deploymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restartErr != nil {
		return s.restartErr
	}
	s.restarts++
	return nil
}

func (s *memStore) get(deploymentID, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.envs[deploymentID][name]
}

// healthFunc adapts a function to HealthChecker.
type healthFunc func(ctx context.Context, baseURL, apiKey string) error

func (f healthFunc) CheckHealth(ctx context.Context, baseURL, apiKey string) error {
	return f(ctx, baseURL, apiKey)
}
