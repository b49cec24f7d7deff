package distributor

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Store persists Policy and CycleProgress records keyed by vault. The
// engine performs one load and at most one save per call; serializing
// concurrent writers for the same vault is the store's job.
type Store interface {
	LoadPolicy(ctx context.Context, vault solana.PublicKey) (*Policy, error)
	SavePolicy(ctx context.Context, pol *Policy) error
	LoadProgress(ctx context.Context, vault solana.PublicKey) (*CycleProgress, error)
	SaveProgress(ctx context.Context, prog *CycleProgress) error
}

// MemoryStore is an in-memory Store for tests and embedding.
type MemoryStore struct {
	mu       sync.Mutex
	policies map[solana.PublicKey]Policy
	progress map[solana.PublicKey]CycleProgress
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		policies: make(map[solana.PublicKey]Policy),
		progress: make(map[solana.PublicKey]CycleProgress),
	}
}

func (s *MemoryStore) LoadPolicy(_ context.Context, vault solana.PublicKey) (*Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pol, ok := s.policies[vault]
	if !ok {
		return nil, ErrNotFound
	}
	return &pol, nil
}

func (s *MemoryStore) SavePolicy(_ context.Context, pol *Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[pol.Vault]; ok {
		return ErrPolicyExists
	}
	s.policies[pol.Vault] = *pol
	return nil
}

func (s *MemoryStore) LoadProgress(_ context.Context, vault solana.PublicKey) (*CycleProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prog, ok := s.progress[vault]
	if !ok {
		return nil, ErrNotFound
	}
	return &prog, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, prog *CycleProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[prog.Vault] = *prog
	return nil
}
