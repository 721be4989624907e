package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Keys held for a single authorization flow
const (
	FlowKeyCodeVerifier        = "code_verifier"
	FlowKeyState               = "oauth_state"
	FlowKeyNonce               = "nonce"
	FlowKeyAccessToken         = "access_token"
	FlowKeyVerificationSuccess = "verification_success"
)

var ErrFlowKeyNotFound = errors.New("flow key not found")

// FlowStore is the short-lived key-value store for one authorization attempt.
// Entries expire with the flow TTL and are cleared once consumed.
type FlowStore interface {
	Get(ctx context.Context, flowID string, key string) (string, error)
	Set(ctx context.Context, flowID string, key string, value string) error
	Delete(ctx context.Context, flowID string, keys ...string) error
	// Take reads and removes keys in one step. Keys that are absent are
	// missing from the result, concurrent callers never see the same value twice.
	Take(ctx context.Context, flowID string, keys ...string) (map[string]string, error)
	Clear(ctx context.Context, flowID string) error
}

type memoryFlow struct {
	values    map[string]string
	expiresAt time.Time
}

type MemoryFlowStore struct {
	ttl   time.Duration
	now   func() time.Time
	mutex sync.RWMutex
	flows map[string]*memoryFlow
}

func NewMemoryFlowStore(ttl time.Duration) *MemoryFlowStore {
	return &MemoryFlowStore{
		ttl:   ttl,
		now:   time.Now,
		flows: make(map[string]*memoryFlow),
	}
}

// WithClock replaces the time source, used by tests.
func (store *MemoryFlowStore) WithClock(now func() time.Time) *MemoryFlowStore {
	store.now = now
	return store
}

func (store *MemoryFlowStore) Get(ctx context.Context, flowID string, key string) (string, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	flow, ok := store.flows[flowID]
	if !ok || store.now().After(flow.expiresAt) {
		return "", ErrFlowKeyNotFound
	}

	value, ok := flow.values[key]
	if !ok {
		return "", ErrFlowKeyNotFound
	}

	return value, nil
}

func (store *MemoryFlowStore) Set(ctx context.Context, flowID string, key string, value string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	now := store.now()

	flow, ok := store.flows[flowID]
	if !ok || now.After(flow.expiresAt) {
		flow = &memoryFlow{
			values: make(map[string]string),
		}
		store.flows[flowID] = flow
	}

	flow.values[key] = value
	flow.expiresAt = now.Add(store.ttl)
	return nil
}

func (store *MemoryFlowStore) Delete(ctx context.Context, flowID string, keys ...string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	flow, ok := store.flows[flowID]
	if !ok {
		return nil
	}

	for _, key := range keys {
		delete(flow.values, key)
	}

	if len(flow.values) == 0 {
		delete(store.flows, flowID)
	}

	return nil
}

func (store *MemoryFlowStore) Take(ctx context.Context, flowID string, keys ...string) (map[string]string, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	taken := make(map[string]string, len(keys))

	flow, ok := store.flows[flowID]
	if !ok {
		return taken, nil
	}

	if store.now().After(flow.expiresAt) {
		delete(store.flows, flowID)
		return taken, nil
	}

	for _, key := range keys {
		if value, exists := flow.values[key]; exists {
			taken[key] = value
			delete(flow.values, key)
		}
	}

	if len(flow.values) == 0 {
		delete(store.flows, flowID)
	}

	return taken, nil
}

func (store *MemoryFlowStore) Clear(ctx context.Context, flowID string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	delete(store.flows, flowID)
	return nil
}

// DeleteExpired drops every expired flow and returns how many were removed.
func (store *MemoryFlowStore) DeleteExpired() int {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	now := store.now()
	removed := 0

	for id, flow := range store.flows {
		if now.After(flow.expiresAt) {
			delete(store.flows, id)
			removed++
		}
	}

	return removed
}

func (store *MemoryFlowStore) Len() int {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	return len(store.flows)
}
