package mocks

import (
	"context"
	"sync"
)

// Published is a message recorded by MockStore.Publish
type Published struct {
	Channel string
	Message string
}

// MockStore is an in-memory compute.Store
type MockStore struct {
	Strings   map[string]string
	Sets      map[string]map[string]struct{}
	Published []Published
	Err       error
	mu        sync.Mutex
}

func NewMockStore() *MockStore {
	return &MockStore{
		Strings: make(map[string]string),
		Sets:    make(map[string]map[string]struct{}),
	}
}

func (m *MockStore) Set(_ context.Context, key, value string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.Strings[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MockStore) Get(_ context.Context, key string) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.Strings[key]
	return value, ok, nil
}

func (m *MockStore) Del(_ context.Context, keys ...string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.Strings[k]; ok {
			delete(m.Strings, k)
			n++
		}
		if _, ok := m.Sets[k]; ok {
			delete(m.Sets, k)
			n++
		}
	}
	return n, nil
}

func (m *MockStore) SAdd(_ context.Context, key string, members ...string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.Sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.Sets[key] = set
	}
	var added int64
	for _, member := range members {
		if _, ok := set[member]; !ok {
			set[member] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (m *MockStore) SMembers(_ context.Context, key string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]string, 0, len(m.Sets[key]))
	for member := range m.Sets[key] {
		members = append(members, member)
	}
	return members, nil
}

func (m *MockStore) Publish(_ context.Context, channel, message string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	m.Published = append(m.Published, Published{Channel: channel, Message: message})
	m.mu.Unlock()
	return 0, nil
}

func (m *MockStore) Ping(_ context.Context) error {
	return m.Err
}
