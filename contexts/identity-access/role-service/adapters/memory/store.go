package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"agora/contexts/identity-access/role-service/domain/entities"
	domainerrors "agora/contexts/identity-access/role-service/domain/errors"
	"agora/contexts/identity-access/role-service/ports"
)

// Store is the in-memory implementation of every role-service port. It backs
// local runtime modes and doubles as the test fake.
type Store struct {
	mu       sync.RWMutex
	roles    map[string]entities.DecisionRole
	bindings map[string][]string // profileID -> roleIDs
}

func NewStore() *Store {
	return &Store{
		roles:    make(map[string]entities.DecisionRole),
		bindings: make(map[string][]string),
	}
}

func (s *Store) SaveRole(_ context.Context, role entities.DecisionRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role.RoleID] = role
	return nil
}

func (s *Store) GetRole(_ context.Context, roleID string) (entities.DecisionRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[roleID]
	if !ok {
		return entities.DecisionRole{}, domainerrors.ErrRoleNotFound
	}
	return role, nil
}

func (s *Store) ListRolesByZone(_ context.Context, zone string) ([]entities.DecisionRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.DecisionRole
	for _, role := range s.roles {
		if role.Zone == zone {
			items = append(items, role)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RoleID < items[j].RoleID })
	return items, nil
}

func (s *Store) BindRole(_ context.Context, binding entities.RoleBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[binding.RoleID]; !ok {
		return domainerrors.ErrRoleNotFound
	}
	for _, bound := range s.bindings[binding.ProfileID] {
		if bound == binding.RoleID {
			return domainerrors.ErrRoleAlreadyBound
		}
	}
	s.bindings[binding.ProfileID] = append(s.bindings[binding.ProfileID], binding.RoleID)
	return nil
}

func (s *Store) ListRolesByProfile(_ context.Context, zone string, profileID string) ([]entities.DecisionRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.DecisionRole
	for _, roleID := range s.bindings[profileID] {
		role, ok := s.roles[roleID]
		if !ok {
			continue
		}
		if zone != "" && role.Zone != zone {
			continue
		}
		items = append(items, role)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RoleID < items[j].RoleID })
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Test seeding helpers.

func (s *Store) SetRole(role entities.DecisionRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role.RoleID] = role
}

func (s *Store) SetBinding(profileID string, roleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[profileID] = append(s.bindings[profileID], roleID)
}

var (
	_ ports.RoleRepository = (*Store)(nil)
	_ ports.Clock          = (*Store)(nil)
	_ ports.IDGenerator    = (*Store)(nil)
)
