// Package jsonstore persists the full application state as one JSON file.
// Writes are atomic (write to a temp file, then rename over the original) and
// every save keeps a timestamped backup, so the event history is never left
// half-written.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"splitledger/internal/models"
)

type state struct {
	Users       []models.User       `json:"users"`
	Groups      []models.Group      `json:"groups"`
	Expenses    []models.Expense    `json:"expenses"`
	Settlements []models.Settlement `json:"settlements"`
}

type Store struct {
	path string

	mu    sync.Mutex
	state state
}

// Open loads the store at path, creating parent directories as needed. A
// missing file starts empty; an unreadable one is an error, not a silent
// reset.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("store file %s is corrupt: %w", path, err)
	}
	return s, nil
}

// save snapshots the current state to disk. Callers must hold s.mu.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp store file: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		bdir := filepath.Join(filepath.Dir(s.path), "backups")
		if err := os.MkdirAll(bdir, 0755); err == nil {
			stamp := time.Now().UTC().Format("20060102-150405")
			if prev, err := os.ReadFile(s.path); err == nil {
				os.WriteFile(filepath.Join(bdir, fmt.Sprintf("store-%s.json", stamp)), prev, 0644)
			}
		}
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// AppendExpense durably adds one expense record. On write failure the
// in-memory state is rolled back so the append never half-happens.
func (s *Store) AppendExpense(exp models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Expenses = append(s.state.Expenses, exp)
	if err := s.save(); err != nil {
		s.state.Expenses = s.state.Expenses[:len(s.state.Expenses)-1]
		return err
	}
	return nil
}

func (s *Store) AppendSettlement(st models.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Settlements = append(s.state.Settlements, st)
	if err := s.save(); err != nil {
		s.state.Settlements = s.state.Settlements[:len(s.state.Settlements)-1]
		return err
	}
	return nil
}

// Expenses returns all expense records in insertion order.
func (s *Store) Expenses() ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Expense, len(s.state.Expenses))
	copy(out, s.state.Expenses)
	return out, nil
}

func (s *Store) Settlements() ([]models.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Settlement, len(s.state.Settlements))
	copy(out, s.state.Settlements)
	return out, nil
}

func (s *Store) AddUser(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.Users {
		if u.Username == user.Username {
			return models.ErrUserExists
		}
	}
	s.state.Users = append(s.state.Users, user)
	if err := s.save(); err != nil {
		s.state.Users = s.state.Users[:len(s.state.Users)-1]
		return err
	}
	return nil
}

func (s *Store) GetUser(username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, models.ErrUserNotFound
}

func (s *Store) Users() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.User, len(s.state.Users))
	copy(out, s.state.Users)
	return out, nil
}

func (s *Store) AddGroup(group models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.state.Groups {
		if g.ID == group.ID {
			return models.ErrGroupExists
		}
	}
	s.state.Groups = append(s.state.Groups, group)
	if err := s.save(); err != nil {
		s.state.Groups = s.state.Groups[:len(s.state.Groups)-1]
		return err
	}
	return nil
}

func (s *Store) GetGroup(id string) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.state.Groups {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Group{}, models.ErrGroupNotFound
}

func (s *Store) Groups() ([]models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Group, len(s.state.Groups))
	copy(out, s.state.Groups)
	return out, nil
}
