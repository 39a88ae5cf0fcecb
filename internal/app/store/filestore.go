package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
)

const filePermissions = 0644

// FileStore keeps all users in memory and mirrors every change to a JSON file.
// The file format is the legacy flat user array (garbage.users.json), so an
// existing user list can be carried over unchanged.
type FileStore struct {
	path string

	mu    sync.RWMutex
	users map[int64]*user.User
}

// NewFileStore loads the user file at path, creating the parent directory if
// needed. A missing file is not an error; the store starts empty.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		users: make(map[int64]*user.User),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create user data directory: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read user file: %w", err)
	}

	var list []*user.User
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse user file %s: %w", path, err)
	}
	for _, u := range list {
		s.users[u.ID] = u
	}

	return s, nil
}

// Get returns a copy of the stored user, so in-flight conversation mutations
// only become visible to other readers after Save.
func (s *FileStore) Get(ctx context.Context, id int64) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errs.NewError(errs.ErrUserDoesNotExist)
	}
	cp := *u
	return &cp, nil
}

// List returns copies of all registered users ordered by chat id.
func (s *FileStore) List(ctx context.Context) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create registers a new user and persists the list.
func (s *FileStore) Create(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return errs.NewError(errs.ErrUserAlreadyExists)
	}

	cp := *u
	s.users[u.ID] = &cp
	return s.persistLocked()
}

// Delete removes a registered user and persists the list.
func (s *FileStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errs.NewError(errs.ErrUserDoesNotExist)
	}

	delete(s.users, id)
	return s.persistLocked()
}

// Save persists the current state of an existing user.
func (s *FileStore) Save(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return errs.NewError(errs.ErrUserDoesNotExist)
	}

	cp := *u
	s.users[u.ID] = &cp
	return s.persistLocked()
}

// persistLocked writes the full user list to disk. Caller must hold the write lock.
// The file is written to a temp path first and renamed into place, so a crash
// mid-write never truncates the user list.
func (s *FileStore) persistLocked() error {
	list := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user list: %w", err)
	}

	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write user file: %w", err)
	}

	return os.Rename(tmpFile, s.path)
}
