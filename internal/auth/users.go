package auth

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("auth: username already exists")
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	ErrWeakPassword       = errors.New("auth: password must be at least 6 characters")
)

type userRecord struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}

// UserStore is a flat-file credential store: a JSON object of username to
// record, rewritten whole on every signup. Deliberately simple; this is a
// dashboard login, not an identity system.
type UserStore struct {
	path string

	mu    sync.Mutex
	users map[string]userRecord
}

func OpenUserStore(path string) (*UserStore, error) {
	s := &UserStore{path: path, users: make(map[string]userRecord)}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &s.users); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *UserStore) Signup(username, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || email == "" {
		return ErrInvalidCredentials
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return ErrUserExists
	}
	s.users[username] = userRecord{Email: email, PasswordHash: string(hash)}
	return s.flushLocked()
}

func (s *UserStore) Verify(username, password string) error {
	s.mu.Lock()
	rec, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *UserStore) flushLocked() error {
	b, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
