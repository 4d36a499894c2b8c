package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/filestorages"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

//go:generate mockgen -source=session_store.go -destination=./mocks/session_store_mock.go -package=mocks
type SessionStore interface {
	// Create persists a new session. Fails with ErrSessionAlreadyExists if
	// the session ID is taken.
	Create(ctx context.Context, session *models.Session) error
	// Update overwrites the persisted session record.
	Update(ctx context.Context, session *models.Session) error
	// Get loads a session by ID. Returns ErrSessionNotFound if absent.
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	// Delete removes the session record. Returns ErrSessionNotFound if absent.
	Delete(ctx context.Context, sessionID string) error
}

type sessionStore struct {
	fileStorage filestorages.FileStorage
	dir         string
}

func NewSessionStore(fileStorage filestorages.FileStorage) SessionStore {
	return &sessionStore{fileStorage: fileStorage, dir: "sessions"}
}

func (s *sessionStore) Create(ctx context.Context, session *models.Session) error {
	return s.put(ctx, session, false)
}

func (s *sessionStore) Update(ctx context.Context, session *models.Session) error {
	return s.put(ctx, session, true)
}

func (s *sessionStore) put(ctx context.Context, session *models.Session, overwrite bool) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := s.getKey(session.SessionID)
	_, err = s.fileStorage.Put(ctx, key, bytes.NewReader(jsonData), filestorages.PutOptions{AllowOverwrite: overwrite})
	if err != nil {
		if errors.Is(err, filestorages.ErrFileAlreadyExists) {
			return ErrSessionAlreadyExists
		}
		return fmt.Errorf("failed to put session: %w", err)
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	readCloser, err := s.fileStorage.Get(ctx, s.getKey(sessionID))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	err := s.fileStorage.Delete(ctx, s.getKey(sessionID))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *sessionStore) getKey(sessionID string) string {
	return fmt.Sprintf("%s/%s.json", s.dir, sessionID)
}
