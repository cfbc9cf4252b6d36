package session

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mcc-event-hub/web-gateway/internal/models"
)

// FileStore keeps the credentials in a JSON file. Used by hubctl, where one
// operator owns one session; the sid is ignored.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Set(_ context.Context, _, token, email string) error {
	data, err := json.MarshalIndent(models.Session{Token: token, Email: email}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *FileStore) Token(_ context.Context, _ string) (string, error) {
	sess, err := s.read()
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (s *FileStore) Email(_ context.Context, _ string) (string, error) {
	sess, err := s.read()
	if err != nil {
		return "", err
	}
	return sess.Email, nil
}

func (s *FileStore) Clear(_ context.Context, _ string) error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) read() (models.Session, error) {
	var sess models.Session
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return sess, nil
	}
	if err != nil {
		return sess, err
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}
