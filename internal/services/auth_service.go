package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/models"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
)

var ErrInvalidCredentials = storage.ErrInvalidCredentials

type AuthService struct {
	store storage.ParticipantStore
}

func NewAuthService(store storage.ParticipantStore) *AuthService {
	return &AuthService{store: store}
}

// Login checks username and password. Any mismatch, unknown user included,
// is ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Participant, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := s.store.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			slog.Info("login failed", "workflow", "login", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}

	slog.Info("login succeeded", "workflow", "login", "username", username)
	return p, nil
}
