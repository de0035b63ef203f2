package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/access"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/models"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
)

// Enrollments starts token enrollment for a newly stored participant.
// *access.Enroller implements it.
type Enrollments interface {
	Start(username string) *access.Task
}

type RegisterInput struct {
	Name     string
	Surname  string
	CNP      string
	IDCard   string
	Phone    string
	Email    string
	Username string
	Password string
	Address  string
	City     string
	County   string
}

type RegistrationService struct {
	store       storage.ParticipantStore
	enrollments Enrollments
	metrics     *metrics.Metrics
}

func NewRegistrationService(store storage.ParticipantStore, enrollments Enrollments, m *metrics.Metrics) *RegistrationService {
	return &RegistrationService{store: store, enrollments: enrollments, metrics: m}
}

// Register validates in, stores the participant with no token and starts
// enrollment in the background. Validation and duplicate errors leave the
// store untouched.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*models.Participant, *access.Task, error) {
	in.Email = strings.ToLower(in.Email)

	for _, check := range []error{ValidateCNP(in.CNP), ValidatePhone(in.Phone), ValidateEmail(in.Email)} {
		if check != nil {
			s.metrics.IncRegistration("invalid")
			return nil, nil, check
		}
	}
	if in.Username == "" || in.Password == "" {
		s.metrics.IncRegistration("invalid")
		return nil, nil, &ValidationError{Field: "username", Message: "Username and password are required."}
	}

	existing, err := s.store.FindByUniqueFields(ctx, in.CNP, in.Phone, in.Email, in.IDCard, in.Username)
	switch {
	case err == nil:
		slog.Info("duplicate registration", "workflow", "register", "username", in.Username, "existing_username", existing.Username)
		s.metrics.IncRegistration("duplicate")
		return nil, nil, fmt.Errorf("register %s: %w", in.Username, storage.ErrDuplicate)
	case !errors.Is(err, storage.ErrNotFound):
		s.metrics.IncRegistration("error")
		return nil, nil, fmt.Errorf("failed to check duplicates: %w", err)
	}

	hash, err := storage.HashPassword(in.Password)
	if err != nil {
		s.metrics.IncRegistration("error")
		return nil, nil, err
	}

	p := &models.Participant{
		Username:     in.Username,
		Name:         in.Name,
		Surname:      in.Surname,
		CNP:          in.CNP,
		IDCard:       in.IDCard,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		City:         in.City,
		County:       in.County,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			s.metrics.IncRegistration("duplicate")
			return nil, nil, fmt.Errorf("register %s: %w", in.Username, err)
		}
		s.metrics.IncRegistration("error")
		return nil, nil, fmt.Errorf("failed to create participant: %w", err)
	}

	s.metrics.IncRegistration("created")
	slog.Info("participant registered", "workflow", "register", "username", p.Username)

	task := s.enrollments.Start(p.Username)
	return p, task, nil
}
