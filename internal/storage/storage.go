package storage

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/models"
)

//go:generate mockgen -source=storage.go -destination=mocks/mocks.go -package=mocks ParticipantStore

var (
	// ErrNotFound indicates no participant matched the lookup.
	ErrNotFound = errors.New("participant not found")

	// ErrDuplicate indicates a uniqueness conflict on username, cnp, phone,
	// email or id card. Nothing was written.
	ErrDuplicate = errors.New("participant already exists")

	// ErrInvalidCredentials indicates a username/password mismatch.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken indicates an attempt to bind an empty token.
	ErrInvalidToken = errors.New("token id must not be empty")

	// ErrTokenContended indicates a concurrent enrollment bound the same
	// token first. Nothing was written.
	ErrTokenContended = errors.New("token bound by a concurrent enrollment")
)

// ParticipantStore captures the persistence operations the workflows need.
type ParticipantStore interface {
	// FindByUniqueFields returns the first participant colliding with any
	// of the unique fields. Email is compared case-insensitively.
	FindByUniqueFields(ctx context.Context, cnp, phone, email, idCard, username string) (*models.Participant, error)

	// Insert writes a new participant with an unset token.
	Insert(ctx context.Context, participant *models.Participant) error

	FindByCredentials(ctx context.Context, username, password string) (*models.Participant, error)
	FindByUsername(ctx context.Context, username string) (*models.Participant, error)

	// FindByUsernameAndToken never matches an empty token.
	FindByUsernameAndToken(ctx context.Context, username, tokenID string) (*models.Participant, error)

	// ReassignToken atomically deletes every other participant holding
	// tokenID and binds it to username. The deleted rows are returned.
	ReassignToken(ctx context.Context, tokenID, username string) ([]models.Participant, error)

	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
