package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/models"
)

var _ ParticipantStore = (*MemoryStore)(nil)

// MemoryStore keeps participants in a map behind a single lock, which makes
// every operation, ReassignToken included, trivially atomic.
type MemoryStore struct {
	mu           sync.RWMutex
	participants map[string]models.Participant // keyed by username
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{participants: make(map[string]models.Participant)}
}

func (s *MemoryStore) FindByUniqueFields(_ context.Context, cnp, phone, email, idCard, username string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.collision(cnp, phone, email, idCard, username); ok {
		return &p, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Insert(_ context.Context, participant *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collision(participant.CNP, participant.Phone, participant.Email, participant.IDCard, participant.Username); ok {
		return ErrDuplicate
	}
	if participant.ID == uuid.Nil {
		participant.ID = uuid.New()
	}
	now := time.Now()
	participant.Email = strings.ToLower(participant.Email)
	participant.TokenID = ""
	participant.CreatedAt = now
	participant.UpdatedAt = now
	s.participants[participant.Username] = *participant
	return nil
}

func (s *MemoryStore) FindByCredentials(ctx context.Context, username, password string) (*models.Participant, error) {
	p, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !passwordMatches(p.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindByUsernameAndToken(_ context.Context, username, tokenID string) (*models.Participant, error) {
	if tokenID == "" {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[username]
	if !ok || p.TokenID != tokenID {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ReassignToken(_ context.Context, tokenID, username string) ([]models.Participant, error) {
	if tokenID == "" {
		return nil, ErrInvalidToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	claimant, ok := s.participants[username]
	if !ok {
		return nil, ErrNotFound
	}

	var evicted []models.Participant
	for name, p := range s.participants {
		if name != username && p.TokenID == tokenID {
			evicted = append(evicted, p)
			delete(s.participants, name)
		}
	}

	claimant.TokenID = tokenID
	claimant.UpdatedAt = time.Now()
	s.participants[username] = claimant
	return evicted, nil
}

func (s *MemoryStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.participants)), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// collision must be called with the lock held.
func (s *MemoryStore) collision(cnp, phone, email, idCard, username string) (models.Participant, bool) {
	for _, p := range s.participants {
		if p.CNP == cnp || p.Phone == phone || strings.EqualFold(p.Email, email) ||
			p.IDCard == idCard || p.Username == username {
			return p, true
		}
	}
	return models.Participant{}, false
}
