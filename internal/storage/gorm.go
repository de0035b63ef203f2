package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/models"
)

// Ensure GormStore satisfies the ParticipantStore interface at compile time.
var _ ParticipantStore = (*GormStore)(nil)

// GormStore persists participants through GORM. Postgres in production,
// SQLite in tests.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByUniqueFields(ctx context.Context, cnp, phone, email, idCard, username string) (*models.Participant, error) {
	var p models.Participant
	err := s.db.WithContext(ctx).
		Where("cnp = ? OR phone = ? OR LOWER(email) = LOWER(?) OR id_card = ? OR username = ?", cnp, phone, email, idCard, username).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) Insert(ctx context.Context, participant *models.Participant) error {
	participant.Email = strings.ToLower(participant.Email)
	participant.TokenID = ""

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.Participant{}).
			Where("cnp = ? OR phone = ? OR LOWER(email) = LOWER(?) OR id_card = ? OR username = ?",
				participant.CNP, participant.Phone, participant.Email, participant.IDCard, participant.Username).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(participant).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (s *GormStore) FindByCredentials(ctx context.Context, username, password string) (*models.Participant, error) {
	p, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !passwordMatches(p.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

func (s *GormStore) FindByUsername(ctx context.Context, username string) (*models.Participant, error) {
	var p models.Participant
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) FindByUsernameAndToken(ctx context.Context, username, tokenID string) (*models.Participant, error) {
	if tokenID == "" {
		return nil, ErrNotFound
	}
	var p models.Participant
	if err := s.db.WithContext(ctx).Where("username = ? AND token_id = ?", username, tokenID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) ReassignToken(ctx context.Context, tokenID, username string) ([]models.Participant, error) {
	if tokenID == "" {
		return nil, ErrInvalidToken
	}

	var evicted []models.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claimant models.Participant
		if err := tx.Clauses(lockingClause(tx)...).Where("username = ?", username).First(&claimant).Error; err != nil {
			return translate(err)
		}

		if err := tx.Clauses(lockingClause(tx)...).
			Where("token_id = ? AND username <> ?", tokenID, username).
			Find(&evicted).Error; err != nil {
			return err
		}

		for _, prior := range evicted {
			snapshot, err := json.Marshal(prior)
			if err != nil {
				return fmt.Errorf("snapshot evicted participant: %w", err)
			}
			audit := models.TokenEviction{
				TokenID:         tokenID,
				EvictedUsername: prior.Username,
				ClaimedBy:       username,
				Snapshot:        datatypes.JSON(snapshot),
			}
			if err := tx.Create(&audit).Error; err != nil {
				return err
			}
		}

		if len(evicted) > 0 {
			if err := tx.Where("token_id = ? AND username <> ?", tokenID, username).
				Delete(&models.Participant{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&claimant).Update("token_id", tokenID).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
				return ErrTokenContended
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return evicted, nil
}

func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Participant{}).Count(&n).Error
	return n, err
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Evictions lists the audit trail for a token, newest first.
func (s *GormStore) Evictions(ctx context.Context, tokenID string) ([]models.TokenEviction, error) {
	var out []models.TokenEviction
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// lockingClause returns FOR UPDATE where the dialect supports row locks.
// SQLite locks the whole database for the transaction instead.
func lockingClause(tx *gorm.DB) []clause.Expression {
	if tx.Dialector.Name() == "sqlite" {
		return nil
	}
	return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
