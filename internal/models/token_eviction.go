package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TokenEviction records a participant deleted because another participant
// claimed the tag they held.
type TokenEviction struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TokenID         string         `gorm:"size:64;not null;index" json:"token_id"`
	EvictedUsername string         `gorm:"size:100;not null;index" json:"evicted_username"`
	ClaimedBy       string         `gorm:"size:100;not null" json:"claimed_by"`
	Snapshot        datatypes.JSON `json:"snapshot"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (TokenEviction) TableName() string {
	return "token_evictions"
}

func (e *TokenEviction) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
