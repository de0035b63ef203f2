package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant is an enrolled person. TokenID is "" until enrollment binds
// a tag; the partial unique index keeps each non-empty tag on one row.
type Participant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Surname      string    `gorm:"size:100;not null" json:"surname"`
	CNP          string    `gorm:"column:cnp;size:13;not null;uniqueIndex" json:"cnp"`
	IDCard       string    `gorm:"column:id_card;size:50;not null;uniqueIndex" json:"id_card"`
	Phone        string    `gorm:"size:10;not null;uniqueIndex" json:"phone"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Address      string    `gorm:"size:255" json:"address"`
	City         string    `gorm:"size:100" json:"city"`
	County       string    `gorm:"size:100" json:"county"`
	TokenID      string    `gorm:"size:64;not null;default:'';index:idx_participants_token_id,unique,where:token_id <> ''" json:"token_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Participant) TableName() string {
	return "participants"
}

// BeforeCreate assigns the primary key in Go so the schema carries no
// driver-specific default.
func (p *Participant) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasToken reports whether enrollment has bound a tag to the participant.
func (p *Participant) HasToken() bool {
	return p.TokenID != ""
}
