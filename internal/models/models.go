package models

import (
	"database/sql/driver"
	"time"
)

// Status is the free-form pipeline stage of an application. The constants
// below are the values the UI knows about; the column itself is not
// restricted to them.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
	StatusWithdrawn Status = "Withdrawn"
)

// Value stores the status as plain text.
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owner. Every query on this table filters on it.
	UserID uint `gorm:"not null;index" json:"user_id"`

	Company     string    `gorm:"not null" json:"company"`
	Role        string    `gorm:"not null" json:"role"`
	DateApplied time.Time `json:"date_applied"`
	Status      Status    `gorm:"default:'Applied'" json:"status"`

	JobDescription *string `gorm:"type:text" json:"job_description"`
	ResumeContent  *string `gorm:"type:text" json:"resume_content"`
	// Scratch space for AI output: analyze-jd and rejection overwrite it,
	// tailor-resume appends to it.
	Notes *string `gorm:"type:text" json:"notes"`
}

// NotesText returns the notes or "" when they were never set.
func (a *Application) NotesText() string {
	if a.Notes == nil {
		return ""
	}
	return *a.Notes
}

// ResumeText returns the stored resume or "" when it was never set.
func (a *Application) ResumeText() string {
	if a.ResumeContent == nil {
		return ""
	}
	return *a.ResumeContent
}
