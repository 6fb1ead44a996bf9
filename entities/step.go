package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Step statuses. "working" counts as incomplete for progress purposes.
const (
	StepNotStarted = "not_started"
	StepWorking    = "working"
	StepCompleted  = "completed"
)

type Step struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	ProjectID       string         `gorm:"index;not null" json:"project_id"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `json:"description"`
	Components      datatypes.JSON `json:"components,omitempty"`
	Connections     string         `json:"connections"`
	Working         string         `json:"working"`
	Instructions    string         `json:"instructions"`
	Code            string         `json:"code"`
	Conclusion      string         `json:"conclusion"`
	DetailedContent datatypes.JSON `json:"detailed_content,omitempty"`
	OrderNumber     int            `json:"order_number"`
	StepNumber      int            `json:"step_number"`
	Status          string         `json:"status"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`

	Media []StepMedia `gorm:"foreignKey:StepID" json:"media,omitempty"`
}

func (s *Step) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = StepNotStarted
	}
	s.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.UpdatedAt = s.CreatedAt
	return
}

// ValidStepStatus reports whether st is one of the known step states.
func ValidStepStatus(st string) bool {
	return st == StepNotStarted || st == StepWorking || st == StepCompleted
}
