package models

import "github.com/google/uuid"

type Scanner struct {
	Model
	ProjectID  uuid.UUID `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_scanner_project_external_id;"`
	ExternalID string    `json:"externalId" gorm:"type:text;not null;uniqueIndex:idx_scanner_project_external_id;"`
	Name       string    `json:"name" gorm:"type:text;"`
}

func (s Scanner) TableName() string {
	return "scanners"
}
