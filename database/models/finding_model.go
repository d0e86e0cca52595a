package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VulnerabilityFinding is the ingested, long-lived finding record. Exactly
// one row per report uuid; re-ingestion updates it in place.
type VulnerabilityFinding struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UUID      string    `json:"uuid" gorm:"type:uuid;not null;uniqueIndex;"`
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index;"`
	ScannerID uuid.UUID `json:"scannerId" gorm:"type:uuid;not null;index;"`
	Scanner   Scanner   `json:"scanner" gorm:"foreignKey:ScannerID;references:ID;"`

	// VulnerabilityID is attached after the vulnerability row exists. Nil only
	// for the short window between the finding and vulnerability tasks.
	VulnerabilityID *int64 `json:"vulnerabilityId" gorm:"index;"`

	Name                string         `json:"name" gorm:"type:text;not null;"`
	Description         string         `json:"description" gorm:"type:text;"`
	Solution            string         `json:"solution" gorm:"type:text;"`
	Severity            string         `json:"severity" gorm:"type:text;not null;"`
	LocationFingerprint string         `json:"locationFingerprint" gorm:"type:text;"`
	Location            datatypes.JSON `json:"location" gorm:"type:jsonb;"`
	RawMetadata         datatypes.JSON `json:"rawMetadata" gorm:"type:jsonb;"`

	PrimaryIdentifierID *int64 `json:"primaryIdentifierId"`
}

func (v VulnerabilityFinding) TableName() string {
	return "vulnerability_findings"
}
