package models

import (
	"time"

	"github.com/google/uuid"
)

type VulnerabilityState string

const (
	VulnerabilityStateDetected  VulnerabilityState = "detected"
	VulnerabilityStateConfirmed VulnerabilityState = "confirmed"
	VulnerabilityStateResolved  VulnerabilityState = "resolved"
	VulnerabilityStateDismissed VulnerabilityState = "dismissed"
)

// Vulnerability is the user-facing record a finding materializes into. State
// transitions are driven by ingestion (detected, re-detected) and by the
// resolution services.
type Vulnerability struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index;"`

	Title      string             `json:"title" gorm:"type:text;not null;"`
	Severity   string             `json:"severity" gorm:"type:text;not null;"`
	ReportType string             `json:"reportType" gorm:"type:text;not null;index;"`
	State      VulnerabilityState `json:"state" gorm:"type:text;not null;default:'detected';index;"`

	ResolvedAt  *time.Time `json:"resolvedAt"`
	DismissedAt *time.Time `json:"dismissedAt"`

	PresentOnDefaultBranch bool `json:"presentOnDefaultBranch" gorm:"default:true;not null;"`
}

func (v Vulnerability) TableName() string {
	return "vulnerabilities"
}

// VulnerabilityRead is the denormalized read-model row kept in sync with its
// vulnerability. One row per vulnerability.
type VulnerabilityRead struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	VulnerabilityID int64         `json:"vulnerabilityId" gorm:"not null;uniqueIndex;"`
	Vulnerability   Vulnerability `json:"-" gorm:"foreignKey:VulnerabilityID;references:ID;constraint:OnDelete:CASCADE;"`

	ProjectID  uuid.UUID          `json:"projectId" gorm:"type:uuid;not null;index;"`
	ScannerID  uuid.UUID          `json:"scannerId" gorm:"type:uuid;not null;"`
	UUID       string             `json:"uuid" gorm:"type:uuid;not null;"`
	Severity   string             `json:"severity" gorm:"type:text;not null;"`
	ReportType string             `json:"reportType" gorm:"type:text;not null;default:'';index;"`
	State      VulnerabilityState `json:"state" gorm:"type:text;not null;default:'detected';index;"`

	// ResolvedOnDefaultBranch is flipped by the mark-as-resolved pass when the
	// latest default-branch pipeline no longer reports the vulnerability.
	ResolvedOnDefaultBranch bool `json:"resolvedOnDefaultBranch" gorm:"default:false;not null;index;"`
}

func (v VulnerabilityRead) TableName() string {
	return "vulnerability_reads"
}
