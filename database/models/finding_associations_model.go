package models

import (
	"time"

	"github.com/google/uuid"
)

// FindingPipeline links a finding to every pipeline that reported it.
type FindingPipeline struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FindingID  int64     `json:"findingId" gorm:"not null;uniqueIndex:idx_finding_pipeline;"`
	PipelineID uuid.UUID `json:"pipelineId" gorm:"type:uuid;not null;uniqueIndex:idx_finding_pipeline;"`
}

func (f FindingPipeline) TableName() string {
	return "finding_pipelines"
}

// FindingIdentifier is the join row between a finding and an identifier. The
// position preserves the report ordering, position zero is the primary
// identifier.
type FindingIdentifier struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FindingID    int64 `json:"findingId" gorm:"not null;uniqueIndex:idx_finding_identifier;"`
	IdentifierID int64 `json:"identifierId" gorm:"not null;uniqueIndex:idx_finding_identifier;"`
	Position     int   `json:"position" gorm:"not null;default:0;"`
}

func (f FindingIdentifier) TableName() string {
	return "finding_identifiers"
}

type FindingLink struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FindingID int64  `json:"findingId" gorm:"not null;uniqueIndex:idx_finding_link;"`
	URL       string `json:"url" gorm:"type:text;not null;uniqueIndex:idx_finding_link;"`
	Name      string `json:"name" gorm:"type:text;"`
}

func (f FindingLink) TableName() string {
	return "finding_links"
}

// FindingSignature is a tracking signature used to re-identify a finding
// across code movement. Highest priority algorithm wins at read time.
type FindingSignature struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FindingID int64  `json:"findingId" gorm:"not null;uniqueIndex:idx_finding_signature;"`
	Algorithm string `json:"algorithm" gorm:"type:text;not null;uniqueIndex:idx_finding_signature;"`
	Value     string `json:"value" gorm:"type:text;not null;"`
	Priority  int    `json:"priority" gorm:"not null;default:0;"`
}

func (f FindingSignature) TableName() string {
	return "finding_signatures"
}

// VulnerabilityFlag records a scanner-provided false-positive hint.
type VulnerabilityFlag struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FindingID   int64  `json:"findingId" gorm:"not null;uniqueIndex:idx_vulnerability_flag;"`
	FlagType    string `json:"flagType" gorm:"type:text;not null;uniqueIndex:idx_vulnerability_flag;"`
	Origin      string `json:"origin" gorm:"type:text;not null;uniqueIndex:idx_vulnerability_flag;"`
	Description string `json:"description" gorm:"type:text;not null;uniqueIndex:idx_vulnerability_flag;"`
}

func (v VulnerabilityFlag) TableName() string {
	return "vulnerability_flags"
}

// IssueLink ties a vulnerability to the issue a dismissal feedback created
// for it.
type IssueLink struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	VulnerabilityID int64  `json:"vulnerabilityId" gorm:"not null;uniqueIndex:idx_issue_link;"`
	IssueID         int64  `json:"issueId" gorm:"not null;uniqueIndex:idx_issue_link;"`
	LinkType        string `json:"linkType" gorm:"type:text;not null;default:'created';"`
}

func (i IssueLink) TableName() string {
	return "issue_links"
}

type VulnerabilityRemediation struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_vuln_remediation;"`
	Checksum  string    `json:"checksum" gorm:"type:text;not null;uniqueIndex:idx_vuln_remediation;"`
	Summary   string    `json:"summary" gorm:"type:text;not null;"`
	DiffFile  []byte    `json:"-" gorm:"type:bytea;"`
}

func (v VulnerabilityRemediation) TableName() string {
	return "vulnerability_remediations"
}

// FindingRemediation joins findings to the remediations that fix them.
type FindingRemediation struct {
	ID        int64     `json:"id" gorm:"primarykey;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FindingID     int64 `json:"findingId" gorm:"not null;uniqueIndex:idx_finding_remediation;"`
	RemediationID int64 `json:"remediationId" gorm:"not null;uniqueIndex:idx_finding_remediation;"`
}

func (f FindingRemediation) TableName() string {
	return "finding_remediations"
}
