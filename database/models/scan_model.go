package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/utils"
	"gorm.io/datatypes"
)

// Scan is one security report produced by a scanner run inside a pipeline.
// The raw report findings are kept as JSONB next to the scan so the ingestion
// worker can re-read them without a second artifact fetch.
type Scan struct {
	Model
	PipelineID uuid.UUID `json:"pipelineId" gorm:"type:uuid;not null;index;"`
	Pipeline   Pipeline  `json:"pipeline" gorm:"foreignKey:PipelineID;references:ID;constraint:OnDelete:CASCADE;"`
	ProjectID  uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index;"`

	ScanType dtos.ScanType `json:"scanType" gorm:"type:text;not null;index;"`
	// Latest marks the most recent scan per (pipeline, scan type). Older
	// retries of the same job are kept but never ingested.
	Latest bool `json:"latest" gorm:"default:false;not null;"`

	// HasProcessingErrors is set by the report parser when the artifact was
	// structurally broken. Such scans are excluded from ingestion entirely.
	HasProcessingErrors bool `json:"hasProcessingErrors" gorm:"default:false;not null;"`
	// IngestionError records that at least one slice of this scan failed to
	// ingest. Written at most once per ingestion run.
	IngestionError bool `json:"ingestionError" gorm:"default:false;not null;"`

	ReportFindings datatypes.JSON `json:"reportFindings" gorm:"type:jsonb;"`

	Scanners []Scanner `json:"scanners" gorm:"many2many:scan_scanners;"`
}

func (s Scan) TableName() string {
	return "scans"
}

func (s Scan) ParsedReportFindings() ([]dtos.ReportFinding, error) {
	var findings []dtos.ReportFinding
	if len(s.ReportFindings) == 0 {
		return findings, nil
	}
	if err := json.Unmarshal(s.ReportFindings, &findings); err != nil {
		return nil, err
	}
	return findings, nil
}

// PrimaryIdentifiers returns the first identifier of every report finding,
// deduplicated by (type, value).
func (s Scan) PrimaryIdentifiers() []dtos.ReportIdentifier {
	findings, err := s.ParsedReportFindings()
	if err != nil {
		return nil
	}
	identifiers := utils.Filter(utils.Map(findings, func(f dtos.ReportFinding) dtos.ReportIdentifier {
		if len(f.Identifiers) == 0 {
			return dtos.ReportIdentifier{}
		}
		return f.Identifiers[0]
	}), func(i dtos.ReportIdentifier) bool {
		return i.Type != "" || i.Value != ""
	})
	return utils.UniqBy(identifiers, func(i dtos.ReportIdentifier) string {
		return i.Key()
	})
}
