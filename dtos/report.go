package dtos

import (
	"encoding/json"
	"fmt"

	"github.com/l3montree-dev/secingest/utils"
)

type ScanType string

const (
	ScanTypeSast                 ScanType = "sast"
	ScanTypeDast                 ScanType = "dast"
	ScanTypeDependencyScanning   ScanType = "dependency_scanning"
	ScanTypeContainerScanning    ScanType = "container_scanning"
	ScanTypeSecretDetection      ScanType = "secret_detection"
	ScanTypeCoverageFuzzing      ScanType = "coverage_fuzzing"
	ScanTypeClusterImageScanning ScanType = "cluster_image_scanning"
	// ScanTypeGeneric marks manually reported vulnerabilities. They never
	// originate from a scan, so scan-driven resolution must leave them alone.
	ScanTypeGeneric ScanType = "generic"
)

// AutoFixableScanTypes lists the report types the auto-fix bot can produce
// remediation merge requests for.
var AutoFixableScanTypes = []ScanType{
	ScanTypeDependencyScanning,
	ScanTypeContainerScanning,
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
	SeverityInfo     Severity = "info"
)

// ReportIdentifier is a scanner-declared identifier of a finding, e.g.
// {type: "cve", value: "CVE-2026-1234"}.
type ReportIdentifier struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
	URL   string `json:"url,omitempty"`
}

// Fingerprint uniquely identifies an identifier within a project.
func (i ReportIdentifier) Fingerprint() string {
	return utils.HashString(fmt.Sprintf("%s:%s", i.Type, i.Value))
}

// Key is the (type, value) pair used for dropped-identifier gating.
func (i ReportIdentifier) Key() string {
	return i.Type + "|" + i.Value
}

type ReportLink struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
}

type ReportSignature struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

// Priority ranks tracking signature algorithms, higher wins at read time.
func (s ReportSignature) Priority() int {
	switch s.Algorithm {
	case "scope_offset_compressed":
		return 4
	case "scope_offset":
		return 3
	case "location":
		return 2
	default:
		return 1
	}
}

type ReportFlag struct {
	Type        string `json:"type"`
	Origin      string `json:"origin"`
	Description string `json:"description"`
}

type ReportRemediation struct {
	Summary string `json:"summary"`
	Diff    string `json:"diff"`
}

func (r ReportRemediation) Checksum() string {
	return utils.HashString(r.Diff)
}

type ReportLocation struct {
	File      string `json:"file,omitempty"`
	StartLine int    `json:"startLine,omitempty"`
	EndLine   int    `json:"endLine,omitempty"`
	Image     string `json:"image,omitempty"`
}

// ReportFinding is the parsed, report-level representation of a finding. It
// pairs one-to-one with a raw security finding via UUID.
type ReportFinding struct {
	UUID         string              `json:"uuid"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Solution     string              `json:"solution,omitempty"`
	Severity     Severity            `json:"severity"`
	Identifiers  []ReportIdentifier  `json:"identifiers"`
	Links        []ReportLink        `json:"links,omitempty"`
	Signatures   []ReportSignature   `json:"signatures,omitempty"`
	Flags        []ReportFlag        `json:"flags,omitempty"`
	Remediations []ReportRemediation `json:"remediations,omitempty"`
	Location     ReportLocation      `json:"location"`
	RawMetadata  json.RawMessage     `json:"rawMetadata,omitempty"`
}
