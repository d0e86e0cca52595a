package models

import "github.com/google/uuid"

// IssueFeedback is a user-created issue referencing a finding by its report
// uuid. Ingestion links these to the vulnerability rows once they exist.
type IssueFeedback struct {
	Model
	ProjectID    uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index;"`
	FindingUUID  string    `json:"findingUuid" gorm:"type:uuid;not null;index;"`
	IssueID      int64     `json:"issueId" gorm:"not null;"`
	FeedbackType string    `json:"feedbackType" gorm:"type:text;not null;default:'issue';"`
}

func (i IssueFeedback) TableName() string {
	return "issue_feedbacks"
}
