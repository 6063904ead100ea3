// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// ReportContentType is the kind of content a report is filed against.
type ReportContentType string

// Supported report content types.
const (
	ReportContentTypePost    ReportContentType = "post"
	ReportContentTypeComment ReportContentType = "comment"
	ReportContentTypeUser    ReportContentType = "user"
)

// IsValid checks whether the content type is one of the supported kinds.
func (t ReportContentType) IsValid() bool {
	switch t {
	case ReportContentTypePost, ReportContentTypeComment, ReportContentTypeUser:
		return true
	}
	return false
}

// ReportStatus is the review state of a report.
type ReportStatus string

// Report status lifecycle: pending -> reviewed | dismissed.
const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// IsValid checks whether the status is one of the supported states.
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusDismissed:
		return true
	}
	return false
}

// Report is a user-filed report against a post, comment, or user.
// ParentID is only set for comment reports and identifies the post the
// comment belongs to.
type Report struct {
	UID            string            `json:"uid"`
	ContentType    ReportContentType `json:"content_type"`
	ContentID      string            `json:"content_id"`
	ReporterUID    string            `json:"reporter_uid"`
	Reason         string            `json:"reason"`
	AdditionalInfo string            `json:"additional_info,omitempty"`
	ParentID       string            `json:"parent_id,omitempty"`
	Status         ReportStatus      `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Tags generates a set of tags for indexing the report.
func (r *Report) Tags() []string {
	tags := []string{}

	if r.UID != "" {
		tags = append(tags, r.UID)
	}
	if r.ContentID != "" {
		tags = append(tags, r.ContentID)
	}
	if r.ReporterUID != "" {
		tags = append(tags, r.ReporterUID)
	}
	if r.ContentType != "" {
		tags = append(tags, string(r.ContentType))
	}

	return tags
}

// CreateReportRequest is the payload for filing a new report.
type CreateReportRequest struct {
	ContentType    ReportContentType `json:"content_type"`
	ContentID      string            `json:"content_id"`
	ReporterUID    string            `json:"reporter_uid,omitempty"`
	Reason         string            `json:"reason"`
	AdditionalInfo string            `json:"additional_info,omitempty"`
	ParentID       string            `json:"parent_id,omitempty"`
}
