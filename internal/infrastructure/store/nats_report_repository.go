// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
)

// NatsReportRepository is the NATS KV store repository for reports.
// Keys are report UIDs, values are JSON-encoded [models.Report].
type NatsReportRepository struct {
	*NatsBaseRepository[models.Report]
}

// NewNatsReportRepository creates a new NATS KV store repository for reports.
func NewNatsReportRepository(kvStore INatsKeyValue) *NatsReportRepository {
	return &NatsReportRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Report](kvStore, "report"),
	}
}

// Create stores a new report under its UID.
func (r *NatsReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.NatsBaseRepository.Create(ctx, report.UID, report)
}

// Update replaces a stored report, guarded by the revision.
func (r *NatsReportRepository) Update(ctx context.Context, report *models.Report, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, report.UID, report, revision)
}

func reportField(report *models.Report, field string) (string, bool) {
	switch field {
	case "uid":
		return report.UID, true
	case "content_type":
		return string(report.ContentType), true
	case "content_id":
		return report.ContentID, true
	case "reporter_uid":
		return report.ReporterUID, true
	case "status":
		return string(report.Status), true
	}
	return "", false
}

// List returns one page of reports matching the request.
func (r *NatsReportRepository) List(ctx context.Context, req models.PageRequest) (*models.PageResult[*models.Report], error) {
	return listPage(ctx, r.NatsBaseRepository, req, reportField)
}
