// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
)

// LinkRepository defines the interface for link storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	Exists(ctx context.Context, linkUID string) (bool, error)
	Get(ctx context.Context, linkUID string) (*models.Link, error)
	GetWithRevision(ctx context.Context, linkUID string) (*models.Link, uint64, error)
	Update(ctx context.Context, link *models.Link, revision uint64) error
	Delete(ctx context.Context, linkUID string, revision uint64) error

	// List returns one page of links matching the request's filter triples,
	// ordered by UID. OrderBy.Desc reverses the order; any other OrderBy.Field
	// than uid is a validation error.
	List(ctx context.Context, req models.PageRequest) (*models.PageResult[*models.Link], error)
}

// ReportRepository defines the interface for report storage operations.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	Get(ctx context.Context, reportUID string) (*models.Report, error)
	GetWithRevision(ctx context.Context, reportUID string) (*models.Report, uint64, error)
	Update(ctx context.Context, report *models.Report, revision uint64) error

	// List returns one page of reports matching the request's filter triples.
	List(ctx context.Context, req models.PageRequest) (*models.PageResult[*models.Report], error)
}
