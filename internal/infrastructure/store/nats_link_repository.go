// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"strconv"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
)

// NatsLinkRepository is the NATS KV store repository for links.
// Keys are link UIDs, values are JSON-encoded [models.Link].
type NatsLinkRepository struct {
	*NatsBaseRepository[models.Link]
}

// NewNatsLinkRepository creates a new NATS KV store repository for links.
func NewNatsLinkRepository(kvStore INatsKeyValue) *NatsLinkRepository {
	return &NatsLinkRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Link](kvStore, "link"),
	}
}

// Create stores a new link under its UID.
func (r *NatsLinkRepository) Create(ctx context.Context, link *models.Link) error {
	return r.NatsBaseRepository.Create(ctx, link.UID, link)
}

// Update replaces a stored link, guarded by the revision.
func (r *NatsLinkRepository) Update(ctx context.Context, link *models.Link, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, link.UID, link, revision)
}

func linkField(link *models.Link, field string) (string, bool) {
	switch field {
	case "uid":
		return link.UID, true
	case "url":
		return link.URL, true
	case "submitter_uid":
		return link.SubmitterUID, true
	case "platform":
		return link.Platform, true
	case "is_known_platform":
		return strconv.FormatBool(link.IsKnownPlatform), true
	case "username":
		return link.Username, true
	}
	return "", false
}

// List returns one page of links matching the request.
func (r *NatsLinkRepository) List(ctx context.Context, req models.PageRequest) (*models.PageResult[*models.Link], error) {
	return listPage(ctx, r.NatsBaseRepository, req, linkField)
}
