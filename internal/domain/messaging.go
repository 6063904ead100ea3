// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// LinkIndexSender handles indexing operations for links.
type LinkIndexSender interface {
	SendIndexLink(ctx context.Context, action models.MessageAction, data *models.Link) error
	SendDeleteIndexLink(ctx context.Context, data string) error
}

// ReportIndexSender handles indexing operations for reports.
type ReportIndexSender interface {
	SendIndexReport(ctx context.Context, action models.MessageAction, data *models.Report) error
	SendDeleteIndexReport(ctx context.Context, data string) error
}

// LinkAccessSender handles access control update operations for links.
type LinkAccessSender interface {
	SendUpdateAccessLink(ctx context.Context, data models.LinkAccessMessage) error
	SendDeleteAllAccessLink(ctx context.Context, data string) error
}

// MessageSender aggregates the message publishing operations of the service.
type MessageSender interface {
	LinkIndexSender
	ReportIndexSender
	LinkAccessSender
}
