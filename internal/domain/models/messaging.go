// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the link service sends messages about.
const (
	// IndexLinkSubject is the subject for the link indexing.
	// The subject is of the form: connecthealth.index.link
	IndexLinkSubject = "connecthealth.index.link"

	// IndexReportSubject is the subject for the report indexing.
	// The subject is of the form: connecthealth.index.report
	IndexReportSubject = "connecthealth.index.report"

	// UpdateAccessLinkSubject is the subject for the link access control updates.
	// The subject is of the form: connecthealth.update_access.link
	UpdateAccessLinkSubject = "connecthealth.update_access.link"

	// DeleteAllAccessLinkSubject is the subject for the link access control deletion.
	// The subject is of the form: connecthealth.delete_all_access.link
	DeleteAllAccessLinkSubject = "connecthealth.delete_all_access.link"
)

// NATS wildcard subjects that the link service handles messages about.
const (
	// LinksAPIQueue is the queue name for the links API.
	// The queue is of the form: connecthealth.links-api.queue
	LinksAPIQueue = "connecthealth.links-api.queue"
)

// NATS specific subjects that the link service handles messages about.
const (
	// LinkSanitizeSubject is the subject for the link sanitize request.
	// The subject is of the form: connecthealth.links-api.sanitize
	LinkSanitizeSubject = "connecthealth.links-api.sanitize"

	// LinkClassifySubject is the subject for the link classify request.
	// The subject is of the form: connecthealth.links-api.classify
	LinkClassifySubject = "connecthealth.links-api.classify"

	// LinkGetTitleSubject is the subject for the link get title request.
	// The subject is of the form: connecthealth.links-api.get_title
	LinkGetTitleSubject = "connecthealth.links-api.get_title"
)

// MessageAction is a type for the action of a link service message.
type MessageAction string

// MessageAction constants for the action of a link service message.
const (
	// ActionCreated is the action for a resource creation message.
	ActionCreated MessageAction = "created"
	// ActionUpdated is the action for a resource update message.
	ActionUpdated MessageAction = "updated"
	// ActionDeleted is the action for a resource deletion message.
	ActionDeleted MessageAction = "deleted"
)

// LinkIndexerMessage is a NATS message schema for sending messages related to
// link and report CRUD operations.
type LinkIndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	// Tags is a list of tags to be set on the indexed resource for search.
	Tags []string `json:"tags"`
}

// LinkAccessMessage is the schema for the data in the access control update
// message. These are the fields the permission-sync service needs in order to
// update link permissions.
type LinkAccessMessage struct {
	UID          string `json:"uid"`
	Public       bool   `json:"public"`
	SubmitterUID string `json:"submitter_uid"`
}

// ClassifyRequestMessage is the payload of a classify request/reply message.
type ClassifyRequestMessage struct {
	URL string `json:"url"`
}

// ClassifyReplyMessage is the reply payload of a classify request/reply message.
type ClassifyReplyMessage struct {
	ClassificationResult
	EmbedURL string `json:"embed_url,omitempty"`
	Username string `json:"username,omitempty"`
}
