package ports

import (
	"time"

	"gosheet/domain/core"
)

// Document event types
const (
	EventDocumentCreated = "document_created"
	EventTableReplaced   = "table_replaced"
	EventDocumentDeleted = "document_deleted"
	EventAssistantReply  = "assistant_reply"
)

// DocumentEvent notifies subscribers that a document changed
type DocumentEvent struct {
	DocumentID core.DocumentID        `json:"document_id"`
	EventType  string                 `json:"event_type"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// EventPublisher fans document events out to subscribers
type EventPublisher interface {
	Publish(event DocumentEvent)
}
