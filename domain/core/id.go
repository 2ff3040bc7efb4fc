package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	DocumentID ID
	MessageID  ID
	TaskID     ID
)

func NewDocumentID() DocumentID { return DocumentID(NewID()) }
func NewMessageID() MessageID   { return MessageID(NewID()) }
func NewTaskID() TaskID         { return TaskID(NewID()) }

func (id DocumentID) String() string { return ID(id).String() }
func (id MessageID) String() string  { return ID(id).String() }
func (id TaskID) String() string     { return ID(id).String() }

// ParseDocumentID parses a string into DocumentID
func ParseDocumentID(s string) (DocumentID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("document ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("document ID %q is not a valid UUID: %w", s, err)
	}
	return DocumentID(s), nil
}
