// Package document holds the working-table session: documents are loaded from
// and saved to a repository, and every query runs the stateless lookup and
// aggregation packages over the stored table.
package document

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"gosheet/adapters/codec"
	"gosheet/domain/core"
	"gosheet/domain/table"
	"gosheet/internal/aggregate"
	"gosheet/internal/errors"
	"gosheet/internal/tablediff"
	"gosheet/models"
	"gosheet/ports"
)

// DefaultName is used when a document is created or imported without a name
const DefaultName = "Untitled"

// Service coordinates documents, their storage and change events
type Service struct {
	repo   ports.DocumentRepository
	events ports.EventPublisher

	// writes are serialized so a replace never interleaves with a delete
	writeMu sync.Mutex
	now     func() time.Time
}

// NewService creates a document service. events may be nil.
func NewService(repo ports.DocumentRepository, events ports.EventPublisher) *Service {
	return &Service{repo: repo, events: events, now: time.Now}
}

// Create stores a new empty document
func (s *Service) Create(ctx context.Context, name string, format codec.Format) (*models.Document, error) {
	if format == "" {
		format = codec.FormatXLSX
	}
	if _, err := codec.ParseFormat(string(format)); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	name = codec.RenameForFormat(name, format)

	return s.insert(ctx, name, format, table.Table{})
}

// Import decodes data by the extension of name and stores the result
func (s *Service) Import(ctx context.Context, name string, data []byte) (*models.Document, error) {
	format, err := codec.FormatFromFilename(name)
	if err != nil {
		return nil, err
	}
	t, err := codec.Decode(format, data)
	if err != nil {
		return nil, err
	}
	log.Printf("[Document] Imported %s: %d rows x %d columns", name, t.Rows(), t.Width())
	return s.insert(ctx, name, format, table.Trim(t))
}

func (s *Service) insert(ctx context.Context, name string, format codec.Format, t table.Table) (*models.Document, error) {
	now := s.now()
	doc := &models.Document{
		ID:        core.NewDocumentID(),
		Name:      name,
		Format:    string(format),
		Table:     t,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.writeMu.Lock()
	err := s.repo.Save(ctx, doc)
	s.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(doc, ports.EventDocumentCreated, nil)
	return doc, nil
}

// Get loads a document
func (s *Service) Get(ctx context.Context, id core.DocumentID) (*models.Document, error) {
	return s.repo.Get(ctx, id)
}

// List returns summaries of every document, most recently updated first
func (s *Service) List(ctx context.Context) ([]models.DocumentSummary, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Summary())
	}
	return out, nil
}

// Replace installs t as the document's table wholesale. Trailing empty rows
// and columns are trimmed first.
func (s *Service) Replace(ctx context.Context, id core.DocumentID, t table.Table) (*models.Document, error) {
	doc, _, err := s.Apply(ctx, id, t)
	return doc, err
}

// Apply replaces the table like Replace and also reports the row changes
// against the previous table
func (s *Service) Apply(ctx context.Context, id core.DocumentID, t table.Table) (*models.Document, tablediff.Stats, error) {
	s.writeMu.Lock()
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		s.writeMu.Unlock()
		return nil, tablediff.Stats{}, err
	}
	previous := doc.Table
	doc.Table = table.Trim(t)
	doc.UpdatedAt = s.now()
	err = s.repo.Save(ctx, doc)
	s.writeMu.Unlock()
	if err != nil {
		return nil, tablediff.Stats{}, err
	}

	changes := tablediff.Compare(previous, doc.Table)
	log.Printf("[Document] Replaced table of %s: %d rows x %d columns (+%d -%d rows)",
		id, doc.Table.Rows(), doc.Table.Width(), changes.Added, changes.Removed)
	s.publish(doc, ports.EventTableReplaced, map[string]interface{}{
		"added":   changes.Added,
		"removed": changes.Removed,
	})
	return doc, changes, nil
}

// Delete removes a document
func (s *Service) Delete(ctx context.Context, id core.DocumentID) error {
	s.writeMu.Lock()
	err := s.repo.Delete(ctx, id)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	s.publish(&models.Document{ID: id, Table: table.Table{}}, ports.EventDocumentDeleted, nil)
	return nil
}

// Export is an encoded document ready for download
type Export struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Export encodes the document's table. An empty format keeps the document's own.
func (s *Service) Export(ctx context.Context, id core.DocumentID, format string) (*Export, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = doc.Format
	}
	f, err := codec.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	data, err := codec.Encode(f, table.Trim(doc.Table))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", f)
	}
	return &Export{
		Name:     codec.RenameForFormat(doc.Name, f),
		MIMEType: f.MIMEType(),
		Data:     data,
	}, nil
}

// Summary reports the selection summary over the given 0-based rows. ok is
// false when no selected cell holds a number.
func (s *Service) Summary(ctx context.Context, id core.DocumentID, rows []int) (aggregate.Summary, bool, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return aggregate.Summary{}, false, err
	}

	selected := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r >= 0 && r < doc.Table.Rows() {
			selected = append(selected, doc.Table[r])
		}
	}
	summary, ok := aggregate.Summarize(selected)
	return summary, ok, nil
}

func (s *Service) publish(doc *models.Document, eventType string, extra map[string]interface{}) {
	if s.events == nil {
		return
	}
	data := map[string]interface{}{
		"name":        doc.Name,
		"rows":        doc.Table.Rows(),
		"columns":     doc.Table.Width(),
		"fingerprint": table.Fingerprint(doc.Table).Short(),
	}
	for k, v := range extra {
		data[k] = v
	}
	s.events.Publish(ports.DocumentEvent{
		DocumentID: doc.ID,
		EventType:  eventType,
		Data:       data,
		Timestamp:  s.now(),
	})
}
