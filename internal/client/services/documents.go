package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/docassist/internal/client/client"
	"github.com/dmitrijs2005/docassist/internal/client/events"
	"github.com/dmitrijs2005/docassist/internal/client/models"
	"github.com/dmitrijs2005/docassist/internal/logging"
)

// DocumentService tracks the documents visible to the user.
//
// Records are only ever replaced whole with what the server reported; the
// client never moves a document between statuses itself. Upload does not
// insert the new record: call List again or Track the returned document.
type DocumentService interface {
	List(ctx context.Context) ([]models.Document, error)
	Get(ctx context.Context, id string) (models.Document, error)
	Status(ctx context.Context, id string) (models.DocumentStatusInfo, error)
	Upload(ctx context.Context, filename, contentType string, content []byte) (models.Document, error)
	Delete(ctx context.Context, id string) error

	// Track inserts doc, or replaces the tracked record with the same id.
	Track(doc models.Document)

	// PollOnce checks every in-progress document and re-fetches those whose
	// status moved. It returns how many records were replaced.
	PollOnce(ctx context.Context) (int, error)
	// WatchProcessing runs PollOnce every interval until ctx is done.
	WatchProcessing(ctx context.Context, interval time.Duration) error

	// Reset empties the tracked set. List responses to requests issued
	// before it are dropped.
	Reset()

	Documents() []models.Document
	ReadyCount() int
	TotalChunks() int
}

type documentService struct {
	api       client.DocumentAPI
	hub       *events.Hub
	log       logging.Logger
	maxUpload int64

	mu         sync.Mutex
	docs       []models.Document
	issuedSeq  uint64
	appliedSeq uint64
	deleted    *tombstones
}

// NewDocumentService builds the tracker. maxUpload <= 0 disables the
// client-side size check.
func NewDocumentService(api client.DocumentAPI, hub *events.Hub, log logging.Logger, maxUpload int64) DocumentService {
	if log == nil {
		log = logging.Nop{}
	}
	return &documentService{
		api:       api,
		hub:       hub,
		log:       log.With("component", "documents"),
		maxUpload: maxUpload,
		deleted:   newTombstones(),
	}
}

// List replaces the tracked set with the server's. On failure the previous
// set is left as it was. A response older than one already applied is
// dropped, and ids deleted after the request was issued are filtered out.
func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()

	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	s.mu.Lock()
	if applied := s.appliedSeq; seq < applied {
		current := slices.Clone(s.docs)
		s.mu.Unlock()
		s.log.Debug(ctx, "dropping out-of-order list response", "seq", seq, "applied", applied)
		return current, nil
	}

	kept := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		if s.deleted.hides(d.ID, seq) {
			s.log.Debug(ctx, "list response contains a deleted document", "id", d.ID)
			continue
		}
		if !d.Status.Known() {
			s.log.Warn(ctx, "unknown document status", "id", d.ID, "status", string(d.Status))
		}
		kept = append(kept, d)
	}
	s.docs = kept
	s.appliedSeq = seq
	out := slices.Clone(kept)
	s.mu.Unlock()

	s.hub.Emit(events.DocumentsChanged)
	return out, nil
}

func (s *documentService) Get(ctx context.Context, id string) (models.Document, error) {
	doc, err := s.api.GetDocument(ctx, id)
	if err != nil {
		return models.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}

	if s.replace(doc, false) {
		s.hub.Emit(events.DocumentsChanged)
	}
	return doc, nil
}

func (s *documentService) Status(ctx context.Context, id string) (models.DocumentStatusInfo, error) {
	st, err := s.api.DocumentStatus(ctx, id)
	if err != nil {
		return models.DocumentStatusInfo{}, fmt.Errorf("document status %s: %w", id, err)
	}
	return st, nil
}

func (s *documentService) Upload(ctx context.Context, filename, contentType string, content []byte) (models.Document, error) {
	req := models.UploadRequest{Filename: filename, ContentType: contentType, Content: content}
	if err := validateRequest(req); err != nil {
		return models.Document{}, fmt.Errorf("upload: %w", err)
	}
	if s.maxUpload > 0 && int64(len(content)) > s.maxUpload {
		return models.Document{}, fmt.Errorf("upload: %w", &client.APIError{
			Kind:    client.ErrSizeLimitExceeded,
			Message: fmt.Sprintf("%s is %d bytes, limit is %d", filename, len(content), s.maxUpload),
		})
	}

	doc, err := s.api.UploadDocument(ctx, req)
	if err != nil {
		return models.Document{}, fmt.Errorf("upload: %w", err)
	}

	s.log.Info(ctx, "document uploaded", "id", doc.ID, "status", string(doc.Status))
	return doc, nil
}

// Delete removes id from the tracked set once the server confirms.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	s.mu.Lock()
	s.deleted.bury(id, s.issuedSeq)
	s.docs = slices.DeleteFunc(s.docs, func(d models.Document) bool { return d.ID == id })
	s.mu.Unlock()

	s.log.Info(ctx, "document deleted", "id", id)
	s.hub.Emit(events.DocumentsChanged)
	return nil
}

func (s *documentService) Track(doc models.Document) {
	if s.replace(doc, true) {
		s.hub.Emit(events.DocumentsChanged)
	}
}

// replace swaps in doc by id, appending it when insert is set and it is not
// tracked. An id deleted since the last applied list is not brought back.
func (s *documentService) replace(doc models.Document, insert bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleted.hides(doc.ID, s.appliedSeq) {
		return false
	}
	if i := slices.IndexFunc(s.docs, func(d models.Document) bool { return d.ID == doc.ID }); i >= 0 {
		s.docs[i] = doc
		return true
	}
	if insert {
		s.docs = append(s.docs, doc)
		return true
	}
	return false
}

func (s *documentService) PollOnce(ctx context.Context) (int, error) {
	var pending []models.Document
	for _, d := range s.Documents() {
		if d.Status.InProgress() {
			pending = append(pending, d)
		}
	}

	replaced := 0
	for _, d := range pending {
		st, err := s.Status(ctx, d.ID)
		if err != nil {
			return replaced, err
		}
		if st.Status == d.Status {
			continue
		}

		s.log.Info(ctx, "document status changed", "id", d.ID, "from", string(d.Status), "to", string(st.Status))
		if _, err := s.Get(ctx, d.ID); err != nil {
			return replaced, err
		}
		replaced++
	}
	return replaced, nil
}

func (s *documentService) WatchProcessing(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if _, err := s.PollOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn(ctx, "status poll failed", "error", err)
			}
		}
	}
}

func (s *documentService) Reset() {
	s.mu.Lock()
	s.issuedSeq++
	s.appliedSeq = s.issuedSeq
	s.docs = nil
	s.deleted = newTombstones()
	s.mu.Unlock()

	s.hub.Emit(events.DocumentsChanged)
}

func (s *documentService) Documents() []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.docs)
}

func (s *documentService) ReadyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, d := range s.docs {
		if d.Status == models.StatusReady {
			n++
		}
	}
	return n
}

func (s *documentService) TotalChunks() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, d := range s.docs {
		n += d.ChunkCount
	}
	return n
}
