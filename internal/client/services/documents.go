package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/docproc/internal/client/client"
	"github.com/dmitrijs2005/docproc/internal/client/models"
	"github.com/dmitrijs2005/docproc/internal/logging"
)

// Action names reported by DocumentStore.ActionStatus.
const (
	ActionFetchDocuments  = "fetchDocuments"
	ActionFetchDocument   = "fetchDocument"
	ActionUploadDocument  = "uploadDocument"
	ActionProcessDocument = "processDocument"
	ActionSaveField       = "saveField"
	ActionFetchStats      = "fetchStats"
)

var fallbackMessages = map[string]string{
	ActionFetchDocuments:  "Failed to fetch documents",
	ActionFetchDocument:   "Failed to fetch document",
	ActionUploadDocument:  "Failed to upload document",
	ActionProcessDocument: "Failed to process document",
	ActionSaveField:       "Failed to save field",
	ActionFetchStats:      "Failed to fetch stats",
}

// ErrSuperseded is returned when a response arrives after a newer
// FetchDocument call or a Reset; its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// DocumentCache is the offline copy of the last fetched list.
type DocumentCache interface {
	Replace(ctx context.Context, docs []models.Document) error
	Load(ctx context.Context) ([]models.Document, error)
	Clear(ctx context.Context) error
}

// DocumentState is an immutable snapshot of the document store.
type DocumentState struct {
	Documents []models.Document
	Current   *models.Document
	Stats     *models.Stats
	Loading   bool
	Error     string
	Offline   bool
}

// DocumentStore owns the document list and the document being viewed.
type DocumentStore struct {
	mu     sync.Mutex
	client client.Client
	cache  DocumentCache
	logger logging.Logger

	documents []models.Document
	current   *models.Document
	stats     *models.Stats
	err       string
	offline   bool

	tracker      *requestTracker
	latestDetail string
	generation   uint64

	observers observers[DocumentState]
}

// pending identifies one running action.
type pending struct {
	id         string
	action     string
	generation uint64
}

// NewDocumentStore builds a store. cache may be nil, which disables the
// offline fallback.
func NewDocumentStore(api client.Client, cache DocumentCache, logger logging.Logger) *DocumentStore {
	return &DocumentStore{
		client:    api,
		cache:     cache,
		logger:    logger,
		documents: []models.Document{},
		tracker:   newRequestTracker(),
	}
}

func (s *DocumentStore) Subscribe(fn func(DocumentState)) (cancel func()) {
	return s.observers.add(fn)
}

func (s *DocumentStore) Snapshot() DocumentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *DocumentStore) snapshotLocked() DocumentState {
	st := DocumentState{
		Documents: make([]models.Document, len(s.documents)),
		Loading:   s.tracker.loading(),
		Error:     s.err,
		Offline:   s.offline,
	}
	for i, d := range s.documents {
		st.Documents[i] = d.Clone()
	}
	if s.current != nil {
		c := s.current.Clone()
		st.Current = &c
	}
	if s.stats != nil {
		stats := *s.stats
		st.Stats = &stats
	}
	return st
}

func (s *DocumentStore) Documents() []models.Document { return s.Snapshot().Documents }
func (s *DocumentStore) Current() *models.Document    { return s.Snapshot().Current }
func (s *DocumentStore) Loading() bool                { return s.Snapshot().Loading }
func (s *DocumentStore) Error() string                { return s.Snapshot().Error }

// ActionStatus reports the latest request of the named action.
func (s *DocumentStore) ActionStatus(action string) ActionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.status(action)
}

func (s *DocumentStore) ClearError() {
	s.mutate(func() { s.err = "" })
}

func (s *DocumentStore) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.observers.notify(snap)
}

func (s *DocumentStore) begin(action string) pending {
	var p pending
	s.mutate(func() {
		p = pending{id: s.tracker.start(action), action: action, generation: s.generation}
		if action == ActionFetchDocument {
			s.latestDetail = p.id
		}
		s.err = ""
	})
	return p
}

// finish closes p. State is only touched when p is still relevant: no Reset
// happened since it began and, for FetchDocument, no newer call started.
// apply runs under the lock on success.
func (s *DocumentStore) finish(ctx context.Context, p pending, err error, apply func()) error {
	var msg string
	if err != nil {
		msg = client.DisplayMessage(err, fallbackMessages[p.action])
		s.logger.Warn(ctx, "document action failed", "action", p.action, "request_id", p.id, "error", err)
	}

	s.mutate(func() {
		s.tracker.finish(p.id, msg)
		if p.generation != s.generation {
			return
		}
		if p.action == ActionFetchDocument && s.latestDetail != p.id {
			return
		}
		if err != nil {
			s.err = msg
			return
		}
		if apply != nil {
			apply()
		}
	})

	if err != nil {
		return fmt.Errorf("%s: %w", p.action, err)
	}
	return nil
}

// FetchDocuments replaces the list with the backend's, keeping its order,
// and refreshes the offline cache. A response that lands after Reset is
// dropped with ErrSuperseded and never reaches the cache.
func (s *DocumentStore) FetchDocuments(ctx context.Context) error {
	p := s.begin(ActionFetchDocuments)

	docs, err := s.client.ListDocuments(ctx)
	var applied bool
	if err := s.finish(ctx, p, err, func() {
		s.documents = docs
		s.offline = false
		applied = true
	}); err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%s: %w", p.action, ErrSuperseded)
	}

	if s.cache != nil {
		if err := s.cache.Replace(ctx, docs); err != nil {
			s.logger.Warn(ctx, "failed to cache documents", "error", err)
		}
	}
	return nil
}

// LoadCached puts the offline copy of the list into the store. It is meant
// for when FetchDocuments failed with client.ErrUnavailable.
func (s *DocumentStore) LoadCached(ctx context.Context) ([]models.Document, error) {
	if s.cache == nil {
		return nil, client.ErrLocalDataNotAvailable
	}

	docs, err := s.cache.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cached documents: %w", err)
	}

	s.mutate(func() {
		s.documents = docs
		s.offline = true
	})
	return s.Documents(), nil
}

// FetchDocument loads one document as the current document. Only the most
// recent call may set it; older responses return ErrSuperseded.
func (s *DocumentStore) FetchDocument(ctx context.Context, id int64) error {
	p := s.begin(ActionFetchDocument)

	doc, err := s.client.GetDocument(ctx, id)

	var applied bool
	if err := s.finish(ctx, p, err, func() {
		s.current = doc
		applied = true
	}); err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%s %d: %w", p.action, id, ErrSuperseded)
	}
	return nil
}

// UploadDocument sends body as filename and appends the created document.
func (s *DocumentStore) UploadDocument(ctx context.Context, filename string, body io.Reader, title string) (*models.Document, error) {
	p := s.begin(ActionUploadDocument)

	doc, err := s.client.UploadDocument(ctx, filename, body, title)
	if err := s.finish(ctx, p, err, func() {
		s.documents = append(s.documents, *doc)
	}); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "document uploaded", "id", doc.ID, "file", filename)
	out := doc.Clone()
	return &out, nil
}

// ProcessDocument triggers extraction and swaps the returned document into
// the list and, when it is the one being viewed, into Current.
func (s *DocumentStore) ProcessDocument(ctx context.Context, id int64) (*models.Document, error) {
	p := s.begin(ActionProcessDocument)

	doc, err := s.client.ProcessDocument(ctx, id)
	if err := s.finish(ctx, p, err, func() {
		for i := range s.documents {
			if s.documents[i].ID == doc.ID {
				s.documents[i] = *doc
			}
		}
		if s.current != nil && s.current.ID == doc.ID {
			c := doc.Clone()
			s.current = &c
		}
	}); err != nil {
		return nil, err
	}

	out := doc.Clone()
	return &out, nil
}

// SaveField persists one extracted field and patches it in the current
// document. Nothing else in the store changes.
func (s *DocumentStore) SaveField(ctx context.Context, fieldID int64, value string, validated bool) error {
	p := s.begin(ActionSaveField)

	_, err := s.client.UpdateExtractedField(ctx, fieldID, value, validated)
	return s.finish(ctx, p, err, func() {
		if s.current == nil {
			return
		}
		if f, ok := s.current.Field(fieldID); ok {
			f.Value = value
			f.IsValidated = validated
		}
	})
}

func (s *DocumentStore) FetchStats(ctx context.Context) (*models.Stats, error) {
	p := s.begin(ActionFetchStats)

	stats, err := s.client.Stats(ctx)
	if err := s.finish(ctx, p, err, func() { s.stats = stats }); err != nil {
		return nil, err
	}

	out := *stats
	return &out, nil
}

// Reset drops everything the store holds, including the offline cache.
// Requests still in flight finish without touching the new state.
func (s *DocumentStore) Reset(ctx context.Context) {
	s.mutate(func() {
		s.generation++
		s.documents = []models.Document{}
		s.current = nil
		s.stats = nil
		s.err = ""
		s.offline = false
		s.latestDetail = ""
	})

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.Warn(ctx, "failed to clear document cache", "error", err)
		}
	}
}
