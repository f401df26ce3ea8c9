// Package documents manages the document list of the acting user: loading, upload, edits,
// status review, bulk operations and preview/download resolution.
package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/session"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=manager.go -destination=../mocks/documents.go -package=mocks

type DocumentsAPI interface {
	ListDocuments(ctx context.Context, patientID, doctorID string) ([]entity.Document, error)
	DoctorDocuments(ctx context.Context, doctorID string) ([]entity.Document, error)
	DocumentByID(ctx context.Context, id string) (entity.Document, error)
	CreateDocument(ctx context.Context, doc entity.NewDocument) (entity.Document, error)
	UpdateDocument(ctx context.Context, id string, changes entity.DocumentChanges) (entity.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	UpdateDocumentStatus(ctx context.Context, id, doctorID string, status entity.DocStatus) (entity.Document, error)
	DownloadInfo(ctx context.Context, id string) (entity.DownloadInfo, error)
	PreviewURL(ctx context.Context, id string) (string, error)
}

type SessionReader interface {
	Snapshot() session.Snapshot
}

const defaultBulkConcurrency = 8

type Config struct {
	OfficeViewerURL string
	BulkConcurrency int
	Rewriter        URLRewriter
}

type Manager struct {
	api      DocumentsAPI
	sessions SessionReader
	events   session.Publisher
	cfg      Config
	now      func() time.Time

	mu   sync.RWMutex
	docs []entity.Document
}

func NewManager(api DocumentsAPI, sessions SessionReader, events session.Publisher, cfg Config) *Manager {
	if cfg.BulkConcurrency < 1 {
		cfg.BulkConcurrency = defaultBulkConcurrency
	}

	if cfg.Rewriter == nil {
		cfg.Rewriter = NoopRewriter{}
	}

	return &Manager{
		api:      api,
		sessions: sessions,
		events:   events,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Documents returns the currently loaded list.
func (m *Manager) Documents() []entity.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.docs)
}

// Visible returns the loaded list narrowed by c.
func (m *Manager) Visible(c Criteria) []entity.Document {
	return Filter(m.Documents(), c)
}

// List loads the accessible documents. Without explicit filters a user lacking the all-scope read grant
// is narrowed to their own documents as patient, or their linked ones as doctor.
func (m *Manager) List(ctx context.Context, patientID, doctorID string) ([]entity.Document, error) {
	snap := m.sessions.Snapshot()

	if patientID == "" && doctorID == "" && !snap.Permissions.Allows(readAll) {
		switch snap.ActiveRole.Name {
		case entity.RolePatient:
			patientID = snap.User.ID
		case entity.RoleDoctor:
			doctorID = snap.User.ID
		}
	}

	err := authorize(snap, entity.ActionRead, patientID, doctorID)
	if err != nil {
		return nil, err
	}

	docs, err := m.api.ListDocuments(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}

	m.replaceAll(docs)

	return slices.Clone(docs), nil
}

func (m *Manager) ListForDoctor(ctx context.Context, doctorID string) ([]entity.Document, error) {
	snap := m.sessions.Snapshot()

	if doctorID == "" {
		doctorID = snap.User.ID
	}

	err := authorize(snap, entity.ActionRead, "", doctorID)
	if err != nil {
		return nil, err
	}

	docs, err := m.api.DoctorDocuments(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	m.replaceAll(docs)

	return slices.Clone(docs), nil
}

func (m *Manager) Get(ctx context.Context, id string) (entity.Document, error) {
	snap := m.sessions.Snapshot()

	if doc, ok := m.lookup(id); ok {
		if err := authorizeDoc(snap, entity.ActionRead, doc); err != nil {
			return entity.Document{}, err
		}
	}

	doc, err := m.api.DocumentByID(ctx, id)
	if err != nil {
		return entity.Document{}, err
	}

	err = authorizeDoc(snap, entity.ActionRead, doc)
	if err != nil {
		return entity.Document{}, err
	}

	m.upsert(doc)

	return doc, nil
}

// Upload validates input locally, creates the document and appends it to the loaded list.
// A missing doctor defaults to the acting doctor and a missing patient to the acting patient.
func (m *Manager) Upload(ctx context.Context, in entity.NewDocument) (entity.Document, error) {
	snap := m.sessions.Snapshot()

	in.Name = strings.TrimSpace(in.Name)
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.DoctorID = strings.TrimSpace(in.DoctorID)

	switch {
	case in.DoctorID == "" && snap.ActiveRole.Name == entity.RoleDoctor:
		in.DoctorID = snap.User.ID
	case in.PatientID == "" && snap.ActiveRole.Name == entity.RolePatient:
		in.PatientID = snap.User.ID
	}

	if in.Type == "" {
		in.Type = entity.DocTypeOther
	}

	if in.Status == "" {
		in.Status = entity.DocStatusPending
	}

	switch {
	case in.Name == "":
		return entity.Document{}, entity.NewValidationError("documentName", "Please enter a document name")
	case in.PatientID == "":
		return entity.Document{}, entity.NewValidationError("patientId", "Please select a patient")
	case in.DoctorID == "":
		return entity.Document{}, entity.NewValidationError("doctorId", "Please select a doctor")
	case in.File == nil:
		return entity.Document{}, entity.NewValidationError("file", "Please select a file to upload")
	case !in.Status.IsKnown():
		return entity.Document{}, entity.NewValidationError("status", "Please choose a valid status")
	}

	err := authorize(snap, entity.ActionCreate, in.PatientID, in.DoctorID)
	if err != nil {
		return entity.Document{}, err
	}

	doc, err := m.api.CreateDocument(ctx, in)
	if err != nil {
		return entity.Document{}, err
	}

	m.upsert(doc)
	m.publish(ctx, snap, entity.EventDocumentCreated, doc.ID, map[string]string{"type": string(doc.Type)})

	slog.InfoContext(ctx, "document uploaded", "document_id", doc.ID, "patient_id", doc.PatientID)

	return doc, nil
}

// Update sends only the fields that differ from the current document. It reports false,
// without a network call, when nothing differs. A new file always counts as a change.
func (m *Manager) Update(ctx context.Context, id string, changes entity.DocumentChanges) (entity.Document, bool, error) {
	snap := m.sessions.Snapshot()

	current, err := m.current(ctx, id)
	if err != nil {
		return entity.Document{}, false, err
	}

	diff := Diff(current, changes)
	if diff.IsEmpty() {
		return current, false, nil
	}

	err = validateChanges(diff)
	if err != nil {
		return entity.Document{}, false, err
	}

	err = authorizeDoc(snap, entity.ActionUpdate, current)
	if err != nil {
		return entity.Document{}, false, err
	}

	doc, err := m.api.UpdateDocument(ctx, id, diff)
	if err != nil {
		return entity.Document{}, false, err
	}

	m.upsert(doc)
	m.publish(ctx, snap, entity.EventDocumentUpdated, doc.ID, nil)

	return doc, true, nil
}

// UpdateStatus records a review decision. The reviewing doctor is the acting user when the active role
// is doctor, the assigned doctor otherwise.
func (m *Manager) UpdateStatus(ctx context.Context, id string, status entity.DocStatus) (entity.Document, error) {
	snap := m.sessions.Snapshot()

	if !status.IsKnown() {
		return entity.Document{}, entity.NewValidationError("status", "Please choose a valid status")
	}

	current, err := m.current(ctx, id)
	if err != nil {
		return entity.Document{}, err
	}

	err = authorizeDoc(snap, entity.ActionReview, current)
	if err != nil {
		return entity.Document{}, err
	}

	doctorID := current.DoctorID
	if snap.ActiveRole.Name == entity.RoleDoctor {
		doctorID = snap.User.ID
	}

	doc, err := m.api.UpdateDocumentStatus(ctx, id, doctorID, status)
	if err != nil {
		return entity.Document{}, err
	}

	m.upsert(doc)
	m.publish(ctx, snap, entity.EventDocumentStatus, doc.ID, map[string]string{
		"from": string(current.Status),
		"to":   string(doc.Status),
	})

	return doc, nil
}

// Delete removes a document. A document that is already gone counts as deleted.
func (m *Manager) Delete(ctx context.Context, id string) error {
	snap := m.sessions.Snapshot()

	err := m.authorizeLocal(snap, entity.ActionDelete, id)
	if err != nil {
		return err
	}

	return m.delete(ctx, snap, id)
}

func (m *Manager) delete(ctx context.Context, snap session.Snapshot, id string) error {
	err := m.api.DeleteDocument(ctx, id)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return err
	}

	m.remove(id)
	m.publish(ctx, snap, entity.EventDocumentDeleted, id, nil)

	return nil
}

func (m *Manager) current(ctx context.Context, id string) (entity.Document, error) {
	if doc, ok := m.lookup(id); ok {
		return doc, nil
	}

	doc, err := m.api.DocumentByID(ctx, id)
	if err != nil {
		return entity.Document{}, err
	}

	m.upsert(doc)

	return doc, nil
}

// authorizeLocal checks against the loaded copy of id, or the all scope when it is not loaded.
func (m *Manager) authorizeLocal(snap session.Snapshot, action, id string) error {
	doc, ok := m.lookup(id)
	if !ok {
		return authorize(snap, action, "", "")
	}

	return authorizeDoc(snap, action, doc)
}

func (m *Manager) lookup(id string) (entity.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := slices.IndexFunc(m.docs, func(d entity.Document) bool { return d.ID == id })
	if i < 0 {
		return entity.Document{}, false
	}

	return m.docs[i], true
}

func (m *Manager) replaceAll(docs []entity.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = slices.Clone(docs)
}

func (m *Manager) upsert(doc entity.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.docs, func(d entity.Document) bool { return d.ID == doc.ID })
	if i < 0 {
		m.docs = append(m.docs, doc)
		return
	}

	m.docs[i] = doc
}

func (m *Manager) remove(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = slices.DeleteFunc(m.docs, func(d entity.Document) bool { return slices.Contains(ids, d.ID) })
}

func (m *Manager) publish(ctx context.Context, snap session.Snapshot, typ entity.EventType, docID string, attrs map[string]string) {
	if m.events == nil {
		return
	}

	m.events.Publish(ctx, entity.Event{
		Type:       typ,
		UserID:     snap.User.ID,
		RoleID:     snap.ActiveRole.ID,
		DocumentID: docID,
		Attributes: attrs,
		OccurredAt: m.now().UTC(),
	})
}

// Diff drops the fields of changes that equal the current values of doc.
func Diff(doc entity.Document, changes entity.DocumentChanges) entity.DocumentChanges {
	var out entity.DocumentChanges

	if changes.Name != nil && strings.TrimSpace(*changes.Name) != doc.Name {
		name := strings.TrimSpace(*changes.Name)
		out.Name = &name
	}

	if changes.Type != nil && *changes.Type != doc.Type {
		out.Type = changes.Type
	}

	if changes.Status != nil && *changes.Status != doc.Status {
		out.Status = changes.Status
	}

	if changes.PatientID != nil && *changes.PatientID != doc.PatientID {
		out.PatientID = changes.PatientID
	}

	if changes.DoctorID != nil && *changes.DoctorID != doc.DoctorID {
		out.DoctorID = changes.DoctorID
	}

	out.File = changes.File

	return out
}

func validateChanges(c entity.DocumentChanges) error {
	if c.Name != nil && *c.Name == "" {
		return entity.NewValidationError("documentName", "Please enter a document name")
	}

	if c.PatientID != nil && strings.TrimSpace(*c.PatientID) == "" {
		return entity.NewValidationError("patientId", "Please select a patient")
	}

	if c.Status != nil && !c.Status.IsKnown() {
		return entity.NewValidationError("status", "Please choose a valid status")
	}

	return nil
}

var readAll = entity.Permission{Entity: entity.EntityDocument, Action: entity.ActionRead, Scope: entity.ScopeAll}

// authorize checks document:<action>:<scope>, where scope is own for the acting patient,
// linked for the acting doctor and all otherwise.
func authorize(snap session.Snapshot, action, patientID, doctorID string) error {
	if !snap.Authenticated {
		return entity.ErrNotAuthenticated
	}

	scope := entity.ScopeAll

	switch {
	case patientID != "" && patientID == snap.User.ID:
		scope = entity.ScopeOwn
	case doctorID != "" && doctorID == snap.User.ID:
		scope = entity.ScopeLinked
	}

	required := entity.Permission{Entity: entity.EntityDocument, Action: action, Scope: scope}

	if !snap.Permissions.Allows(required) {
		return fmt.Errorf("%s requires %s: %w", snap.ActiveRole.Name, required, entity.ErrForbidden)
	}

	return nil
}

func authorizeDoc(snap session.Snapshot, action string, doc entity.Document) error {
	return authorize(snap, action, doc.PatientID, doc.DoctorID)
}
