package sandbox

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
)

const maxUploadSize = 10 << 20

var knownStatuses = []string{"Pending", "Doctor Review", "Approved", "Rejected"}

type documentJSON struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patientId"`
	DoctorID     string    `json:"doctorId"`
	DocumentName string    `json:"documentName"`
	DocumentType string    `json:"documentType"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	DocumentURL  string    `json:"documentUrl"`
}

func (d *document) view() documentJSON {
	return documentJSON{
		ID:           d.ID,
		PatientID:    d.PatientID,
		DoctorID:     d.DoctorID,
		DocumentName: d.Name,
		DocumentType: d.Type,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		DocumentURL:  d.URL,
	}
}

// selectDocuments must be called with s.mu held. Newest first.
func (s *Server) selectDocuments(match func(*document) bool) []documentJSON {
	out := []documentJSON{}

	for _, id := range slices.Backward(s.order) {
		d, ok := s.docs[id]
		if !ok || !match(d) {
			continue
		}

		out = append(out, d.view())
	}

	return out
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patientId")
	doctorID := r.URL.Query().Get("doctorId")

	s.mu.Lock()
	docs := s.selectDocuments(func(d *document) bool {
		return (patientID == "" || d.PatientID == patientID) && (doctorID == "" || d.DoctorID == doctorID)
	})
	s.mu.Unlock()

	SendJSON(r.Context(), w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) doctorDocuments(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctorId")
	if doctorID == "" {
		SendErr(r.Context(), w, http.StatusBadRequest, "doctorId is required")
		return
	}

	s.mu.Lock()
	docs := s.selectDocuments(func(d *document) bool { return d.DoctorID == doctorID })
	s.mu.Unlock()

	SendJSON(r.Context(), w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	d, ok := s.docs[chi.URLParam(r, "id")]

	var view documentJSON
	if ok {
		view = d.view()
	}
	s.mu.Unlock()

	if !ok {
		SendErr(r.Context(), w, http.StatusNotFound, "Document not found")
		return
	}

	SendJSON(r.Context(), w, http.StatusOK, view)
}

type upload struct {
	filename string
	mimeType string
	content  []byte
}

func readUpload(r *http.Request) (*upload, error) {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &upload{
		filename: header.Filename,
		mimeType: header.Header.Get("Content-Type"),
		content:  content,
	}, nil
}

func fileURL(r *http.Request, id, filename string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host + "/files/" + url.PathEscape(id) + "/" + url.PathEscape(filename)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	up, err := readUpload(r)
	if err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid upload")
		return
	}

	if up == nil {
		SendErr(ctx, w, http.StatusBadRequest, "Please select a file to upload")
		return
	}

	name := strings.TrimSpace(r.FormValue("documentName"))
	patientID := r.FormValue("patientId")

	if name == "" || patientID == "" {
		SendErr(ctx, w, http.StatusBadRequest, "Document name and patient are required")
		return
	}

	status := r.FormValue("status")
	if status == "" {
		status = "Pending"
	}

	if !slices.Contains(knownStatuses, status) {
		SendErr(ctx, w, http.StatusBadRequest, "Unknown document status")
		return
	}

	id := uuid.Must(uuid.NewV4()).String()

	d := &document{
		ID:        id,
		PatientID: patientID,
		DoctorID:  r.FormValue("doctorId"),
		Name:      name,
		Type:      r.FormValue("documentType"),
		Status:    status,
		CreatedAt: s.opts.Now().UTC(),
		URL:       fileURL(r, id, up.filename),
		Filename:  up.filename,
		Content:   up.content,
		MimeType:  up.mimeType,
	}

	s.mu.Lock()
	s.docs[id] = d
	s.order = append(s.order, id)
	view := d.view()
	s.mu.Unlock()

	SendJSON(ctx, w, http.StatusCreated, view)
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	up, err := readUpload(r)
	if err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid upload")
		return
	}

	if status, ok := r.MultipartForm.Value["status"]; ok && !slices.Contains(knownStatuses, status[0]) {
		SendErr(ctx, w, http.StatusBadRequest, "Unknown document status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok {
		SendErr(ctx, w, http.StatusNotFound, "Document not found")
		return
	}

	form := r.MultipartForm.Value

	set := func(field string, dst *string) {
		if v, ok := form[field]; ok && len(v) > 0 {
			*dst = v[0]
		}
	}

	set("documentName", &d.Name)
	set("documentType", &d.Type)
	set("status", &d.Status)
	set("patientId", &d.PatientID)
	set("doctorId", &d.DoctorID)

	if up != nil {
		d.Filename = up.filename
		d.Content = up.content
		d.MimeType = up.mimeType
		d.URL = fileURL(r, id, up.filename)
	}

	SendJSON(ctx, w, http.StatusOK, d.view())
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	s.mu.Unlock()

	if !ok {
		SendErr(r.Context(), w, http.StatusNotFound, "Document not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		DoctorID string `json:"doctorId"`
		Status   string `json:"status"`
	}

	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !slices.Contains(knownStatuses, req.Status) {
		SendErr(ctx, w, http.StatusBadRequest, "Unknown document status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[chi.URLParam(r, "id")]
	if !ok {
		SendErr(ctx, w, http.StatusNotFound, "Document not found")
		return
	}

	if d.DoctorID != "" && req.DoctorID != d.DoctorID {
		SendErr(ctx, w, http.StatusForbidden, "Only the assigned doctor can review this document")
		return
	}

	d.Status = req.Status

	SendJSON(ctx, w, http.StatusOK, d.view())
}

func (s *Server) downloadInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	d, ok := s.docs[chi.URLParam(r, "id")]

	var data map[string]string
	if ok {
		filename := d.Filename
		if filename == "" {
			filename = path.Base(d.URL)
		}

		contentType := d.MimeType
		if contentType == "" {
			contentType = mime.TypeByExtension(path.Ext(filename))
		}

		data = map[string]string{"url": d.URL, "filename": filename, "contentType": contentType}
	}
	s.mu.Unlock()

	if !ok {
		SendErr(r.Context(), w, http.StatusNotFound, "Document not found")
		return
	}

	SendJSON(r.Context(), w, http.StatusOK, data)
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	d, ok := s.docs[chi.URLParam(r, "id")]

	previewURL := ""
	if ok && strings.EqualFold(path.Ext(d.URL), ".pdf") {
		previewURL = d.URL + "#toolbar=0"
	}
	s.mu.Unlock()

	if !ok {
		SendErr(r.Context(), w, http.StatusNotFound, "Document not found")
		return
	}

	SendJSON(r.Context(), w, http.StatusOK, map[string]string{"previewUrl": previewURL})
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	d, ok := s.docs[chi.URLParam(r, "id")]

	var (
		content  []byte
		mimeType string
	)

	if ok {
		content = slices.Clone(d.Content)
		mimeType = d.MimeType
	}
	s.mu.Unlock()

	if !ok || content == nil {
		http.NotFound(w, r)
		return
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
