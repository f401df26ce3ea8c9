package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"slices"
	"time"

	"github.com/samandr77/healthportal/internal/entity"
)

type DocumentResponse struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patientId"`
	DoctorID     string    `json:"doctorId"`
	DocumentName string    `json:"documentName"`
	DocumentType string    `json:"documentType"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	DocumentURL  string    `json:"documentUrl"`
}

type DocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

func (c *Client) ListDocuments(ctx context.Context, patientID, doctorID string) ([]entity.Document, error) {
	q := url.Values{}

	if patientID != "" {
		q.Set("patientId", patientID)
	}

	if doctorID != "" {
		q.Set("doctorId", doctorID)
	}

	path := "/document"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var data DocumentsResponse

	err := c.doJSON(ctx, "documents.list", http.MethodGet, path, nil, &data)
	if err != nil {
		return nil, err
	}

	return documentsFromAPI(data.Documents), nil
}

func (c *Client) DoctorDocuments(ctx context.Context, doctorID string) ([]entity.Document, error) {
	q := url.Values{}
	q.Set("doctorId", doctorID)

	var data DocumentsResponse

	err := c.doJSON(ctx, "documents.list_doctor", http.MethodGet, "/document/doctor/documents?"+q.Encode(), nil, &data)
	if err != nil {
		return nil, err
	}

	return documentsFromAPI(data.Documents), nil
}

func (c *Client) DocumentByID(ctx context.Context, id string) (entity.Document, error) {
	var data DocumentResponse

	err := c.doJSON(ctx, "documents.get", http.MethodGet, "/document/"+url.PathEscape(id), nil, &data)
	if err != nil {
		return entity.Document{}, err
	}

	return documentFromAPI(data), nil
}

func (c *Client) CreateDocument(ctx context.Context, doc entity.NewDocument) (entity.Document, error) {
	fields := map[string]string{
		"documentName": doc.Name,
		"documentType": string(doc.Type),
		"patientId":    doc.PatientID,
		"doctorId":     doc.DoctorID,
		"status":       string(doc.Status),
	}

	body, contentType, err := multipartBody(fields, doc.File)
	if err != nil {
		return entity.Document{}, err
	}

	var data DocumentResponse

	err = c.do(ctx, "documents.create", http.MethodPost, "/document", body, contentType, &data)
	if err != nil {
		return entity.Document{}, err
	}

	return documentFromAPI(data), nil
}

// UpdateDocument sends only the non-nil fields of changes.
func (c *Client) UpdateDocument(ctx context.Context, id string, changes entity.DocumentChanges) (entity.Document, error) {
	fields := map[string]string{}

	if changes.Name != nil {
		fields["documentName"] = *changes.Name
	}

	if changes.Type != nil {
		fields["documentType"] = string(*changes.Type)
	}

	if changes.Status != nil {
		fields["status"] = string(*changes.Status)
	}

	if changes.PatientID != nil {
		fields["patientId"] = *changes.PatientID
	}

	if changes.DoctorID != nil {
		fields["doctorId"] = *changes.DoctorID
	}

	body, contentType, err := multipartBody(fields, changes.File)
	if err != nil {
		return entity.Document{}, err
	}

	var data DocumentResponse

	err = c.do(ctx, "documents.update", http.MethodPut, "/document/"+url.PathEscape(id), body, contentType, &data)
	if err != nil {
		return entity.Document{}, err
	}

	return documentFromAPI(data), nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.doJSON(ctx, "documents.delete", http.MethodDelete, "/document/"+url.PathEscape(id), nil, nil)
}

type UpdateStatusRequest struct {
	DoctorID string `json:"doctorId"`
	Status   string `json:"status"`
}

func (c *Client) UpdateDocumentStatus(ctx context.Context, id, doctorID string, status entity.DocStatus) (entity.Document, error) {
	var data DocumentResponse

	err := c.doJSON(ctx, "documents.update_status", http.MethodPut, "/document/"+url.PathEscape(id)+"/status", UpdateStatusRequest{
		DoctorID: doctorID,
		Status:   string(status),
	}, &data)
	if err != nil {
		return entity.Document{}, err
	}

	return documentFromAPI(data), nil
}

type DownloadResponse struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

func (c *Client) DownloadInfo(ctx context.Context, id string) (entity.DownloadInfo, error) {
	var data DownloadResponse

	err := c.doJSON(ctx, "documents.download", http.MethodGet, "/document/"+url.PathEscape(id)+"/download", nil, &data)
	if err != nil {
		return entity.DownloadInfo{}, err
	}

	return entity.DownloadInfo{URL: data.URL, Filename: data.Filename, ContentType: data.ContentType}, nil
}

type PreviewResponse struct {
	PreviewURL string `json:"previewUrl"`
}

func (c *Client) PreviewURL(ctx context.Context, id string) (string, error) {
	var data PreviewResponse

	err := c.doJSON(ctx, "documents.preview", http.MethodGet, "/document/"+url.PathEscape(id)+"/preview", nil, &data)
	if err != nil {
		return "", err
	}

	if data.PreviewURL == "" {
		return "", &entity.APIError{Kind: entity.ErrNetwork, StatusCode: http.StatusOK, Message: "Preview is not available"}
	}

	return data.PreviewURL, nil
}

func multipartBody(fields map[string]string, file *entity.File) (io.Reader, string, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	for _, name := range slices.Sorted(maps.Keys(fields)) {
		err := w.WriteField(name, fields[name])
		if err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))

		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}

		if file.Content != nil {
			_, err = io.Copy(part, file.Content)
			if err != nil {
				return nil, "", fmt.Errorf("copy file content: %w", err)
			}
		}
	}

	err := w.Close()
	if err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func documentsFromAPI(docs []DocumentResponse) []entity.Document {
	out := make([]entity.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentFromAPI(d))
	}

	return out
}

func documentFromAPI(d DocumentResponse) entity.Document {
	return entity.Document{
		ID:        d.ID,
		PatientID: d.PatientID,
		DoctorID:  d.DoctorID,
		Name:      d.DocumentName,
		Type:      entity.DocType(d.DocumentType),
		Status:    entity.DocStatus(d.Status),
		CreatedAt: d.CreatedAt,
		URL:       d.DocumentURL,
	}
}
