package documents

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/samandr77/healthportal/internal/entity"
)

type PreviewKind string

const (
	PreviewImage    PreviewKind = "image"
	PreviewEmbedded PreviewKind = "embedded"
	PreviewOffice   PreviewKind = "office"
	PreviewExternal PreviewKind = "external"
)

// Preview tells the caller how to show a document. Fallback is set when the preferred way failed
// and URL points at the raw file instead.
type Preview struct {
	Kind     PreviewKind
	URL      string
	Fallback bool
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true, ".svg": true,
}

// Extension returns the lower-case extension of the path of rawURL, ignoring query and fragment.
func Extension(rawURL string) string {
	return strings.ToLower(path.Ext(urlPath(rawURL)))
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	return u.Path
}

func IsImage(rawURL string) bool {
	return imageExtensions[Extension(rawURL)]
}

// ResolvePreview picks the preview target from the file extension. PDFs ask the server for an
// embeddable URL and fall back to the raw file when that fails.
func (m *Manager) ResolvePreview(ctx context.Context, doc entity.Document) (Preview, error) {
	err := authorizeDoc(m.sessions.Snapshot(), entity.ActionRead, doc)
	if err != nil {
		return Preview{}, err
	}

	switch ext := Extension(doc.URL); {
	case imageExtensions[ext]:
		return Preview{Kind: PreviewImage, URL: doc.URL}, nil
	case ext == ".pdf":
		u, err := m.api.PreviewURL(ctx, doc.ID)
		if err != nil || u == "" {
			slog.WarnContext(ctx, "preview url unavailable, opening raw file", "document_id", doc.ID, "error", err)
			return Preview{Kind: PreviewExternal, URL: doc.URL, Fallback: true}, nil
		}

		return Preview{Kind: PreviewEmbedded, URL: u}, nil
	case ext == ".doc" || ext == ".docx":
		return Preview{Kind: PreviewOffice, URL: m.cfg.OfficeViewerURL + url.QueryEscape(doc.URL)}, nil
	default:
		return Preview{Kind: PreviewExternal, URL: doc.URL}, nil
	}
}

// ResolveDownload returns where to fetch the file from, rewritten by the configured storage
// strategy so the browser saves it rather than displaying it.
func (m *Manager) ResolveDownload(ctx context.Context, doc entity.Document) (entity.DownloadInfo, error) {
	err := authorizeDoc(m.sessions.Snapshot(), entity.ActionRead, doc)
	if err != nil {
		return entity.DownloadInfo{}, err
	}

	info, err := m.api.DownloadInfo(ctx, doc.ID)
	if err != nil {
		return entity.DownloadInfo{}, err
	}

	if info.URL == "" {
		info.URL = doc.URL
	}

	if info.Filename == "" {
		info.Filename = path.Base(urlPath(info.URL))
	}

	info.URL = m.cfg.Rewriter.Attachment(info.URL)

	return info, nil
}
