package documents

import (
	"fmt"
	"net/url"
	"strings"
)

// URLRewriter turns a stored file URL into one that forces a download.
type URLRewriter interface {
	Attachment(rawURL string) string
}

type NoopRewriter struct{}

func (NoopRewriter) Attachment(rawURL string) string { return rawURL }

const (
	cloudinaryHost   = "cloudinary.com"
	uploadSegment    = "/upload/"
	imageUpload      = "/image/upload/"
	rawUpload        = "/raw/upload/"
	attachmentMarker = "fl_attachment/"
)

// CloudinaryRewriter adds the attachment flag to image deliveries and serves everything else
// through the raw delivery type. URLs from other hosts are returned unchanged.
type CloudinaryRewriter struct{}

func (CloudinaryRewriter) Attachment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !isCloudinaryHost(u.Hostname()) || !strings.Contains(u.Path, uploadSegment) {
		return rawURL
	}

	if !IsImage(rawURL) {
		u.Path = strings.Replace(u.Path, imageUpload, rawUpload, 1)
		return u.String()
	}

	if strings.Contains(u.Path, uploadSegment+attachmentMarker) {
		return rawURL
	}

	u.Path = strings.Replace(u.Path, uploadSegment, uploadSegment+attachmentMarker, 1)

	return u.String()
}

// NewRewriter returns the rewriter for a storage provider name.
func NewRewriter(provider string) (URLRewriter, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "cloudinary":
		return CloudinaryRewriter{}, nil
	case "", "none":
		return NoopRewriter{}, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", provider)
	}
}

func isCloudinaryHost(host string) bool {
	return host == cloudinaryHost || strings.HasSuffix(host, "."+cloudinaryHost)
}
