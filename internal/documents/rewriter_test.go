package documents_test

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/healthportal/internal/documents"
)

func TestCloudinaryRewriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "image gets attachment flag",
			in:   "https://res.cloudinary.com/demo/image/upload/v1/docs/scan.png",
			want: "https://res.cloudinary.com/demo/image/upload/fl_attachment/v1/docs/scan.png",
		},
		{
			name: "flag is not added twice",
			in:   "https://res.cloudinary.com/demo/image/upload/fl_attachment/v1/docs/scan.png",
			want: "https://res.cloudinary.com/demo/image/upload/fl_attachment/v1/docs/scan.png",
		},
		{
			name: "non image goes through raw delivery",
			in:   "https://res.cloudinary.com/demo/image/upload/v1/docs/letter.docx",
			want: "https://res.cloudinary.com/demo/raw/upload/v1/docs/letter.docx",
		},
		{
			name: "other host untouched",
			in:   "https://files.example.com/image/upload/v1/scan.png",
			want: "https://files.example.com/image/upload/v1/scan.png",
		},
		{
			name: "lookalike host untouched",
			in:   "https://res.notcloudinary.com/demo/image/upload/v1/scan.png",
			want: "https://res.notcloudinary.com/demo/image/upload/v1/scan.png",
		},
		{
			name: "bare domain",
			in:   "https://cloudinary.com/demo/image/upload/v1/scan.png",
			want: "https://cloudinary.com/demo/image/upload/fl_attachment/v1/scan.png",
		},
		{
			name: "no upload segment",
			in:   "https://res.cloudinary.com/demo/scan.png",
			want: "https://res.cloudinary.com/demo/scan.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, documents.CloudinaryRewriter{}.Attachment(tt.in))
		})
	}
}

func TestNewRewriter(t *testing.T) {
	t.Parallel()

	r, err := documents.NewRewriter("Cloudinary")
	require.NoError(t, err)
	require.IsType(t, documents.CloudinaryRewriter{}, r)

	r, err = documents.NewRewriter("none")
	require.NoError(t, err)
	require.Equal(t, "https://x/image/upload/a.png", r.Attachment("https://x/image/upload/a.png"))

	_, err = documents.NewRewriter("s3")
	require.Error(t, err)
}

func TestImageViewer(t *testing.T) {
	t.Parallel()

	v := documents.NewImageViewer()
	require.Equal(t, "1", v.Zoom().String())

	for range 20 {
		v.ZoomIn()
	}

	require.True(t, v.Zoom().Equal(documents.MaxZoom))

	for range 20 {
		v.ZoomOut()
	}

	require.True(t, v.Zoom().Equal(documents.MinZoom))

	require.Equal(t, "1.25", v.SetZoom(decimal.RequireFromString("1.3")).String())

	v.Drag(10, 10)
	require.Equal(t, documents.Offset{}, v.Offset())

	v.StartDrag(100, 100)
	require.Equal(t, documents.Offset{X: 10, Y: -5}, v.Drag(110, 95))
	require.Equal(t, documents.Offset{X: 20, Y: -5}, v.Drag(120, 95))
	v.EndDrag()

	v.Drag(500, 500)
	require.Equal(t, documents.Offset{X: 20, Y: -5}, v.Offset())

	v.Reset()
	require.Equal(t, documents.Offset{}, v.Offset())
	require.True(t, v.Zoom().Equal(decimal.NewFromInt(1)))
}

func TestImageViewer_ConcurrentZoom(t *testing.T) {
	t.Parallel()

	v := documents.NewImageViewer()
	v.SetZoom(documents.MinZoom)

	var wg sync.WaitGroup

	// 0.5 to 2.5 in eight steps, below the 3.0 cap so every step must land
	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			v.ZoomIn()
		}()
	}

	wg.Wait()

	require.True(t, v.Zoom().Equal(decimal.RequireFromString("2.5")), v.Zoom().String())
}
