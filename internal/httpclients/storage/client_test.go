package storage_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/httpclients/storage"
)

func TestClient_Download(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.pdf":
			require.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte("%PDF"))
		case "/flaky.png":
			if attempts.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}

			_, _ = w.Write([]byte("PNG"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := storage.NewClient()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "ok", path: "/ok.pdf", want: "%PDF"},
		{name: "retried on 5xx", path: "/flaky.png", want: "PNG"},
		{name: "missing", path: "/gone.docx", wantErr: entity.ErrNotFound},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		n, err := c.Download(context.Background(), server.URL+tt.path, &buf)
		if tt.wantErr != nil {
			require.ErrorIs(t, err, tt.wantErr, tt.name)
			continue
		}

		require.NoError(t, err, tt.name)
		require.Equal(t, tt.want, buf.String(), tt.name)
		require.Equal(t, int64(len(tt.want)), n, tt.name)
	}
}

func TestClient_DownloadServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var buf bytes.Buffer

	_, err := storage.NewClientWith(server.Client()).Download(context.Background(), server.URL+"/x", &buf)
	require.ErrorIs(t, err, entity.ErrNetwork)
	require.Equal(t, entity.GenericErrorMessage, err.Error())
}
