package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/healthportal/internal/entity"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}

	f.msgs = append(f.msgs, msgs...)

	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &Producer{l: slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), w: w, auditTopic: "portal.audit"}

	p.Publish(context.Background(), entity.Event{
		Type:       entity.EventDocumentDeleted,
		UserID:     "u-1",
		DocumentID: "d-1",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	require.Len(t, w.msgs, 1)
	require.Equal(t, "portal.audit", w.msgs[0].Topic)
	require.Equal(t, []byte("u-1"), w.msgs[0].Key)

	var got map[string]any

	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	require.Equal(t, "document.deleted", got["type"])
	require.Equal(t, "d-1", got["documentId"])
	require.NotEmpty(t, got["id"])
}

func TestProducer_PublishFailureIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	p := &Producer{l: slog.New(slog.NewJSONHandler(&buf, nil)), w: &fakeWriter{err: errors.New("broker down")}, auditTopic: "t"}

	p.Publish(context.Background(), entity.Event{Type: entity.EventLogin, UserID: "u"})

	require.Contains(t, buf.String(), "broker down")
}
