package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samandr77/healthportal/internal/documents"
	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/httpclients/portal"
	"github.com/samandr77/healthportal/internal/httpclients/storage"
	"github.com/samandr77/healthportal/internal/session"
	"github.com/samandr77/healthportal/pkg/broker"
	"github.com/samandr77/healthportal/pkg/config"
	"github.com/samandr77/healthportal/pkg/metrics"
	"github.com/samandr77/healthportal/pkg/transport"
)

type app struct {
	cfg     config.Config
	metrics *metrics.Metrics
	portal  *portal.Client
	storage *storage.Client
	store   *session.Store
	docs    *documents.Manager

	producer *broker.Producer
	in       *bufio.Reader
	out      io.Writer
}

func newApp(cfg config.Config, l *slog.Logger, in io.Reader, out io.Writer) (*app, error) {
	a := &app{
		cfg:     cfg,
		metrics: metrics.New(),
		storage: storage.NewClient(),
		in:      bufio.NewReader(in),
		out:     out,
	}

	var events session.Publisher = broker.Discard{}

	if len(cfg.Kafka.Brokers) > 0 {
		a.producer = broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		events = a.producer
	}

	rt := transport.NewAuthRoundTripper(nil, nil, a.metrics)

	httpClient, err := transport.NewHTTPClient(cfg, rt)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}

	a.portal = portal.NewClient(cfg.APIURL, httpClient)
	a.store = session.New(a.portal, events)

	rt.Tokens = a.store
	rt.OnUnauthorized = a.store.Invalidate

	rewriter, err := documents.NewRewriter(cfg.Documents.StorageProvider)
	if err != nil {
		return nil, err
	}

	a.docs = documents.NewManager(a.portal, a.store, events, documents.Config{
		OfficeViewerURL: cfg.Documents.OfficeViewerURL,
		BulkConcurrency: cfg.BulkConcurrency,
		Rewriter:        rewriter,
	})

	return a, nil
}

func (a *app) close() {
	if a.producer != nil {
		a.producer.Close()
	}
}

type savedSession struct {
	AccessToken string `json:"accessToken"`
}

// restoreSession re-establishes the session saved by a previous command. A stale token is dropped.
func (a *app) restoreSession(ctx context.Context) {
	raw, err := os.ReadFile(a.cfg.SessionFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.WarnContext(ctx, "read session file", "error", err)
		}

		return
	}

	var s savedSession

	err = json.Unmarshal(raw, &s)
	if err != nil {
		slog.WarnContext(ctx, "decode session file", "error", err)
		return
	}

	_, err = a.store.Restore(ctx, s.AccessToken)
	if err != nil {
		slog.InfoContext(ctx, "saved session is no longer valid", "error", err)
	}
}

func (a *app) saveSession() error {
	token := a.store.AccessToken()
	if token == "" {
		err := os.Remove(a.cfg.SessionFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		return nil
	}

	raw, err := json.Marshal(savedSession{AccessToken: token})
	if err != nil {
		return err
	}

	return os.WriteFile(a.cfg.SessionFile, raw, 0o600)
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)

	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (a *app) requireSession() error {
	if !a.store.Snapshot().Authenticated {
		return entity.ErrNotAuthenticated
	}

	return nil
}
