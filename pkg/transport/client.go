package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/samandr77/healthportal/pkg/config"
)

const defaultRetryWaitMax = time.Second * 5

// NewHTTPClient builds the client used for every portal call. With RetryMax 0 each call is a
// single attempt; otherwise only transport-level failures are retried, never HTTP statuses.
func NewHTTPClient(cfg config.Config, rt *AuthRoundTripper) (*http.Client, error) {
	base, err := baseTransport(cfg)
	if err != nil {
		return nil, err
	}

	rt.Transport = base

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.HTTPTimeout
	retryClient.HTTPClient.Transport = rt
	retryClient.Logger = nil

	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	// hand the last response back to the caller instead of a generic "giving up" error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return retryClient.StandardClient(), nil
}

func baseTransport(cfg config.Config) (*http.Transport, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.CACert != "" {
		caCert, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("load CA cert: %w", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("append CA cert %s to pool", cfg.CACert)
		}

		tlsConfig.RootCAs = caCertPool
	}

	if cfg.MTLSEnabled {
		certificate, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}

		tlsConfig.Certificates = []tls.Certificate{certificate}
	}

	t := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert
	t.TLSClientConfig = tlsConfig

	return t, nil
}
