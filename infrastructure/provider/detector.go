package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/internal/config"
)

// detectPath is the face detection endpoint on the detector sidecar.
const detectPath = "/v1/detect"

// errRetryableStatus marks HTTP statuses worth retrying.
var errRetryableStatus = errors.New("retryable detector status")

// FaceDetector is an HTTP client for the external face detection model.
// It implements image.Detector.
type FaceDetector struct {
	baseURL       string
	client        *http.Client
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// FaceDetectorOption is a functional option for FaceDetector.
type FaceDetectorOption func(*FaceDetector)

// WithHTTPClient replaces the HTTP client (used by tests).
func WithHTTPClient(client *http.Client) FaceDetectorOption {
	return func(d *FaceDetector) { d.client = client }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) FaceDetectorOption {
	return func(d *FaceDetector) { d.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(t time.Duration) FaceDetectorOption {
	return func(d *FaceDetector) { d.initialDelay = t }
}

// WithBackoffFactor sets the retry backoff multiplier.
func WithBackoffFactor(f float64) FaceDetectorOption {
	return func(d *FaceDetector) { d.backoffFactor = f }
}

// NewFaceDetector creates a detector client from configuration. When a cache
// directory is configured, responses are cached on disk so repeated pool
// imports do not re-run detection.
func NewFaceDetector(cfg config.DetectorConfig, opts ...FaceDetectorOption) *FaceDetector {
	var transport http.RoundTripper = http.DefaultTransport
	if cfg.CacheDir() != "" {
		transport = NewCachingTransport(cfg.CacheDir(), transport)
	}

	d := &FaceDetector{
		baseURL: strings.TrimSuffix(cfg.BaseURL(), "/"),
		client: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
		},
		maxRetries:    cfg.MaxRetries(),
		initialDelay:  cfg.InitialDelay(),
		backoffFactor: cfg.BackoffFactor(),
	}

	for _, opt := range opts {
		opt(d)
	}
	return d
}

type detectRequest struct {
	URL string `json:"url"`
}

type detectResponse struct {
	FaceFound  bool      `json:"face_found"`
	Embedding  []float64 `json:"embedding"`
	Confidence float64   `json:"confidence"`
}

// Detect runs face detection on the image at url.
func (d *FaceDetector) Detect(ctx context.Context, url string) (image.Detection, error) {
	payload, err := json.Marshal(detectRequest{URL: url})
	if err != nil {
		return image.Detection{}, fmt.Errorf("encode detect request: %w", err)
	}

	var result detectResponse
	err = d.withRetry(ctx, func() error {
		return d.doDetect(ctx, payload, &result)
	})
	if err != nil {
		var provErr *Error
		if errors.As(err, &provErr) {
			return image.Detection{}, err
		}
		return image.Detection{}, NewError("detect", 0, err.Error(), err)
	}

	return image.Detection{
		Found:      result.FaceFound,
		Vector:     result.Embedding,
		Confidence: result.Confidence,
	}, nil
}

func (d *FaceDetector) doDetect(ctx context.Context, payload []byte, out *detectResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+detectPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read detect response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if retryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: %d %s", errRetryableStatus, resp.StatusCode, msg)
		}
		return NewError("detect", resp.StatusCode, msg, nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode detect response: %w", err)
	}
	return nil
}

// withRetry executes fn with exponential backoff on transient failures.
func (d *FaceDetector) withRetry(ctx context.Context, fn func() error) error {
	delay := d.initialDelay
	var lastErr error

	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < d.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * d.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines whether an error is transient.
func isRetryable(err error) bool {
	if errors.Is(err, errRetryableStatus) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// url.Error wraps connection refusals and DNS failures
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

var _ image.Detector = (*FaceDetector)(nil)
