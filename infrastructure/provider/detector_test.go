package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kidkender/dating-ai-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(t *testing.T, handler http.HandlerFunc) *FaceDetector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewDetectorConfigWithOptions(
		config.WithDetectorBaseURL(srv.URL),
		config.WithDetectorTimeout(2*time.Second),
		config.WithDetectorMaxRetries(2),
		config.WithDetectorInitialDelay(time.Millisecond),
		config.WithDetectorBackoffFactor(1.0),
	)
	return NewFaceDetector(cfg)
}

func TestDetectSuccess(t *testing.T) {
	d := newTestDetector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/detect", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"face_found":true,"embedding":[0.1,0.2],"confidence":0.93}`))
	})

	det, err := d.Detect(context.Background(), "https://cdn.example.com/1.jpg")
	require.NoError(t, err)
	assert.True(t, det.Found)
	assert.Equal(t, []float64{0.1, 0.2}, det.Vector)
	assert.InDelta(t, 0.93, det.Confidence, 1e-9)
}

func TestDetectNoFace(t *testing.T) {
	d := newTestDetector(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"face_found":false,"confidence":0}`))
	})

	det, err := d.Detect(context.Background(), "https://cdn.example.com/2.jpg")
	require.NoError(t, err)
	assert.False(t, det.Found)
	assert.Empty(t, det.Vector)
}

func TestDetectRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	d := newTestDetector(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"face_found":true,"embedding":[1],"confidence":0.9}`))
	})

	det, err := d.Detect(context.Background(), "x.jpg")
	require.NoError(t, err)
	assert.True(t, det.Found)
	assert.EqualValues(t, 3, calls.Load())
}

func TestDetectDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	d := newTestDetector(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad image url", http.StatusBadRequest)
	})

	_, err := d.Detect(context.Background(), "x.jpg")
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadRequest, provErr.StatusCode())
}

func TestDetectGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	d := newTestDetector(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := d.Detect(context.Background(), "x.jpg")
	require.Error(t, err)
	// initial attempt plus two retries
	assert.EqualValues(t, 3, calls.Load())
}

func TestDetectHonorsContextCancellation(t *testing.T) {
	d := newTestDetector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Detect(ctx, "x.jpg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCachingTransportServesFromDisk(t *testing.T) {
	var calls atomic.Int32
	d := newTestDetectorWithCache(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"face_found":true,"embedding":[0.5],"confidence":0.88}`))
	})

	for i := 0; i < 2; i++ {
		det, err := d.Detect(context.Background(), "same.jpg")
		require.NoError(t, err)
		assert.True(t, det.Found)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func newTestDetectorWithCache(t *testing.T, handler http.HandlerFunc) *FaceDetector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewDetectorConfigWithOptions(
		config.WithDetectorBaseURL(srv.URL),
		config.WithDetectorTimeout(2*time.Second),
		config.WithDetectorMaxRetries(0),
		config.WithDetectorInitialDelay(time.Millisecond),
		config.WithDetectorBackoffFactor(1.0),
		config.WithDetectorCacheDir(t.TempDir()),
	)
	return NewFaceDetector(cfg)
}
