package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCaptureWriter_BodyWithinLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 16}

	_, err := cw.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = cw.Write([]byte("world"))
	require.NoError(t, err)

	require.True(t, cw.cacheable())
	require.Equal(t, "hello world", cw.buf.String())
	require.Equal(t, "hello world", rec.Body.String())
}

func TestCaptureWriter_OversizedBodyIsNotCacheable(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	body := strings.Repeat("x", 20)
	_, err := cw.Write([]byte(body))
	require.NoError(t, err)

	// The client still receives the whole body; only the cache copy is
	// abandoned.
	require.Equal(t, body, rec.Body.String())
	require.Equal(t, int64(20), cw.size)
	require.False(t, cw.cacheable())
}

func TestCaptureWriter_NoLimitCapturesEverything(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK}

	body := strings.Repeat("y", 4096)
	_, err := cw.Write([]byte(body))
	require.NoError(t, err)

	require.True(t, cw.cacheable())
	require.Equal(t, body, cw.buf.String())
}
