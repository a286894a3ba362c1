package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func newServers(t *testing.T, contentType string, vision http.HandlerFunc) (*httptest.Server, *httptest.Server) {
	t.Helper()
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(pngBytes)
	}))
	t.Cleanup(files.Close)
	api := httptest.NewServer(vision)
	t.Cleanup(api.Close)
	return files, api
}

func TestTextFromURL(t *testing.T) {
	files, api := newServers(t, "image/png", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req annotateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 1)
		assert.Equal(t, "TEXT_DETECTION", req.Requests[0].Features[0].Type)
		img, err := base64.StdEncoding.DecodeString(req.Requests[0].Image.Content)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, img)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responses":[{"fullTextAnnotation":{"text":"RAVI TRADERS\nDate 01/03/2024\nTotal Rs. 945.00"}}]}`))
	})

	c := NewClient(Config{APIKey: "secret", Endpoint: api.URL}, nil)
	res, err := c.TextFromURL(context.Background(), files.URL+"/inv.png")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "RAVI TRADERS")
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, len(pngBytes), res.Bytes)
	assert.InDelta(t, 0.7, res.Confidence, 0.001)
}

func TestTextFromURLNoText(t *testing.T) {
	files, api := newServers(t, "image/jpeg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responses":[{}]}`))
	})
	_, err := NewClient(Config{Endpoint: api.URL}, nil).TextFromURL(context.Background(), files.URL+"/blank.jpg")
	assert.ErrorIs(t, err, common.ErrNoText)
}

func TestTextFromURLFallsBackToTextAnnotations(t *testing.T) {
	files, api := newServers(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responses":[{"textAnnotations":[{"description":"Total 10"},{"description":"Total"}]}]}`))
	})
	res, err := NewClient(Config{Endpoint: api.URL}, nil).TextFromURL(context.Background(), files.URL+"/a")
	require.NoError(t, err)
	assert.Equal(t, "Total 10", res.Text)
}

func TestTextFromURLVisionErrors(t *testing.T) {
	files, api := newServers(t, "image/png", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "bad" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`))
	})

	_, err := NewClient(Config{APIKey: "bad", Endpoint: api.URL}, nil).TextFromURL(context.Background(), files.URL+"/a.png")
	assert.ErrorIs(t, err, common.ErrOCR)
	assert.Contains(t, err.Error(), "API key not valid")

	_, err = NewClient(Config{APIKey: "ok", Endpoint: api.URL}, nil).TextFromURL(context.Background(), files.URL+"/a.png")
	assert.ErrorIs(t, err, common.ErrOCR)
	assert.Contains(t, err.Error(), "Bad image data.")
}

func TestFetchRejects(t *testing.T) {
	files, _ := newServers(t, "text/html; charset=utf-8", func(http.ResponseWriter, *http.Request) {})
	c := NewClient(Config{}, nil)

	_, _, err := c.Fetch(context.Background(), files.URL+"/page")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, _, err = c.Fetch(context.Background(), files.URL+"/missing.png")
	assert.ErrorIs(t, err, common.ErrOCR)

	pngFiles, _ := newServers(t, "image/png", func(http.ResponseWriter, *http.Request) {})
	small := NewClient(Config{MaxBytes: 4}, nil)
	_, _, err = small.Fetch(context.Background(), pngFiles.URL+"/big.png")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestTextFromURLUndecodableReply(t *testing.T) {
	files, api := newServers(t, "image/png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>upstream proxy error</html>"))
	})
	_, err := NewClient(Config{Endpoint: api.URL}, nil).TextFromURL(context.Background(), files.URL+"/a.png")
	assert.ErrorIs(t, err, common.ErrOCR)
	assert.NotErrorIs(t, err, common.ErrNoText)
}

func TestFetchStopsReadingOversizedStream(t *testing.T) {
	const total = 64 << 20
	var written atomic.Int64
	done := make(chan struct{})
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(done)
		w.Header().Set("Content-Type", "image/png")
		chunk := make([]byte, 32<<10)
		flusher, _ := w.(http.Flusher)
		for written.Load() < total {
			n, err := w.Write(chunk)
			written.Add(int64(n))
			if err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	t.Cleanup(files.Close)

	_, _, err := NewClient(Config{MaxBytes: 1 << 20}, nil).Fetch(context.Background(), files.URL+"/huge.png")
	require.ErrorIs(t, err, common.ErrValidation)

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("file server still streaming")
	}
	assert.Less(t, written.Load(), int64(total))
}

func TestFetchRejectsDeclaredLength(t *testing.T) {
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(8<<20))
		_, _ = w.Write(pngBytes)
	}))
	t.Cleanup(files.Close)

	_, _, err := NewClient(Config{MaxBytes: 1 << 20}, nil).Fetch(context.Background(), files.URL+"/big.jpg")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "limit is 1048576")
}

func TestHeuristicConfidence(t *testing.T) {
	assert.Zero(t, heuristicConfidence("  "))
	assert.InDelta(t, 0.2, heuristicConfidence("hello"), 0.001)
	assert.InDelta(t, 0.7, heuristicConfidence("GSTIN 29ABC 12/03/2024 total ₹ 1,180.00"), 0.001)
}
