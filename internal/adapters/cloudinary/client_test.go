package cloudinary_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/adapters/cloudinary"
)

func newClient(t *testing.T, base string) *cloudinary.Client {
	t.Helper()
	cl, err := cloudinary.New(cloudinary.Config{
		BaseURL:   base,
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "shh",
		Folder:    "hotels",
		RPS:       100, // high RPS for tests
	})
	require.NoError(t, err)
	return cl
}

// parseUpload accepts both encodings the SDK may use for a string file.
func parseUpload(t *testing.T, r *http.Request) {
	t.Helper()
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		t.Errorf("parse upload: %v", err)
	}
}

func TestClient_Upload_SignedRequest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v1_1/demo/"), r.URL.Path)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/upload"), r.URL.Path)
		parseUpload(t, r)

		assert.Equal(t, "data:image/png;base64,aGk=", r.FormValue("file"))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "hotels", r.FormValue("folder"))
		assert.NotEmpty(t, r.FormValue("timestamp"))
		assert.NotEmpty(t, r.FormValue("signature"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"url":        "http://res.cloudinary.com/demo/image/upload/v1/hotels/a.png",
			"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/hotels/a.png",
		})
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := newClient(t, ts.URL).Upload(ctx, "data:image/png;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, "http://res.cloudinary.com/demo/image/upload/v1/hotels/a.png", got)
}

func TestClient_Upload_NoRetryOnFailure(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).Upload(context.Background(), "data:image/png;base64,aGk=")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cloudinary.ErrRejected))
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_Upload_InvalidSignature(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).Upload(context.Background(), "data:image/png;base64,aGk=")
	assert.ErrorIs(t, err, cloudinary.ErrRejected)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestClient_Upload_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// drain so the server sees the client hang up
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newClient(t, ts.URL).Upload(ctx, "data:image/png;base64,aGk=")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := cloudinary.New(cloudinary.Config{CloudName: "demo"})
	assert.Error(t, err)
}
