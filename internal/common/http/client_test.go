package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Data Engineer", body["input_role"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"given_role":"Data Engineer"}`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	resp, err := client.PostJSON(context.Background(), server.URL, map[string]string{"input_role": "Data Engineer"})

	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"given_role":"Data Engineer"}`, string(resp.Body))
}

func TestPostMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("resume")
		require.NoError(t, err)
		defer file.Close()

		content, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4", string(content))

		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"corrupt file"}`))
	}))
	defer server.Close()

	client := NewClientWith(server.Client())
	resp, err := client.PostMultipart(context.Background(), server.URL, "resume", "cv.pdf", "application/pdf", []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "corrupt file", resp.ErrorMessage())
}

func TestResponse_ErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"bad role"}`, "bad role"},
		{"no error field", `{"message":"x"}`, ""},
		{"not json", `<html>502</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{StatusCode: 500, Body: []byte(tt.body)}
			assert.Equal(t, tt.want, r.ErrorMessage())
		})
	}
}

func TestPostJSON_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(5*time.Second).PostJSON(ctx, server.URL, map[string]string{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
