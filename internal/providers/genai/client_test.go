package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"headshot/internal/domain"
)

type countingTransport struct {
	calls atomic.Int32
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.next.RoundTrip(r)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *countingTransport) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	transport := &countingTransport{next: http.DefaultTransport}
	client, err := NewClient(context.Background(), Options{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Transport: transport},
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, transport
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func TestEditImageReturnsFirstInlineImage(t *testing.T) {
	source := []byte("selfie-bytes")
	var gotBody map[string]any
	client, transport := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/"+DefaultModel+":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role": "model",
					"parts": []any{
						map[string]any{"text": "Here you go"},
						map[string]any{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString([]byte("headshot")),
						}},
					},
				},
				"finishReason": "STOP",
			}},
		})
	})

	res, err := client.EditImage(context.Background(), source, "image/jpeg", "make it professional")
	if err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if string(res.Data) != "headshot" || res.MIMEType != "image/png" {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := transport.calls.Load(); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}

	contents, _ := gotBody["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("expected one content entry, got %v", gotBody["contents"])
	}
	parts, _ := contents[0].(map[string]any)["parts"].([]any)
	if len(parts) != 2 {
		t.Fatalf("expected image and text parts, got %v", parts)
	}
	inline, _ := parts[0].(map[string]any)["inlineData"].(map[string]any)
	if inline["mimeType"] != "image/jpeg" || inline["data"] != base64.StdEncoding.EncodeToString(source) {
		t.Fatalf("image part not first or malformed: %v", parts[0])
	}
	if parts[1].(map[string]any)["text"] != "make it professional" {
		t.Fatalf("text part mismatch: %v", parts[1])
	}
}

func TestEditImageWithoutKeyMakesNoCalls(t *testing.T) {
	transport := &countingTransport{next: http.DefaultTransport}
	client, err := NewClient(context.Background(), Options{HTTPClient: &http.Client{Transport: transport}})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Configured() {
		t.Fatalf("client without key reports configured")
	}

	_, err = client.EditImage(context.Background(), []byte("x"), "", "prompt")
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if got := transport.calls.Load(); got != 0 {
		t.Fatalf("expected no calls, got %d", got)
	}
}

func TestEditImageEmptyResults(t *testing.T) {
	cases := map[string]struct {
		body     map[string]any
		contains string
	}{
		"no candidates": {
			body:     map[string]any{"candidates": []any{}},
			contains: "no candidates",
		},
		"text only": {
			body: map[string]any{"candidates": []any{map[string]any{
				"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": "I cannot edit this photo"}}},
				"finishReason": "STOP",
			}}},
			contains: "I cannot edit this photo",
		},
		"safety stop": {
			body: map[string]any{"candidates": []any{map[string]any{
				"finishReason": "SAFETY",
			}}},
			contains: "SAFETY",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, tc.body)
			})
			_, err := client.EditImage(context.Background(), []byte("x"), "image/png", "prompt")
			if !errors.Is(err, domain.ErrEmptyResult) {
				t.Fatalf("expected empty result error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("error %q missing %q", err.Error(), tc.contains)
			}
		})
	}
}

func TestEditImageProviderError(t *testing.T) {
	client, transport := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"code": 400, "message": "Image too small", "status": "INVALID_ARGUMENT"},
		})
	})

	_, err := client.EditImage(context.Background(), []byte("x"), "image/png", "prompt")
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %+v", derr)
	}
	if !strings.Contains(err.Error(), "Image too small") {
		t.Fatalf("provider message not preserved: %v", err)
	}
	if got := transport.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one call, got %d", got)
	}
}

func TestEditImageTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(context.Background(), Options{APIKey: "k", BaseURL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.EditImage(context.Background(), []byte("x"), "image/png", "prompt")
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestEditImageDefaultsMissingMIMEType(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role": "model",
					"parts": []any{map[string]any{"inlineData": map[string]any{
						"data": base64.StdEncoding.EncodeToString([]byte("img")),
					}}},
				},
			}},
		})
	})

	res, err := client.EditImage(context.Background(), []byte("x"), "image/png", "prompt")
	if err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if string(res.Data) != "img" {
		t.Fatalf("data = %q, want img", res.Data)
	}
	if res.MIMEType != domain.DefaultImageMIMEType {
		t.Fatalf("mime type = %q, want %q", res.MIMEType, domain.DefaultImageMIMEType)
	}
}

func TestEditImageMalformedBody(t *testing.T) {
	cases := map[string]string{
		"not json":  "not json at all",
		"truncated": `{"candidates":[{"content":{"parts":[`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client, transport := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, body)
			})
			_, err := client.EditImage(context.Background(), []byte("x"), "image/png", "prompt")
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("expected malformed response error, got %v", err)
			}
			if got := transport.calls.Load(); got != 1 {
				t.Fatalf("expected exactly one call, got %d", got)
			}
		})
	}
}
