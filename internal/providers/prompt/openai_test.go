package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"headshot/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestCompleter(calls *int, fn func(r *http.Request) (*http.Response, error)) *OpenAICompleter {
	return NewOpenAICompleter(OpenAIOptions{
		APIKey:  "or-key",
		BaseURL: "https://openrouter.test/api/v1",
		Referer: "https://profpics.test",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			*calls++
			return fn(r)
		})},
	})
}

func TestOpenAICompleterSendsSystemAndUserMessages(t *testing.T) {
	var calls int
	var payload struct {
		Model       string  `json:"model"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	completer := newTestCompleter(&calls, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer or-key" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("HTTP-Referer"); got != "https://profpics.test" {
			t.Errorf("referer = %q", got)
		}
		if got := r.Header.Get("X-Title"); got != DefaultTitle {
			t.Errorf("title = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"id":"c1","object":"chat.completion","model":"google/gemini-2.5-flash","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Wear navy.  \n"}}]}`), nil
	})

	res, err := completer.Complete(context.Background(), CompletionRequest{Prompt: "What should I wear?"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if res.Text != "Wear navy." {
		t.Fatalf("Text = %q, want trimmed content", res.Text)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if payload.Model != DefaultModel || payload.MaxTokens != DefaultMaxTokens || payload.Temperature != DefaultTemperature {
		t.Fatalf("unexpected parameters: %+v", payload)
	}
	if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", payload.Messages)
	}
	if payload.Messages[1].Content != "What should I wear?" {
		t.Fatalf("user content = %q", payload.Messages[1].Content)
	}
}

func TestOpenAICompleterHonoursRequestOverrides(t *testing.T) {
	var calls int
	var payload map[string]any
	completer := newTestCompleter(&calls, func(r *http.Request) (*http.Response, error) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		return jsonResponse(http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`), nil
	})
	temp := 0.2
	_, err := completer.Complete(context.Background(), CompletionRequest{Prompt: "hi", Model: "openai/gpt-4o-mini", MaxTokens: 64, Temperature: &temp})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if payload["model"] != "openai/gpt-4o-mini" || payload["max_tokens"] != float64(64) || payload["temperature"] != 0.2 {
		t.Fatalf("overrides not applied: %v", payload)
	}
}

func TestOpenAICompleterMissingKeyMakesNoCalls(t *testing.T) {
	var calls int
	completer := NewOpenAICompleter(OpenAIOptions{
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			return nil, errors.New("unexpected call")
		})},
	})
	_, err := completer.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}

func TestOpenAICompleterClassifiesFailures(t *testing.T) {
	cases := []struct {
		name        string
		respond     func(r *http.Request) (*http.Response, error)
		want        error
		status      int
		rateLimited bool
	}{
		{
			name: "rate limited",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, `{"error":{"message":"Rate limit exceeded","code":429}}`), nil
			},
			want:        domain.ErrProvider,
			status:      http.StatusTooManyRequests,
			rateLimited: true,
		},
		{
			name: "unauthorized",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusUnauthorized, `{"error":{"message":"No auth credentials found","code":401}}`), nil
			},
			want:   domain.ErrProvider,
			status: http.StatusUnauthorized,
		},
		{
			name: "network",
			respond: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("connection reset")
			},
			want: domain.ErrTransport,
		},
		{
			name: "no choices",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
			},
			want: domain.ErrEmptyResult,
		},
		{
			name: "body is not json",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `not json at all`), nil
			},
			want: domain.ErrMalformedResponse,
		},
		{
			name: "truncated body",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[{"message":`), nil
			},
			want: domain.ErrMalformedResponse,
		},
		{
			name: "choices of the wrong type",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":"oops"}`), nil
			},
			want: domain.ErrMalformedResponse,
		},
		{
			name: "content of the wrong type",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":{"text":"hi"}}}]}`), nil
			},
			want: domain.ErrMalformedResponse,
		},
		{
			name: "null choices",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":null}`), nil
			},
			want: domain.ErrEmptyResult,
		},
		{
			name: "blank content",
			respond: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"   "}}]}`), nil
			},
			want: domain.ErrEmptyResult,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			completer := newTestCompleter(&calls, tc.respond)
			_, err := completer.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if calls != 1 {
				t.Fatalf("calls = %d, want exactly 1 (no retries)", calls)
			}
			var derr *domain.Error
			if !errors.As(err, &derr) {
				t.Fatalf("expected *domain.Error, got %T", err)
			}
			if derr.StatusCode != tc.status {
				t.Fatalf("StatusCode = %d, want %d", derr.StatusCode, tc.status)
			}
			if derr.RateLimited() != tc.rateLimited {
				t.Fatalf("RateLimited = %v, want %v", derr.RateLimited(), tc.rateLimited)
			}
		})
	}
}

func TestOpenAICompleterRejectsBlankPrompt(t *testing.T) {
	var calls int
	completer := newTestCompleter(&calls, func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("unexpected call")
	})
	_, err := completer.Complete(context.Background(), CompletionRequest{Prompt: "  "})
	if !errors.Is(err, domain.ErrValidation) || calls != 0 {
		t.Fatalf("expected validation error without calls, got %v (%d calls)", err, calls)
	}
}
