package deepseek

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestAskSendsSystemAndUserMessages(t *testing.T) {
	var captured map[string]any
	client, err := NewClient(Options{
		APIKey: "key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/chat/completions" {
				t.Fatalf("path = %q, want %q", r.URL.Path, "/chat/completions")
			}
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &captured); err != nil {
				t.Fatalf("request body is not JSON: %v", err)
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"光合作用是..."}}]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	reply, err := client.Ask(context.Background(), "你是生物科老師", "什麼是光合作用？")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if reply != "光合作用是..." {
		t.Fatalf("reply = %q, want assistant content", reply)
	}

	messages, ok := captured["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v, want system+user pair", captured["messages"])
	}
	first := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("first role = %v, want system", first["role"])
	}
	if captured["temperature"] != 0.6 {
		t.Fatalf("temperature = %v, want 0.6", captured["temperature"])
	}
}

func TestAskSurfacesAPIError(t *testing.T) {
	client, err := NewClient(Options{
		APIKey: "key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"error":{"message":"model overloaded"}}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = client.Ask(context.Background(), "", "什麼是光合作用？")
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("error = %v, want upstream message", err)
	}
}

func TestAskRequiresCredentials(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := client.Ask(context.Background(), "", "hi"); err != ErrMissingAPIKey {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
}
