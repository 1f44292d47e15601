package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "gpt", time.Second)
	reply, err := client.Complete(context.Background(), "hello", "be nice")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "hi" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestClientCompleteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "gpt", time.Second)
	if _, err := client.Complete(context.Background(), "hello", ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestClientCompleteStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt\",\"choices\":[{\"index\":0,\"delta\":{\"role\":\"assistant\",\"content\":\"hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "gpt", time.Second)
	var got string
	err := client.CompleteStream(context.Background(), "hello", "", func(fragment string) error {
		got += fragment
		return nil
	})
	if err != nil {
		t.Fatalf("CompleteStream failed: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected stream content: %q", got)
	}
}

func TestMockClientClassification(t *testing.T) {
	mock := NewMockClient()
	reply, err := mock.Complete(context.Background(), `Respond with a JSON object with fields "nextAgent", "confidence", and "reasoning".`, "")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != mockDecision {
		t.Fatalf("unexpected classification reply: %q", reply)
	}
}

func TestMockClientStreamReassembles(t *testing.T) {
	mock := NewMockClient()
	full, err := mock.Complete(context.Background(), "tell me something", "")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	var streamed string
	if err := mock.CompleteStream(context.Background(), "tell me something", "", func(fragment string) error {
		streamed += fragment
		return nil
	}); err != nil {
		t.Fatalf("CompleteStream failed: %v", err)
	}
	if streamed != full {
		t.Fatalf("streamed %q != full %q", streamed, full)
	}
}
