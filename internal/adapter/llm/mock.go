package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is a deterministic Gateway implementation for development and
// tests. It recognizes classification prompts by their requested JSON fields
// and answers with a well-formed chat decision.
type MockClient struct{}

// NewMockClient creates a new mock gateway.
func NewMockClient() *MockClient {
	return &MockClient{}
}

const mockDecision = `{"nextAgent":"chat","confidence":0.9,"reasoning":"mock classification"}`

// Complete returns a canned response based on the prompt.
func (m *MockClient) Complete(ctx context.Context, prompt, system string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.respond(prompt), nil
}

// CompleteStream simulates streaming by chunking the canned response.
func (m *MockClient) CompleteStream(ctx context.Context, prompt, system string, fn FragmentFunc) error {
	response := m.respond(prompt)
	for _, chunk := range splitIntoChunks(response, 10) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockClient) respond(prompt string) string {
	if strings.Contains(prompt, `"nextAgent"`) {
		return mockDecision
	}
	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(prompt, 100))
}

// splitIntoChunks splits a string into chunks of approximately the given size.
func splitIntoChunks(s string, chunkSize int) []string {
	if len(s) == 0 {
		return []string{""}
	}
	var chunks []string
	for i := 0; i < len(s); i += chunkSize {
		end := i + chunkSize
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
