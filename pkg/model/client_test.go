package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionResponse(content string) ChatResponse {
	return ChatResponse{
		ID:    "chatcmpl-test",
		Model: "gpt-4o-mini",
		Choices: []Choice{{
			Message:      Message{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
		Usage: Usage{PromptTokens: 12, CompletionTokens: 7, TotalTokens: 19},
	}
}

func TestChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)

		json.NewEncoder(w).Encode(completionResponse("hello"))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	resp, err := client.ChatCompletion(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Choices[0].Message.Content)
	assert.Equal(t, 19, resp.Usage.TotalTokens)
}

func TestChatCompletionRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(completionResponse("recovered"))
	}))
	defer server.Close()

	client := NewClient("k", server.URL)
	resp, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Choices[0].Message.Content)
	assert.Equal(t, int32(3), calls.Load())
}

func TestChatCompletionDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{
			Message: "bad key", Type: "invalid_request_error", Code: "invalid_api_key",
		}})
	}))
	defer server.Close()

	client := NewClient("bad", server.URL)
	_, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "bad key", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestChatCompletionCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("k", "http://127.0.0.1:1")
	_, err := client.ChatCompletion(ctx, ChatRequest{Model: "m"})
	require.Error(t, err)
}

func TestCountTokens(t *testing.T) {
	// exact counts depend on the encoding; sanity-check proportionality
	short := CountTokens("hello world")
	long := CountTokens("hello world hello world hello world hello world")
	assert.Greater(t, short, 0)
	assert.Greater(t, long, short)
}

func TestCountTokensForMessages(t *testing.T) {
	messages := []Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "Evaluate this repository."},
	}
	total := CountTokensForMessages(messages)
	assert.Greater(t, total, CountTokens("You are helpful.")+CountTokens("Evaluate this repository."))
}
