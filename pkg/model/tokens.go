package model

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tokenEncoder *tiktoken.Tiktoken
	encoderOnce  sync.Once
	encoderErr   error
)

func initTokenEncoder() error {
	encoderOnce.Do(func() {
		// cl100k_base covers GPT-4 and GPT-3.5-turbo families
		tokenEncoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	return encoderErr
}

// CountTokens counts tokens in a text using tiktoken. Used to estimate usage
// when a provider response omits token counts.
func CountTokens(text string) int {
	if err := initTokenEncoder(); err != nil {
		return estimateTokens(text)
	}
	return len(tokenEncoder.Encode(text, nil, nil))
}

// CountTokensForMessages counts tokens for a list of messages, including
// per-message formatting overhead.
func CountTokensForMessages(messages []Message) int {
	if err := initTokenEncoder(); err != nil {
		total := 0
		for _, msg := range messages {
			total += estimateTokens(msg.Content)
		}
		return total
	}

	total := 0
	for _, msg := range messages {
		// approximately 4 tokens of per-message framing
		total += 4
		total += len(tokenEncoder.Encode(msg.Role, nil, nil))
		total += len(tokenEncoder.Encode(msg.Content, nil, nil))
	}
	total += 2

	return total
}

// estimateTokens approximates token counts at 4 characters per token.
func estimateTokens(text string) int {
	return len(text) / 4
}
