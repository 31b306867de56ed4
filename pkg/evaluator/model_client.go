package evaluator

import (
	"context"

	"github.com/alexeygrigorev/github-project-scorer/pkg/model"
)

// ModelClient defines the subset of model.Client capabilities the evaluator
// needs. This indirection lets tests script model behavior without live API
// calls.
type ModelClient interface {
	ChatCompletion(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
}
