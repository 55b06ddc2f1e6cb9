// File: services/intelligence/interface.go
package ai

import (
	"context"

	"voicebook/models"
)

// Service is the stateless bridge to the hosted language model. Reply takes
// the full ordered turn list for one session; Summarize condenses a call
// transcript after the session ends. Both treat an empty upstream reply as
// a failure, never as a silent no-op.
type Service interface {
	Reply(ctx context.Context, turns []models.ConversationTurn) (string, error)
	Summarize(ctx context.Context, transcript string) (string, error)
}
