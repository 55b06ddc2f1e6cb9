// File: services/conversation/speech.go
package conversation

import "context"

// SpeechIO is the asynchronous speech capability a transport hands to Run.
// Listen suspends until one complete utterance arrives or ctx is
// cancelled; there is no fixed timeout, end-of-utterance detection belongs
// to the underlying capture service. Speak suspends until synthesis
// finishes. Cancelling ctx must halt both without leaving listeners
// behind.
type SpeechIO interface {
	Listen(ctx context.Context) (string, error)
	Speak(ctx context.Context, text string) error
}
