package models

// Turn roles in the dialogue context sent to the language model.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one message in the dialogue context. The sequence is
// append-only and owned by the conversation controller for one session.
type ConversationTurn struct {
	Role string `bson:"role" json:"role"`
	Text string `bson:"text" json:"text"`
}
