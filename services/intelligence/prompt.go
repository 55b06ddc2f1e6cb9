// File: services/intelligence/prompt.go
package ai

import (
	"strings"

	"voicebook/models"
)

const summaryInstruction = "Eres un asistente que resume conversaciones de reserva de consultas. " +
	"Genera un resumen breve (máximo 3-4 oraciones) que capture los puntos clave: " +
	"qué servicios se discutieron, si se reservó cita (y cuándo), y cualquier información relevante."

// renderTurns flattens the dialogue into a single prompt, one line per
// turn, ending with an assistant cue so the model continues the dialogue.
func renderTurns(turns []models.ConversationTurn) string {
	var sb strings.Builder
	for _, t := range turns {
		switch t.Role {
		case models.RoleSystem:
			sb.WriteString("[instructions] ")
		case models.RoleUser:
			sb.WriteString("User: ")
		case models.RoleAssistant:
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(t.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("Assistant:")
	return sb.String()
}

func summaryPrompt(transcript string) string {
	return summaryInstruction + "\n\nPor favor, resume esta conversación de reserva:\n\n" + transcript
}
