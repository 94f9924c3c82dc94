package proto

import "ctchen222/Prompt-Benchmark/internal/api/models"

// Message types exchanged on /ws/evaluate.
const (
	TypeEvaluate = "evaluate"
	TypeResults  = "results"
	TypeError    = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type   string  `json:"type" validate:"required,oneof=evaluate"`
	Prompt *string `json:"prompt" validate:"required"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type      string               `json:"type" validate:"required"`
	Results   []models.ModelResult `json:"results,omitempty"`
	Persisted bool                 `json:"persisted"`
	Message   string               `json:"message,omitempty"`
}

func Results(results []models.ModelResult, persisted bool) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeResults, Results: results, Persisted: persisted}
}

func Error(message string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeError, Message: message}
}
