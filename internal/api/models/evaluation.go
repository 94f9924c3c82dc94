package models

// Evaluation is one persisted (prompt, model) result. UserID is nil for
// rows that were never tied to a user.
type Evaluation struct {
	ID       int64  `db:"id" json:"id"`
	UserID   *int64 `db:"user_id" json:"user_id,omitempty"`
	Prompt   string `db:"prompt" json:"prompt"`
	Model    string `db:"model" json:"model"`
	Response string `db:"response" json:"response"`
	Score    int    `db:"score" json:"score"`
}

// EvaluateRequest carries the prompt to run. A pointer so that an empty
// prompt is accepted while a missing one is rejected.
type EvaluateRequest struct {
	Prompt *string `json:"prompt" binding:"required"`
}

// ModelResult is the outcome of running one model on the prompt.
type ModelResult struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Score    int    `json:"score"`
}

type EvaluateResponse struct {
	Results []ModelResult `json:"results"`
}

// EvaluationOutcome is what the evaluation service hands back to transports.
type EvaluationOutcome struct {
	Results   []ModelResult
	Persisted bool
}
