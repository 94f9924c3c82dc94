package models

// ModelConfig is an admin-managed record naming a registered model type.
type ModelConfig struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Type string `db:"type" json:"type"`
}

type CreateModelConfigRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Type string `json:"type" binding:"required"`
}
