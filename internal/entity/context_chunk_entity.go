package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContextChunk is one embedded Q/A interaction stored in the vector index.
// Chunk ids take the form "<session>_<unix_nano>", with an "_edited"
// suffix on replacement chunks.
type ContextChunk struct {
	Id        string
	SessionId uuid.UUID
	Content   string
	Embedding []float32
	Tags      map[string]string
	CreatedAt time.Time
}
