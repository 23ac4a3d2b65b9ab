package entity

import "time"

// SessionDTO is the wire representation of a chat session.
type SessionDTO struct {
	ID         string    `json:"session_id"`
	Mode       Mode      `json:"mode"`
	TurnCount  int       `json:"turn_count"`
	IndexReady bool      `json:"index_ready"`
	CreatedAt  time.Time `json:"created_at"`
}

// SwitchModeRequest asks the session to enter a different mode.
// Switching is a hard reset: history and any built index are discarded.
type SwitchModeRequest struct {
	Mode Mode `json:"mode"`
}

// SendMessageRequest carries one user message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// CreateSessionRequest opens a new session. Mode defaults to
// DATABASE_CHART when omitted.
type CreateSessionRequest struct {
	Mode Mode `json:"mode"`
}

// ErrorResponse is the wire representation of a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// TurnDTO is the wire representation of a conversation turn.
type TurnDTO struct {
	Role         Role      `json:"role"`
	Text         string    `json:"text"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
