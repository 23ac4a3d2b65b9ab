package chat

import "github.com/futig/bichat-backend/internal/entity"

// toTurnDTOs converts conversation turns to their wire representation
func toTurnDTOs(turns []entity.ConversationTurn) []entity.TurnDTO {
	dtos := make([]entity.TurnDTO, len(turns))
	for i, turn := range turns {
		dtos[i] = entity.TurnDTO{
			Role:         turn.Role,
			Text:         turn.Text,
			ArtifactPath: turn.ArtifactPath,
			CreatedAt:    turn.CreatedAt,
		}
	}
	return dtos
}
