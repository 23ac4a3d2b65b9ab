package chat

import (
	"fmt"
	"strings"

	"github.com/futig/bichat-backend/internal/entity"
)

// renderTranscript flattens the turn log into the plain text the
// export formatters consume.
func renderTranscript(turns []entity.ConversationTurn) string {
	var sb strings.Builder
	for i, turn := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}

		label := "User"
		if turn.Role == entity.RoleAssistant {
			label = "Assistant"
		}

		fmt.Fprintf(&sb, "%s (%s):\n%s\n", label, turn.CreatedAt.Format("2006-01-02 15:04"), turn.Text)

		if turn.ArtifactPath != "" {
			fmt.Fprintf(&sb, "[chart: %s]\n", turn.ArtifactPath)
		}
	}
	return sb.String()
}
