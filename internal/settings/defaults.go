package settings

import (
	"github.com/google/uuid"

	"punchd/internal/models"
)

// DefaultAppSettings is the document served when nothing has been persisted
// yet. It carries one blank target so the lifecycle lands in setup mode.
func DefaultAppSettings() *models.AppSettings {
	return &models.AppSettings{
		Version: models.SettingsVersion,
		Conversations: []models.Conversation{
			{ID: uuid.NewString()},
		},
		Status: models.StatusSetting{
			Emoji: models.WorkStatus{
				Office:   ":office:",
				Telework: ":house_with_garden:",
				Leave:    ":soon:",
			},
			Text: models.WorkStatus{
				Office:   "出社しています",
				Telework: "テレワーク",
				Leave:    "退勤しています",
			},
		},
	}
}

// DefaultMessageTemplates fills in for a document with no messages section.
func DefaultMessageTemplates() *models.MessageTemplates {
	return &models.MessageTemplates{
		WorkTypes: models.WorkTypeLabels{
			Office:   "業務",
			Telework: "テレワーク",
		},
		Actions: models.ActionTemplates{
			Office:   models.ActionTemplate{Start: "開始します", End: "終了します"},
			Telework: models.ActionTemplate{Start: "開始します", End: "終了します"},
		},
	}
}

// EnsureConversationIDs assigns a fresh id to any target that lacks one.
// Existing ids are never touched: they are the stable join key between the
// document and resolved runtime data.
func EnsureConversationIDs(s *models.AppSettings) {
	for i := range s.Conversations {
		if s.Conversations[i].ID == "" {
			s.Conversations[i].ID = uuid.NewString()
		}
	}
}
