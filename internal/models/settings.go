package models

// SettingsVersion is the schema version this build reads and writes.
// A persisted document with any other version is rejected at load time.
const SettingsVersion = 1

type WorkStatus struct {
	Office   string `json:"office"`
	Telework string `json:"telework"`
	Leave    string `json:"leave"`
}

type StatusSetting struct {
	Emoji WorkStatus `json:"emoji"`
	Text  WorkStatus `json:"text"`
}

type WorkTypeLabels struct {
	Office   string `json:"office"`
	Telework string `json:"telework"`
}

type ActionTemplate struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ActionTemplates struct {
	Office   ActionTemplate `json:"office"`
	Telework ActionTemplate `json:"telework"`
}

type MessageTemplates struct {
	WorkTypes WorkTypeLabels  `json:"workTypes"`
	Actions   ActionTemplates `json:"actions"`
}

// Conversation is a configured fan-out target. ID is generated once and is
// the stable join key; ChannelID is user-editable and may be blank before
// the first setup pass.
type Conversation struct {
	ID            string `json:"id"`
	ChannelID     string `json:"channelId"`
	SearchMessage string `json:"searchMessage"`
}

type PunchDraft struct {
	ChangeStatusEmoji bool   `json:"changeStatusEmoji"`
	InOffice          bool   `json:"inOffice"`
	AdditionalMessage string `json:"additionalMessage"`
}

// AppSettings is the whole persisted settings document.
type AppSettings struct {
	Version       int               `json:"version"`
	Conversations []Conversation    `json:"conversations"`
	Status        StatusSetting     `json:"status"`
	Messages      *MessageTemplates `json:"messages,omitempty"`
	SavedDraft    *PunchDraft       `json:"savedPunchInSettings,omitempty"`
}

// FirstChannelConfigured reports whether the leading target has a channel id,
// which is what decides setup-needed vs ready.
func (s *AppSettings) FirstChannelConfigured() bool {
	return len(s.Conversations) > 0 && s.Conversations[0].ChannelID != ""
}
