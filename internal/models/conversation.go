package models

type PunchAction string

const (
	PunchStart PunchAction = "start"
	PunchEnd   PunchAction = "end"
)

// ResolvedConversation is the runtime snapshot produced for one configured
// target. It is rebuilt on every resolution pass and never mutated in place.
type ResolvedConversation struct {
	ID          string `json:"id"`
	ChannelID   string `json:"channelId,omitempty"`
	ChannelName string `json:"channelName,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	ThreadTs    string `json:"threadTs,omitempty"`
	ThreadText  string `json:"threadText,omitempty"`
}

// HasThread reports whether resolution matched an existing thread to reply
// into. False means the punch posts as a new message.
func (r *ResolvedConversation) HasThread() bool {
	return r.ThreadTs != ""
}

type PunchOutcome struct {
	ID        string `json:"id"`
	ChannelID string `json:"channelId,omitempty"`
	Ok        bool   `json:"ok"`
	Skipped   bool   `json:"skipped,omitempty"`
	Error     string `json:"error,omitempty"`
}
