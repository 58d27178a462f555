package models

// RawSettings is the loosely-typed form of the persisted document. Business
// logic never reads it; it exists so an invalid blob can still be shown to
// the user before an explicit reset wipes it.
type RawSettings map[string]any

type InvalidReason string

const (
	ReasonMissingVersion   InvalidReason = "missing-version"
	ReasonVersionMismatch  InvalidReason = "version-mismatch"
	ReasonInvalidStructure InvalidReason = "invalid-structure"
)

type ValidationResult struct {
	Valid           bool          `json:"valid"`
	Reason          InvalidReason `json:"reason,omitempty"`
	ExpectedVersion int           `json:"expectedVersion,omitempty"`
	ActualVersion   *int          `json:"actualVersion,omitempty"`
	Raw             RawSettings   `json:"-"`
}

func ValidResult() ValidationResult {
	return ValidationResult{Valid: true}
}

func InvalidResult(reason InvalidReason, raw RawSettings, actual *int) ValidationResult {
	return ValidationResult{
		Reason:          reason,
		ExpectedVersion: SettingsVersion,
		ActualVersion:   actual,
		Raw:             raw,
	}
}

// ConversationDiagnostic is the recoverable part of a rejected document:
// enough for the user to re-enter targets by hand after a reset.
type ConversationDiagnostic struct {
	ChannelID     string `json:"channelId"`
	SearchMessage string `json:"searchMessage"`
}

// Diagnostics pulls channel ids and search phrases out of a raw document on
// a best-effort basis. Entries that are not objects are skipped.
func (r RawSettings) Diagnostics() []ConversationDiagnostic {
	list, ok := r["conversations"].([]any)
	if !ok {
		return nil
	}
	out := make([]ConversationDiagnostic, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		d := ConversationDiagnostic{}
		if v, ok := entry["channelId"].(string); ok {
			d.ChannelID = v
		}
		if v, ok := entry["searchMessage"].(string); ok {
			d.SearchMessage = v
		}
		out = append(out, d)
	}
	return out
}
