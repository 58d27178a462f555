package settings

import (
	"math"

	"punchd/internal/models"
)

// Validate checks a raw persisted document against the running schema
// version. Checks run in a fixed order and short-circuit: version presence,
// version equality, then structure. The version gate runs first so a schema
// bump is reported as an upgrade problem rather than corruption.
//
// The one sanctioned mutation is the legacy flat messages.actions shape,
// which is rewritten in place to the nested per-work-type shape. Every other
// invalid condition is terminal and forces an explicit reset.
func Validate(raw models.RawSettings) models.ValidationResult {
	actual, ok := versionOf(raw)
	if !ok {
		return models.InvalidResult(models.ReasonMissingVersion, raw, nil)
	}
	if actual != models.SettingsVersion {
		return models.InvalidResult(models.ReasonVersionMismatch, raw, &actual)
	}
	if !validStructure(raw) {
		return models.InvalidResult(models.ReasonInvalidStructure, raw, &actual)
	}
	return models.ValidResult()
}

// versionOf accepts only integral numbers. JSON decodes numbers as float64,
// so a whole-valued float counts as an integer.
func versionOf(raw models.RawSettings) (int, bool) {
	switch v := raw["version"].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func validStructure(raw models.RawSettings) bool {
	if _, ok := raw["conversations"].([]any); !ok {
		return false
	}

	for _, group := range []string{"emoji", "text"} {
		for _, mode := range []string{"office", "telework", "leave"} {
			if _, ok := stringAt(raw, "status", group, mode); !ok {
				return false
			}
		}
	}

	messages, present := raw["messages"]
	if !present || messages == nil {
		return true
	}
	return validMessages(messages)
}

func validMessages(messages any) bool {
	m, ok := messages.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := stringAt(m, "workTypes", "office"); !ok {
		return false
	}
	if _, ok := stringAt(m, "workTypes", "telework"); !ok {
		return false
	}

	actions, ok := m["actions"].(map[string]any)
	if !ok {
		return false
	}

	if _, nested := actions["office"]; nested {
		for _, mode := range []string{"office", "telework"} {
			for _, phase := range []string{"start", "end"} {
				if _, ok := stringAt(actions, mode, phase); !ok {
					return false
				}
			}
		}
		return true
	}

	// Legacy flat shape shared one start/end pair across work types.
	// Migrate it in place so the caller sees the nested shape.
	start, startOk := actions["start"].(string)
	end, endOk := actions["end"].(string)
	if !startOk || !endOk {
		return false
	}
	m["actions"] = map[string]any{
		"office":   map[string]any{"start": start, "end": end},
		"telework": map[string]any{"start": start, "end": end},
	}
	return true
}

func stringAt(m map[string]any, path ...string) (string, bool) {
	cur := m
	for i, key := range path {
		if i == len(path)-1 {
			s, ok := cur[key].(string)
			return s, ok
		}
		next, ok := cur[key].(map[string]any)
		if !ok {
			return "", false
		}
		cur = next
	}
	return "", false
}
