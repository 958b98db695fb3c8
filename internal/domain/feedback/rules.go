package feedback

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Submission is a candidate feedback record before persistence. The owning
// application is resolved from the credential, never supplied here.
type Submission struct {
	EndUserID string
	Rating    *int
	Category  string
	Content   string
	Device    json.RawMessage
	Meta      json.RawMessage
}

// FieldError names one semantically invalid field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError collects every failing field so the caller can fix the
// whole submission in one pass.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// ValidateSubmission checks every optional field against the policy and
// returns a *ValidationError listing all failures, or nil.
func ValidateSubmission(policy Policy, sub Submission) error {
	verr := &ValidationError{}

	if sub.Rating != nil {
		if *sub.Rating < policy.RatingMin || *sub.Rating > policy.RatingMax {
			verr.add("rating", fmt.Sprintf("must be between %d and %d", policy.RatingMin, policy.RatingMax))
		}
	}

	if category := strings.TrimSpace(sub.Category); category != "" {
		if !policy.AllowsCategory(category) {
			verr.add("category", fmt.Sprintf("must be one of: %s", strings.Join(policy.Categories, ", ")))
		}
	}

	if len(sub.Content) > policy.MaxContentLen {
		verr.add("content", fmt.Sprintf("must not exceed %d characters", policy.MaxContentLen))
	}

	if reason, ok := checkMetadata(policy, sub.Device); !ok {
		verr.add("device", reason)
	}
	if reason, ok := checkMetadata(policy, sub.Meta); !ok {
		verr.add("meta", reason)
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// checkMetadata requires a JSON object within the policy byte bound. Absent
// metadata is fine.
func checkMetadata(policy Policy, raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", true
	}
	if len(raw) > policy.MaxMetadataBytes {
		return fmt.Sprintf("must not exceed %d bytes", policy.MaxMetadataBytes), false
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "must be a JSON object", false
	}
	return "", true
}

// NormalizeMetadata returns the stored form of a metadata document: "{}"
// when absent, the raw JSON otherwise. Callers validate first.
func NormalizeMetadata(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

// ExtractDeviceFields promotes the version/OS values out of the device
// metadata so the triage filter can match them with indexed columns.
func ExtractDeviceFields(raw json.RawMessage) (appVersion string, osName string) {
	if len(raw) == 0 {
		return "", ""
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", ""
	}

	appVersion = firstString(obj, "app_version", "appVersion", "version")
	osName = firstString(obj, "os", "os_name", "osName")
	return appVersion, osName
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
