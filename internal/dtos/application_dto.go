package dtos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
)

type ApplicationCreateRequest struct {
	Company     string `json:"company" binding:"required"`
	Role        string `json:"role" binding:"required"`
	DateApplied string `json:"date_applied" binding:"required"`

	// Optional Fields
	JobDescription *string `json:"job_description"`
	ResumeContent  *string `json:"resume_content"`
}

// The AI request fields must be present but may be empty strings.

type JDAnalysisRequest struct {
	JobDesc *string `json:"job_desc" binding:"required"`
}

type TailorResumeRequest struct {
	Resume *string `json:"resume" binding:"required"`
}

type RejectionRequest struct {
	Email *string `json:"email" binding:"required"`
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
	Degraded bool   `json:"degraded,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions string `json:"suggestions"`
	Degraded    bool   `json:"degraded,omitempty"`
}

type PDFResponse struct {
	Filename string `json:"filename"`
	Base64   string `json:"base64"`
	Message  string `json:"message"`
}

type EmailSummary struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
	Body    string `json:"body"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts a full timestamp or a bare calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or an RFC 3339 timestamp", s)
}

// ApplicationPatch maps column names to new values. Build it with
// DecodeApplicationPatch so only allow-listed columns can appear.
type ApplicationPatch map[string]any

type patchField struct {
	nullable bool
	// parse turns a JSON string into the column value.
	parse func(string) (any, error)
}

func nonEmpty(field string) func(string) (any, error) {
	return func(s string) (any, error) {
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%s must not be empty", field)
		}
		return s, nil
	}
}

func anyText(s string) (any, error) { return s, nil }

var patchableFields = map[string]patchField{
	"company":         {parse: nonEmpty("company")},
	"role":            {parse: nonEmpty("role")},
	"status":          {parse: nonEmpty("status")},
	"date_applied":    {parse: func(s string) (any, error) { return ParseDate(s) }},
	"job_description": {nullable: true, parse: anyText},
	"resume_content":  {nullable: true, parse: anyText},
	"notes":           {nullable: true, parse: anyText},
}

// DecodeApplicationPatch validates a PATCH body. Unknown keys, wrong value
// types and nulls on required columns are rejected with a validation error.
func DecodeApplicationPatch(raw map[string]json.RawMessage) (ApplicationPatch, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	patch := make(ApplicationPatch, len(raw))
	for _, key := range keys {
		field, ok := patchableFields[key]
		if !ok {
			return nil, apperror.ValidationFailed(key, fmt.Sprintf("unknown or read-only field: %s", key))
		}

		value := bytes.TrimSpace(raw[key])
		if bytes.Equal(value, []byte("null")) {
			if !field.nullable {
				return nil, apperror.ValidationFailed(key, fmt.Sprintf("%s cannot be null", key))
			}
			patch[key] = nil
			continue
		}

		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, apperror.ValidationFailed(key, fmt.Sprintf("%s must be a string", key))
		}
		parsed, err := field.parse(s)
		if err != nil {
			return nil, apperror.ValidationFailed(key, err.Error())
		}
		patch[key] = parsed
	}
	return patch, nil
}
