// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package validation

import (
	"strings"
	"testing"
)

type feedbackInput struct {
	UserID      string         `json:"user_id" validate:"userid"`
	SessionType string         `json:"session_type" validate:"omitempty,session_type"`
	Ratings     map[string]int `json:"ratings" validate:"max=10,dive,likert"`
	Topics      []string       `json:"missing_topics" validate:"max=3,dive,max=20"`
	Hours       int            `json:"weekly_hours" validate:"gte=0,lte=80"`
	Internal    string         `json:"-"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input feedbackInput
	}{
		{"minimal", feedbackInput{UserID: "u1"}},
		{"full", feedbackInput{
			UserID:      "user-42",
			SessionType: "assessment",
			Ratings:     map[string]int{"clarity": 1, "pace": 5},
			Topics:      []string{"robótica"},
			Hours:       10,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     feedbackInput
		wantField string
		wantTag   string
	}{
		{"empty user", feedbackInput{}, "user_id", "userid"},
		{"slash in user", feedbackInput{UserID: "a/b"}, "user_id", "userid"},
		{"space in user", feedbackInput{UserID: "a b"}, "user_id", "userid"},
		{"bad session", feedbackInput{UserID: "u", SessionType: "lecture"}, "session_type", "session_type"},
		{"rating too high", feedbackInput{UserID: "u", Ratings: map[string]int{"x": 6}}, "ratings[x]", "likert"},
		{"rating zero", feedbackInput{UserID: "u", Ratings: map[string]int{"x": 0}}, "ratings[x]", "likert"},
		{"hours", feedbackInput{UserID: "u", Hours: 100}, "weekly_hours", "lte"},
		{"too many topics", feedbackInput{UserID: "u", Topics: []string{"a", "b", "c", "d"}}, "missing_topics", "max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(errs), err)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&feedbackInput{})
	apiErr := single.ToAPIError()
	if apiErr.Code != CodeValidation {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "user_id" {
		t.Errorf("Details = %v", apiErr.Details)
	}

	multi := ValidateStruct(&feedbackInput{SessionType: "x", Hours: -1})
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("fields = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "session_type: ") {
		t.Errorf("Message = %q", apiErr.Message)
	}

	empty := &RequestValidationError{}
	if empty.ToAPIError().Message != "Validation failed" || empty.Error() != "validation failed" {
		t.Error("empty error formatting")
	}
}

func TestTranslateMessages(t *testing.T) {
	err := ValidateStruct(&feedbackInput{UserID: "u", Topics: []string{strings.Repeat("x", 21)}})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Errors()[0].Error(); got != "missing_topics[0] must be at most 20 characters" {
		t.Errorf("message = %q", got)
	}

	err = ValidateStruct(&feedbackInput{UserID: "u", Ratings: map[string]int{"k": 9}})
	if got := err.Error(); got != "ratings[k] must be an integer between 1 and 5" {
		t.Errorf("message = %q", got)
	}
}

func TestValidateVar(t *testing.T) {
	if err := ValidateVar("study", "session_type"); err != nil {
		t.Errorf("study: %v", err)
	}
	if err := ValidateVar(7, "likert"); err == nil {
		t.Error("7 should fail likert")
	}
}
