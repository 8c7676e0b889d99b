// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	// Test that GetValidator returns the same instance
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

// postRequest mirrors the forum post request shape used by the API layer.
type postRequest struct {
	Title   string `validate:"notblank,max=200"`
	Content string `validate:"notblank"`
	Author  string `validate:"notblank,max=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input postRequest
	}{
		{
			name: "all valid fields",
			input: postRequest{
				Title:   "Transformers in practice",
				Content: "How do attention heads specialize?",
				Author:  "ada",
			},
		},
		{
			name: "single character values",
			input: postRequest{
				Title:   "a",
				Content: "b",
				Author:  "c",
			},
		},
		{
			name: "interior whitespace allowed",
			input: postRequest{
				Title:   "  padded title  ",
				Content: "content",
				Author:  "author",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     postRequest
		wantField string
		wantTag   string
	}{
		{
			name: "empty title",
			input: postRequest{
				Title:   "",
				Content: "content",
				Author:  "author",
			},
			wantField: "Title",
			wantTag:   "notblank",
		},
		{
			name: "whitespace-only content",
			input: postRequest{
				Title:   "title",
				Content: "   \t\n",
				Author:  "author",
			},
			wantField: "Content",
			wantTag:   "notblank",
		},
		{
			name: "author too long",
			input: postRequest{
				Title:   "title",
				Content: "content",
				Author:  strings.Repeat("x", 101),
			},
			wantField: "Author",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("Errors() returned %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	input := postRequest{Title: "", Content: " ", Author: ""}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if got := len(err.Errors()); got != 3 {
		t.Fatalf("Errors() returned %d errors, want 3", got)
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("ToAPIError().Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("ToAPIError().Details[fields] has type %T, want []map[string]interface{}", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("details list %d fields, want 3", len(fields))
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	input := postRequest{Title: "  ", Content: "content", Author: "author"}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "Title must not be blank" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Title must not be blank")
	}
	if apiErr.Details["field"] != "Title" {
		t.Errorf("Details[field] = %v, want Title", apiErr.Details["field"])
	}
}

func TestTranslateError_RatingBounds(t *testing.T) {
	type rateRequest struct {
		Stars int `validate:"gte=1,lte=5"`
	}

	err := ValidateStruct(&rateRequest{Stars: 6})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if want := "Stars must be less than or equal to 5"; err.Errors()[0].Error() != want {
		t.Errorf("Error() = %q, want %q", err.Errors()[0].Error(), want)
	}

	err = ValidateStruct(&rateRequest{Stars: 0})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if want := "Stars must be greater than or equal to 1"; err.Errors()[0].Error() != want {
		t.Errorf("Error() = %q, want %q", err.Errors()[0].Error(), want)
	}
}
