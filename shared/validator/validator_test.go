package validator_test

import (
	"strings"
	"testing"

	"smartmeet/shared/validator"
)

type bookingRequestStruct struct {
	Title     string `validate:"required"                    json:"title"`
	Email     string `validate:"required,email"              json:"email"`
	Attendees int    `validate:"gte=1,lte=500"               json:"attendees"`
	Type      string `validate:"oneof=physical virtual"      json:"type"`
	StartTime string `validate:"required,clock"              json:"start_time"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *bookingRequestStruct
		expectError bool
	}{
		{
			name: "valid struct",
			data: &bookingRequestStruct{
				Title:     "Project sync",
				Email:     "jbanda@cs.unza.zm",
				Attendees: 12,
				Type:      "physical",
				StartTime: "09:00",
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &bookingRequestStruct{
				Email:     "jbanda@cs.unza.zm",
				Attendees: 12,
				Type:      "physical",
				StartTime: "09:00",
			},
			expectError: true,
		},
		{
			name: "invalid email",
			data: &bookingRequestStruct{
				Title:     "Project sync",
				Email:     "not-an-email",
				Attendees: 12,
				Type:      "physical",
				StartTime: "09:00",
			},
			expectError: true,
		},
		{
			name: "attendees out of range",
			data: &bookingRequestStruct{
				Title:     "Project sync",
				Email:     "jbanda@cs.unza.zm",
				Attendees: 501,
				Type:      "physical",
				StartTime: "09:00",
			},
			expectError: true,
		},
		{
			name: "invalid type",
			data: &bookingRequestStruct{
				Title:     "Project sync",
				Email:     "jbanda@cs.unza.zm",
				Attendees: 12,
				Type:      "hybrid",
				StartTime: "09:00",
			},
			expectError: true,
		},
		{
			name: "start time without separator",
			data: &bookingRequestStruct{
				Title:     "Project sync",
				Email:     "jbanda@cs.unza.zm",
				Attendees: 12,
				Type:      "virtual",
				StartTime: "0900",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{
			name:        "valid required string",
			field:       "test",
			tag:         "required",
			expectError: false,
		},
		{
			name:        "empty required string",
			field:       "",
			tag:         "required",
			expectError: true,
		},
		{
			name:        "valid email",
			field:       "mphiri@cs.unza.zm",
			tag:         "email",
			expectError: false,
		},
		{
			name:        "invalid email",
			field:       "invalid-email",
			tag:         "email",
			expectError: true,
		},
		{
			name:        "valid oneof",
			field:       "pending",
			tag:         "oneof=pending approved rejected cancelled",
			expectError: false,
		},
		{
			name:        "invalid oneof",
			field:       "archived",
			tag:         "oneof=pending approved rejected cancelled",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"title":"Project sync","email":"jbanda@cs.unza.zm","attendees":12,"type":"physical","start_time":"09:00"}`,
			expectError: false,
		},
		{
			name:        "invalid field value",
			jsonBody:    `{"title":"Project sync","email":"invalid-email","attendees":12,"type":"physical","start_time":"09:00"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"title":"Project sync","email":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := strings.NewReader(tt.jsonBody)
			var data bookingRequestStruct
			err := validator.Validate(reader, &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	data := &bookingRequestStruct{}
	err := validator.ValidateStruct(data)

	if err == nil {
		t.Fatal("expected validation error for empty struct")
	}

	errorMsg := err.Error()

	if !strings.Contains(errorMsg, "required") || errorMsg == "" {
		t.Errorf("expected descriptive error message containing 'required', got: %s", errorMsg)
	}
}
