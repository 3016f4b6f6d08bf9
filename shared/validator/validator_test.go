package validator_test

import (
	"strings"
	"testing"

	"beautybar/shared/validator"
)

type bookingForm struct {
	Name      string `validate:"required"            json:"name"`
	Email     string `validate:"required,email"      json:"email"`
	Date      string `validate:"required,date"       json:"date"`
	StartTime string `validate:"required,timeofday"  json:"start_time"`
	Channel   string `validate:"oneof=email sms"     json:"channel"`
}

func validForm() bookingForm {
	return bookingForm{
		Name:      "Amelia Pond",
		Email:     "amelia@example.com",
		Date:      "2026-09-14",
		StartTime: "10:00",
		Channel:   "email",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*bookingForm)
		expectError bool
	}{
		{
			name:        "valid struct",
			mutate:      func(*bookingForm) {},
			expectError: false,
		},
		{
			name:        "missing required field",
			mutate:      func(f *bookingForm) { f.Name = "" },
			expectError: true,
		},
		{
			name:        "invalid email",
			mutate:      func(f *bookingForm) { f.Email = "not-an-email" },
			expectError: true,
		},
		{
			name:        "malformed date",
			mutate:      func(f *bookingForm) { f.Date = "14/09/2026" },
			expectError: true,
		},
		{
			name:        "impossible date",
			mutate:      func(f *bookingForm) { f.Date = "2026-02-30" },
			expectError: true,
		},
		{
			name:        "malformed time of day",
			mutate:      func(f *bookingForm) { f.StartTime = "10am" },
			expectError: true,
		},
		{
			name:        "invalid channel",
			mutate:      func(f *bookingForm) { f.Channel = "carrier-pigeon" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := validator.ValidateStruct(&form)

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
		field       any
		tag         string
		expectError bool
	}{
		{
			name:        "valid required string",
			field:       "svc-1",
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
			name:        "valid date",
			field:       "2026-09-14",
			tag:         "date",
			expectError: false,
		},
		{
			name:        "invalid date",
			field:       "tomorrow",
			tag:         "date",
			expectError: true,
		},
		{
			name:        "valid time of day",
			field:       "09:30",
			tag:         "timeofday",
			expectError: false,
		},
		{
			name:        "out of range time of day",
			field:       "25:00",
			tag:         "timeofday",
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
			jsonBody:    `{"name":"Amelia Pond","email":"amelia@example.com","date":"2026-09-14","start_time":"10:00","channel":"email"}`,
			expectError: false,
		},
		{
			name:        "invalid field value",
			jsonBody:    `{"name":"Amelia Pond","email":"not-an-email","date":"2026-09-14","start_time":"10:00","channel":"email"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"name":"Amelia Pond","email":}`,
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

			var data bookingForm
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
	data := &bookingForm{}

	err := validator.ValidateStruct(data)
	if err == nil {
		t.Fatal("expected validation error for empty struct")
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "required") || errorMsg == "" {
		t.Errorf("expected descriptive error message containing 'required', got: %s", errorMsg)
	}
}
