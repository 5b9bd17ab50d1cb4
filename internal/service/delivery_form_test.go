package service

import (
	"errors"
	"strings"
	"testing"
)

func TestDeliveryFormValidatorAcceptsValidDraft(t *testing.T) {
	v := newTestValidator()
	input := validDraftInput()
	input.FullName = "  Jane Doe  "
	input.PickupTime = "14:00"

	draft, err := v.Validate(input)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if draft.FullName != "Jane Doe" {
		t.Fatalf("expected trimmed name, got %q", draft.FullName)
	}
	if draft.PickupTime != "2:00 PM" {
		t.Fatalf("expected normalized pickup time, got %q", draft.PickupTime)
	}
	if draft.SchoolName != "Lincoln High School" || draft.BoxType != "Lunch" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
}

func TestDeliveryFormValidatorSingleRuleFailures(t *testing.T) {
	today := fixedNow.Format(pickupDateLayout)
	yesterday := fixedNow.AddDate(0, 0, -1).Format(pickupDateLayout)

	cases := []struct {
		name   string
		mutate func(*DeliveryDraftInput)
		field  string
		key    string
	}{
		{"short name", func(in *DeliveryDraftInput) { in.FullName = "J" }, "full_name", "validation.full_name_min"},
		{"short phone", func(in *DeliveryDraftInput) { in.PhoneNumber = "555123" }, "phone_number", "validation.phone_number_min"},
		{"short address", func(in *DeliveryDraftInput) { in.PickupAddress = "1 Oak St" }, "pickup_address", "validation.pickup_address_min"},
		{"missing school", func(in *DeliveryDraftInput) { in.SchoolName = "" }, "school_name", "validation.school_required"},
		{"unknown school", func(in *DeliveryDraftInput) { in.SchoolName = "Hogwarts" }, "school_name", "validation.school_required"},
		{"other without text", func(in *DeliveryDraftInput) { in.SchoolName = "Other" }, "other_school_name", "validation.other_school_required"},
		{"past date", func(in *DeliveryDraftInput) { in.PickupDate = yesterday }, "pickup_date", "validation.pickup_date_past"},
		{"bad date", func(in *DeliveryDraftInput) { in.PickupDate = "10/16/2026" }, "pickup_date", "validation.pickup_date_required"},
		{"early slot", func(in *DeliveryDraftInput) { in.PickupTime = "7:30 AM" }, "pickup_time", "validation.pickup_time_invalid"},
		{"off-grid slot", func(in *DeliveryDraftInput) { in.PickupTime = "2:15 PM" }, "pickup_time", "validation.pickup_time_invalid"},
		{"unknown box", func(in *DeliveryDraftInput) { in.BoxType = "Piano" }, "box_type", "validation.box_type_required"},
		{"long notes", func(in *DeliveryDraftInput) { in.AdditionalNotes = strings.Repeat("x", 1001) }, "additional_notes", "validation.notes_too_long"},
	}

	v := newTestValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validDraftInput()
			tc.mutate(&input)
			_, err := v.Validate(input)
			if !errors.Is(err, ErrDraftInvalid) {
				t.Fatalf("expected ErrDraftInvalid, got %v", err)
			}
			var verr *DraftValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *DraftValidationError, got %T", err)
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("expected exactly one field error, got %v", verr.Fields)
			}
			if got := verr.Fields[tc.field]; got != tc.key {
				t.Fatalf("field %s: got %q want %q", tc.field, got, tc.key)
			}
		})
	}

	t.Run("today is allowed", func(t *testing.T) {
		input := validDraftInput()
		input.PickupDate = today
		if _, err := v.Validate(input); err != nil {
			t.Fatalf("expected today to pass, got %v", err)
		}
	})
}

func TestDeliveryFormValidatorOtherSchoolUsesFreeText(t *testing.T) {
	v := newTestValidator()
	input := validDraftInput()
	input.SchoolName = "Other"
	input.OtherSchoolName = "  Maple Grove Charter  "

	draft, err := v.Validate(input)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if draft.SchoolName != "Maple Grove Charter" {
		t.Fatalf("expected free-text school, got %q", draft.SchoolName)
	}
}

func TestDeliveryFormValidatorOptions(t *testing.T) {
	opts := newTestValidator().Options()
	if len(opts.PickupTimes) != 19 {
		t.Fatalf("expected 19 half-hour slots, got %d", len(opts.PickupTimes))
	}
	if opts.PickupTimes[0] != "8:00 AM" || opts.PickupTimes[len(opts.PickupTimes)-1] != "5:00 PM" {
		t.Fatalf("unexpected slot bounds: %v", opts.PickupTimes)
	}
	if opts.Schools[len(opts.Schools)-1] != "Other" {
		t.Fatalf("expected Other as last school, got %v", opts.Schools)
	}
	if len(opts.BoxTypes) != 3 {
		t.Fatalf("expected 3 box types, got %v", opts.BoxTypes)
	}
}
