package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoctorName(t *testing.T) {
	cases := []struct {
		name   string
		doctor any
		want   string
	}{
		{"nil input", nil, "Unknown Doctor"},
		{"wrong type", "not a map", "Unknown Doctor"},
		{"empty map", map[string]any{}, "Unknown Doctor"},
		{
			"flattened first and last",
			map[string]any{"firstName": "A", "lastName": "B"},
			"A B",
		},
		{
			"nested under user",
			map[string]any{"user": map[string]any{"firstName": "A", "lastName": "B"}},
			"A B",
		},
		{
			"flattened wins over nested",
			map[string]any{
				"firstName": "Outer", "lastName": "Name",
				"user": map[string]any{"firstName": "Inner", "lastName": "Name"},
			},
			"Outer Name",
		},
		{
			"generic name field",
			map[string]any{"name": "House"},
			"House",
		},
		{
			"fullName over displayName",
			map[string]any{"fullName": "Gregory House", "displayName": "G. House"},
			"Gregory House",
		},
		{
			"partial first name only",
			map[string]any{"firstName": "Gregory"},
			"Gregory",
		},
		{
			"partial last name only",
			map[string]any{"lastName": "House"},
			"House",
		},
		{
			"partial nested name",
			map[string]any{"user": map[string]any{"lastName": "House"}},
			"House",
		},
		{
			"whitespace-only fields",
			map[string]any{"firstName": "  ", "lastName": "  "},
			"Unknown Doctor",
		},
		{
			"non-string name fields",
			map[string]any{"firstName": 42, "lastName": true},
			"Unknown Doctor",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DoctorName(tc.doctor))
		})
	}
}

func TestDoctorInitials(t *testing.T) {
	cases := []struct {
		name   string
		doctor any
		want   string
	}{
		{"nil input", nil, "Dr"},
		{"empty map", map[string]any{}, "Dr"},
		{
			"two-part name",
			map[string]any{"firstName": "gregory", "lastName": "house"},
			"GH",
		},
		{
			"single name",
			map[string]any{"name": "house"},
			"H",
		},
		{
			"three tokens",
			map[string]any{"fullName": "anna maria lopez"},
			"AML",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DoctorInitials(tc.doctor))
		})
	}
}

func TestToTitleCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"john DOE", "John Doe"},
		{"cardiology", "Cardiology"},
		{"  padded   words  ", "Padded Words"},
		{"MIXED case INPUT", "Mixed Case Input"},
		{"x", "X"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToTitleCase(tc.in), "input %q", tc.in)
	}
}
