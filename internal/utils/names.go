package utils

import (
	"strings"
)

// Doctor payloads arrive in two historical shapes: name fields flattened on
// the object itself, or nested under "user". These helpers accept the raw
// decoded JSON value and apply a fixed lookup priority so every caller gets
// a defined string, whatever the endpoint returned.

// DoctorName resolves a display name from a doctor value of unknown shape.
// Lookup order: flattened firstName/lastName, nested user firstName/lastName,
// generic name/fullName/displayName, any partial name, then "Unknown Doctor".
func DoctorName(doctor any) string {
	m, ok := doctor.(map[string]any)
	if !ok || m == nil {
		return "Unknown Doctor"
	}

	first := stringField(m, "firstName")
	last := stringField(m, "lastName")
	if first != "" && last != "" {
		return first + " " + last
	}

	if user, ok := m["user"].(map[string]any); ok {
		uf := stringField(user, "firstName")
		ul := stringField(user, "lastName")
		if uf != "" && ul != "" {
			return uf + " " + ul
		}
		if uf != "" || ul != "" {
			return strings.TrimSpace(uf + " " + ul)
		}
	}

	for _, key := range []string{"name", "fullName", "displayName"} {
		if v := stringField(m, key); v != "" {
			return v
		}
	}

	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}

	return "Unknown Doctor"
}

// DoctorInitials resolves initials from a doctor value of unknown shape,
// falling back to "Dr" when no usable name exists.
func DoctorInitials(doctor any) string {
	name := DoctorName(doctor)
	if name == "Unknown Doctor" {
		return "Dr"
	}

	var initials strings.Builder
	for _, token := range strings.Fields(name) {
		runes := []rune(token)
		if len(runes) > 0 {
			initials.WriteString(strings.ToUpper(string(runes[0])))
		}
	}
	if initials.Len() == 0 {
		return "Dr"
	}
	return initials.String()
}

// ToTitleCase uppercases the first letter of each whitespace-delimited token
// and lowercases the rest. Returns "" for empty input.
func ToTitleCase(s string) string {
	if s == "" {
		return ""
	}
	tokens := strings.Fields(s)
	for i, token := range tokens {
		runes := []rune(strings.ToLower(token))
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}
