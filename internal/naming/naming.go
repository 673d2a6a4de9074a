package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	lowerUpper      = regexp.MustCompile(`([a-z\d])([A-Z])`)
	identifier      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	title = cases.Title(language.Und, cases.NoLower)
)

// SnakeCase converts CamelCase and kebab-case names to snake_case.
//
//	SnakeCase("EvseManager")  == "evse_manager"
//	SnakeCase("OCPPConfig")   == "ocpp_config"
//	SnakeCase("power-meter")  == "power_meter"
func SnakeCase(s string) string {
	s = acronymBoundary.ReplaceAllString(s, "${1}_${2}")
	s = lowerUpper.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ToLower(s)
}

// CamelCase converts snake_case and kebab-case names to CamelCase.
// Existing upper case letters are kept.
//
//	CamelCase("evse_manager") == "EvseManager"
//	CamelCase("OCPP_config")  == "OCPPConfig"
func CamelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, p := range parts {
		parts[i] = title.String(p)
	}
	return strings.Join(parts, "")
}

// HeaderGuard builds an include guard from its parts.
//
//	HeaderGuard("GENERATED", "MODULE", "EvseManager", "HPP") == "GENERATED_MODULE_EVSE_MANAGER_HPP"
func HeaderGuard(parts ...string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.ToUpper(SnakeCase(p))
	}
	return strings.Join(out, "_")
}

// IsIdentifier reports whether s is usable as a C++ identifier.
func IsIdentifier(s string) bool {
	return identifier.MatchString(s)
}
