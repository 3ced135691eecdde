package layouts

import (
	"fmt"
	"strings"

	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/schedule"
)

// courtCssVars exposes each court colour as --court-<id> so stylesheet rules
// and legends can share it.
func courtCssVars(courts []schedule.Court) string {
	var vars strings.Builder
	vars.WriteString(":root{")
	for _, court := range courts {
		fmt.Fprintf(&vars, "--court-%s:%s;", cssIdent(court.ID), colorOrDefault(court.Color, schedule.DefaultColor))
	}
	vars.WriteString("}")
	return vars.String()
}

func colorOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if !models.IsHexColor(trimmed) {
		return fallback
	}
	return trimmed
}

// cssIdent drops anything that is not safe inside a custom property name.
func cssIdent(value string) string {
	var ident strings.Builder
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			ident.WriteRune(r)
		}
	}
	return ident.String()
}
