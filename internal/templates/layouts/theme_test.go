package layouts

import (
	"strings"
	"testing"

	"github.com/codr1/Courtside/internal/schedule"
)

func TestCourtCssVars(t *testing.T) {
	got := courtCssVars([]schedule.Court{
		{ID: "pink", Color: "#f9a8d4"},
		{ID: "Mint Court", Color: "red;}body{display:none"},
	})

	if !strings.Contains(got, "--court-pink:#f9a8d4;") {
		t.Fatalf("missing pink variable in %q", got)
	}
	if !strings.Contains(got, "--court-mintcourt:"+schedule.DefaultColor+";") {
		t.Fatalf("expected unsafe colour to fall back, got %q", got)
	}
	if strings.Contains(got, "display:none") {
		t.Fatalf("unsafe colour leaked into %q", got)
	}
}
