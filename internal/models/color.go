// internal/models/color.go
package models

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	darkTextColor  = "#000000"
	lightTextColor = "#FFFFFF"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// TextColorFor picks black or white text, whichever contrasts more with the
// background. Unparseable backgrounds get black text.
func TextColorFor(background string) string {
	dark, err := contrastRatio(darkTextColor, strings.TrimSpace(background))
	if err != nil {
		return darkTextColor
	}
	light, err := contrastRatio(lightTextColor, strings.TrimSpace(background))
	if err != nil || dark >= light {
		return darkTextColor
	}
	return lightTextColor
}

func contrastRatio(textColor, backgroundColor string) (float64, error) {
	textL, err := relativeLuminance(textColor)
	if err != nil {
		return 0, err
	}
	backgroundL, err := relativeLuminance(backgroundColor)
	if err != nil {
		return 0, err
	}
	lightest := math.Max(textL, backgroundL)
	darkest := math.Min(textL, backgroundL)
	return (lightest + 0.05) / (darkest + 0.05), nil
}

func relativeLuminance(hexColor string) (float64, error) {
	if !hexColorRegex.MatchString(hexColor) {
		return 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}
	value, err := strconv.ParseUint(strings.TrimPrefix(hexColor, "#"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	r := srgbToLinear(float64((value>>16)&0xFF) / 255)
	g := srgbToLinear(float64((value>>8)&0xFF) / 255)
	b := srgbToLinear(float64(value&0xFF) / 255)
	return 0.2126*r + 0.7152*g + 0.0722*b, nil
}

func srgbToLinear(value float64) float64 {
	if value <= 0.03928 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}
