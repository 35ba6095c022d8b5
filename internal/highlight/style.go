package highlight

import (
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// Marker markup.
const (
	// MarkerTag is the element wrapped around each match.
	MarkerTag = "mark"

	// ClassPrefix starts every marker class name.
	ClassPrefix = "findable-highlight-"

	// CurrentClass flags the marker selected by navigation.
	CurrentClass = ClassPrefix + "current"

	// IntensityProperty is the CSS custom property carrying the intensity.
	IntensityProperty = "--highlight-intensity"
)

// Style holds the visual parameters attached to one marker category.
type Style struct {
	// Class is the class name identifying the category.
	Class string

	// Color is the base highlight colour, as a CSS hex value.
	Color string
}

// categoryStyles maps each marker category to its style.
var categoryStyles = map[domain.MarkerCategory]Style{
	domain.MarkerOriginal: {Class: ClassPrefix + "original", Color: "#FFEB3B"},
	domain.MarkerSemantic: {Class: ClassPrefix + "semantic", Color: "#A5D6A7"},
	domain.MarkerSentence: {Class: ClassPrefix + "sentence", Color: "#90CAF9"},
}

// StyleFor returns the style of a marker category.
// Unknown categories fall back to the original style.
func StyleFor(c domain.MarkerCategory) Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return categoryStyles[domain.MarkerOriginal]
}

// categoryFromClasses finds the marker category named in a class attribute.
func categoryFromClasses(classes string) (domain.MarkerCategory, bool) {
	for _, class := range strings.Fields(classes) {
		for c, s := range categoryStyles {
			if class == s.Class {
				return c, true
			}
		}
	}
	return domain.MarkerOriginal, false
}

// Intensity maps a term score to a visual intensity: the magnitude of the
// score. A NaN score counts as no score and gets full intensity.
// Clamping to a displayable range is left to the styling layer.
func Intensity(score float64) float64 {
	if math.IsNaN(score) {
		return domain.DefaultScore
	}
	return math.Abs(score)
}

// intensityDeclaration renders the inline style carrying an intensity.
func intensityDeclaration(intensity float64) string {
	return IntensityProperty + ": " + strconv.FormatFloat(intensity, 'f', -1, 64)
}

// parseIntensity reads the intensity back from an inline style.
func parseIntensity(style string) (float64, bool) {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok || strings.TrimSpace(name) != IntensityProperty {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
