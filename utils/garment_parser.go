package utils

import (
	"regexp"
	"strings"

	"github.com/saatgomi1/secondsense/models"
)

// structuredPatterns match label-prefixed lines such as "Brand: Nike"
// Only the first occurrence of a label is used
var structuredPatterns = []models.ExtractionPattern{
	structured(models.FieldGarmentType),
	structured(models.FieldBrand),
	structured(models.FieldSize),
	structured(models.FieldColor),
	structured(models.FieldFabric),
	structured(models.FieldAdditionalCharacteristics),
}

// brandQuotedPattern is the fallback for Brand when "brand is ..." is absent
var brandQuotedPattern = regexp.MustCompile(`(?i)"([^"]+)"`)

// unstructuredPatterns are vocabulary and shape heuristics, one per field
var unstructuredPatterns = []models.ExtractionPattern{
	{
		Field:   models.FieldGarmentType,
		Kind:    models.RuleUnstructured,
		Pattern: regexp.MustCompile(`(?i)\b(zip-up hoodie|hoodie|shirt|t-shirt|jacket|pants|shorts|sweater|dress|skirt|sweatshirt)\b`),
	},
	{
		Field:   models.FieldBrand,
		Kind:    models.RuleUnstructured,
		Pattern: regexp.MustCompile(`(?i)brand is ([A-Za-z\s]+)`),
	},
	{
		Field:   models.FieldSize,
		Kind:    models.RuleUnstructured,
		Pattern: regexp.MustCompile(`(?i)\b(size \w+|\bL\b|\bM\b|\bS\b|\bXL\b|\bXXL\b)\b`),
	},
	{
		Field:   models.FieldColor,
		Kind:    models.RuleUnstructured,
		Pattern: regexp.MustCompile(`(?i)\b(gray|red|blue|green|black|white|yellow|brown|purple|pink|orange|beige)\b`),
	},
	{
		Field:   models.FieldFabric,
		Kind:    models.RuleUnstructured,
		Pattern: regexp.MustCompile(`(?i)(\d+% \w+)`),
	},
	{
		Field:   models.FieldAdditionalCharacteristics,
		Kind:    models.RuleUnstructured,
		Pattern: regexp.MustCompile(`(?i)(\bhood\b|\bstring\b|\btag\b|\bembroidered\b|\bkangaroo pocket\b|\blabel\b|\btext\b|\blining\b|\blogo\b|\bpocket\b)`),
		FindAll: true,
	},
}

func structured(label string) models.ExtractionPattern {
	return models.ExtractionPattern{
		Field:   label,
		Kind:    models.RuleStructured,
		Pattern: regexp.MustCompile(regexp.QuoteMeta(label) + `:\s*(.*)`),
	}
}

// ExtractionPatterns returns the ordered pattern table: structured rules first, then unstructured
func ExtractionPatterns() []models.ExtractionPattern {
	patterns := make([]models.ExtractionPattern, 0, len(structuredPatterns)+len(unstructuredPatterns))
	patterns = append(patterns, structuredPatterns...)
	patterns = append(patterns, unstructuredPatterns...)
	return patterns
}

// ExtractGarmentDetails parses the model's free-text description into the six garment fields.
// If every label is present as "<Label>: value" the labelled values are used.
// Otherwise each field falls back to its own heuristic; unmatched fields are "N/A".
// The empty-response placeholder resolves every field to "N/A".
func ExtractGarmentDetails(text string) models.GarmentDetails {
	if text == models.TextNotFound {
		return detailsFromValues(notAvailable())
	}
	if values, ok := extractStructured(text); ok {
		return detailsFromValues(values)
	}
	return detailsFromValues(extractUnstructured(text))
}

// extractStructured is all-or-nothing: a partial match is discarded
func extractStructured(text string) ([]string, bool) {
	values := make([]string, 0, len(structuredPatterns))
	for _, p := range structuredPatterns {
		match := p.Pattern.FindStringSubmatch(text)
		if match == nil {
			return nil, false
		}
		values = append(values, CleanText(match[1]))
	}
	return values, true
}

func extractUnstructured(text string) []string {
	values := make([]string, 0, len(unstructuredPatterns))
	for _, p := range unstructuredPatterns {
		values = append(values, CleanText(matchUnstructured(p, text)))
	}
	return values
}

func matchUnstructured(p models.ExtractionPattern, text string) string {
	if p.FindAll {
		matches := p.Pattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			return models.NotAvailable
		}
		found := make([]string, 0, len(matches))
		for _, m := range matches {
			found = append(found, m[1])
		}
		return strings.Join(found, ", ")
	}

	if m := p.Pattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if p.Field == models.FieldBrand {
		if m := brandQuotedPattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return models.NotAvailable
}

func notAvailable() []string {
	values := make([]string, len(models.ExtractedFields))
	for i := range values {
		values[i] = models.NotAvailable
	}
	return values
}

func detailsFromValues(values []string) models.GarmentDetails {
	return models.GarmentDetails{
		GarmentType:               values[0],
		Brand:                     values[1],
		Size:                      values[2],
		Color:                     values[3],
		Fabric:                    values[4],
		AdditionalCharacteristics: values[5],
	}
}

// CleanText removes bold markup ("**") and surrounding whitespace
func CleanText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "**", ""))
}
