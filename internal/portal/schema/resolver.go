// Package schema resolves the indicator input fields shown for a focus area.
package schema

import (
	"math"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

// FieldType is the input type of an indicator field. Every indicator is
// numeric today.
type FieldType string

const FieldNumber FieldType = "number"

// Field describes one indicator input.
type Field struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Type    FieldType `json:"type"`
	Default float64   `json:"default"`
}

func num(key, label string) Field {
	return Field{Key: key, Label: label, Type: FieldNumber}
}

// table is indexed by focus area; FocusAreaNone maps to no fields.
var table = [domain.NumFocusAreas][]Field{
	domain.FocusAreaNone: nil,
	domain.FocusNutrition: {
		num("food_consumption", "Food suitable for consumption (Kg)"),
		num("immediate_food", "Food for immediate consumption (Kg)"),
		num("production", "Production (Kg)"),
		num("total_received", "Total kilos received in the month"),
		num("beneficiary_institutions", "Beneficiary Institutions (#)"),
		num("people_fed", "People fed monthly (#)"),
	},
	domain.FocusEducation: {
		num("students", "Number of students"),
		num("teachers", "Number of teachers"),
		num("classrooms", "Number of classrooms"),
		num("materials", "Educational materials distributed"),
	},
	domain.FocusEntrepreneurship: {
		num("businesses", "Businesses supported"),
		num("jobs", "Jobs created"),
		num("training", "Training sessions conducted"),
		num("revenue", "Revenue generated ($)"),
	},
	domain.FocusEnvironment: {
		num("trees_planted", "Trees planted"),
		num("waste_collected", "Waste collected (Kg)"),
		num("area_restored", "Area restored (m²)"),
		num("volunteers", "Number of volunteers"),
	},
	domain.FocusGender: {
		num("women_supported", "Women supported"),
		num("workshops", "Workshops conducted"),
		num("awareness", "Awareness campaigns"),
		num("participants", "Total participants"),
	},
}

// Resolve returns the ordered indicator fields for fa. Unset or
// out-of-range focus areas resolve to an empty list. The returned slice is
// a copy.
func Resolve(fa domain.FocusArea) []Field {
	if !fa.Valid() {
		return []Field{}
	}
	return append([]Field(nil), table[fa]...)
}

// ResolveToken is Resolve for a raw focus-area token; unknown tokens
// resolve to an empty list.
func ResolveToken(token string) []Field {
	fa, err := domain.ParseFocusArea(token)
	if err != nil {
		return []Field{}
	}
	return Resolve(fa)
}

// Values builds the indicator values for fa from the submitted ones. Keys
// outside the schema are dropped and missing keys take the field default.
func Values(fa domain.FocusArea, submitted map[string]float64) map[string]float64 {
	fields := Resolve(fa)
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		v, ok := submitted[f.Key]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			v = f.Default
		}
		out[f.Key] = v
	}
	return out
}

// Labeler returns the display label for a field key, or false to keep the
// built-in English label.
type Labeler func(key string) (string, bool)

// ResolveLabeled is Resolve with labels supplied by label.
func ResolveLabeled(fa domain.FocusArea, label Labeler) []Field {
	return Relabel(Resolve(fa), label)
}

// Relabel replaces field labels in place with those supplied by label.
func Relabel(fields []Field, label Labeler) []Field {
	if label == nil {
		return fields
	}
	for i := range fields {
		if l, ok := label(fields[i].Key); ok {
			fields[i].Label = l
		}
	}
	return fields
}
