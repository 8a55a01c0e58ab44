package survey

import "math"

// LabelUnknown is reported for missing input. It is never written to the table.
const LabelUnknown = "Unknown"

// Band is one bucket of a Banding. A value belongs to the first band whose
// Upper bound it does not exceed: x < Upper, or x <= Upper when Inclusive.
// The last band should use an infinite Upper.
type Band struct {
	Label     string
	Upper     float64
	Inclusive bool
}

func (b Band) contains(x float64) bool {
	if b.Inclusive {
		return x <= b.Upper
	}
	return x < b.Upper
}

// Banding is an ordered list of non-overlapping bands.
type Banding struct {
	Name  string
	Bands []Band
}

// Category is the result of classifying a number.
type Category struct {
	Label string
	// Rank is the zero-based band position; -1 when unknown.
	Rank  int
	Known bool
}

// Cell converts the category into a table cell; unknown categories stay empty.
func (c Category) Cell() Value {
	if !c.Known {
		return Empty()
	}
	return Text(c.Label)
}

var unknownCategory = Category{Label: LabelUnknown, Rank: -1}

// Classify maps x to its band. NaN and unknown input yield the unknown category.
func (b Banding) Classify(x float64, known bool) Category {
	if !known || math.IsNaN(x) {
		return unknownCategory
	}
	for i, band := range b.Bands {
		if band.contains(x) {
			return Category{Label: band.Label, Rank: i, Known: true}
		}
	}
	return unknownCategory
}

// ClassifyValue classifies a numeric cell.
func (b Banding) ClassifyValue(v Value) Category {
	x, ok := v.Float()
	return b.Classify(x, ok)
}

// Labels lists the band labels in order.
func (b Banding) Labels() []string {
	out := make([]string, len(b.Bands))
	for i, band := range b.Bands {
		out[i] = band.Label
	}
	return out
}

// InsomniaRawBanding categorizes the 0–16 raw index.
func InsomniaRawBanding() Banding {
	return Banding{Name: "insomnia-raw", Bands: []Band{
		{Label: "Low / No Insomnia", Upper: 4, Inclusive: true},
		{Label: "Moderate Insomnia", Upper: 8, Inclusive: true},
		{Label: "Severe Insomnia", Upper: math.Inf(1)},
	}}
}

// InsomniaScaledBanding categorizes the 0–28 index.
func InsomniaScaledBanding() Banding {
	return Banding{Name: "insomnia-scaled", Bands: []Band{
		{Label: "No insomnia", Upper: 8},
		{Label: "Subthreshold", Upper: 15},
		{Label: "Moderate", Upper: 22},
		{Label: "Severe", Upper: math.Inf(1)},
	}}
}

// SleepDurationBanding categorizes estimated hours; 6.0 and 8.0 are both Adequate.
func SleepDurationBanding() Banding {
	return Banding{Name: "sleep-duration", Bands: []Band{
		{Label: "Short", Upper: 6},
		{Label: "Adequate", Upper: 8, Inclusive: true},
		{Label: "Long", Upper: math.Inf(1)},
	}}
}
