package survey

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Hours is an estimated sleep duration. Known is false when nothing
// interpretable was found.
type Hours struct {
	Value float64
	Known bool
}

// UnknownHours is the sentinel for an uninterpretable duration.
var UnknownHours = Hours{}

// Cell converts the estimate into a table cell.
func (h Hours) Cell() Value {
	if !h.Known {
		return Empty()
	}
	return Number(h.Value)
}

// MidpointTable maps range wordings to a representative number.
type MidpointTable struct {
	Name      string             `json:"name" yaml:"name"`
	Midpoints map[string]float64 `json:"midpoints" yaml:"midpoints"`
}

// NewMidpointTable builds a table and registers hyphen and en dash spellings
// of every range.
func NewMidpointTable(name string, midpoints map[string]float64) MidpointTable {
	t := MidpointTable{Name: name, Midpoints: make(map[string]float64, len(midpoints)*2)}
	for text, mid := range midpoints {
		t.add(text, mid)
	}
	return t
}

func (t MidpointTable) add(text string, mid float64) {
	text = NormalizeCell(text)
	if text == "" {
		return
	}
	for _, variant := range dashVariants(text) {
		if _, exists := t.Midpoints[variant]; !exists || variant == text {
			t.Midpoints[variant] = mid
		}
	}
}

// Lookup returns the midpoint for an exact wording.
func (t MidpointTable) Lookup(text string) (float64, bool) {
	mid, ok := t.Midpoints[NormalizeCell(text)]
	return mid, ok
}

func (t MidpointTable) clone() MidpointTable {
	out := MidpointTable{Name: t.Name, Midpoints: make(map[string]float64, len(t.Midpoints))}
	for k, v := range t.Midpoints {
		out.Midpoints[k] = v
	}
	return out
}

func durationRanges() map[string]float64 {
	return map[string]float64{
		"Less than 4 hours": 3.5,
		"4–5 hours":         4.5,
		"5–6 hours":         5.5,
		"6–7 hours":         6.5,
		"7–8 hours":         7.5,
		"8–9 hours":         8.5,
		"9 or more hours":   9.0,
	}
}

// AcademicDurationTable resolves "More than 8 hours" to 9.0. It is the default.
func AcademicDurationTable() MidpointTable {
	m := durationRanges()
	m["Less than 5 hours"] = 4.5
	m["More than 8 hours"] = 9.0
	return NewMidpointTable(string(DurationAcademic), m)
}

// SleepPatternDurationTable resolves "More than 8 hours" to 8.5.
func SleepPatternDurationTable() MidpointTable {
	m := durationRanges()
	m["More than 8 hours"] = 8.5
	return NewMidpointTable(string(DurationSleepPattern), m)
}

// GPATable maps the GPA and CGPA range answers to their midpoints.
func GPATable() MidpointTable {
	return NewMidpointTable("gpa", map[string]float64{
		"Below 2.00":  1.5,
		"2.00 - 2.99": 2.5,
		"3.00 - 3.69": 3.35,
		"3.70 - 4.00": 3.85,
	})
}

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// EstimateHours converts a duration answer into hours. Numeric cells are used
// as-is. Text is first matched exactly against the table; otherwise the
// numbers in it are extracted: one number is used directly, two or more give
// the mean of the first two and none gives UnknownHours.
func EstimateHours(v Value, table MidpointTable) Hours {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.Float()
		return Hours{Value: f, Known: true}
	case KindText:
	default:
		return UnknownHours
	}
	text := v.String()
	if mid, ok := table.Lookup(text); ok {
		return Hours{Value: mid, Known: true}
	}
	return ParseHours(text)
}

// ParseHours extracts an hour estimate from free text without a lookup table.
func ParseHours(text string) Hours {
	text = strings.NewReplacer("–", "-", "—", "-").Replace(text)
	matches := numberPattern.FindAllString(text, 2)
	nums := make([]float64, 0, len(matches))
	for _, m := range matches {
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		nums = append(nums, f)
	}
	switch len(nums) {
	case 0:
		return UnknownHours
	case 1:
		return Hours{Value: nums[0], Known: true}
	default:
		return Hours{Value: (nums[0] + nums[1]) / 2, Known: true}
	}
}

// roundTo rounds to the given number of decimals, halves to even.
func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*p) / p
}
