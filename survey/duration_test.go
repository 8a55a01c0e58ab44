package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateHoursLookupPhrases(t *testing.T) {
	table := AcademicDurationTable()
	tests := []struct {
		text     string
		expected float64
	}{
		{"Less than 4 hours", 3.5},
		{"Less than 5 hours", 4.5},
		{"4–5 hours", 4.5},
		{"5-6 hours", 5.5},
		{"6–7 hours", 6.5},
		{"7-8 hours", 7.5},
		{"7–8 hours", 7.5},
		{"8-9 hours", 8.5},
		{"More than 8 hours", 9.0},
		{"9 or more hours", 9.0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h := EstimateHours(Text(tt.text), table)
			assert.True(t, h.Known)
			assert.Equal(t, tt.expected, h.Value)
		})
	}
}

func TestEveryTableEntryResolvesToItsMidpoint(t *testing.T) {
	for _, table := range []MidpointTable{AcademicDurationTable(), SleepPatternDurationTable()} {
		for text, mid := range table.Midpoints {
			h := EstimateHours(Text(text), table)
			assert.True(t, h.Known, "%s: %q", table.Name, text)
			assert.Equal(t, mid, h.Value, "%s: %q", table.Name, text)
		}
	}
}

func TestDurationConventionsDifferOnlyOnMoreThanEight(t *testing.T) {
	academic := EstimateHours(Text("More than 8 hours"), AcademicDurationTable())
	pattern := EstimateHours(Text("More than 8 hours"), SleepPatternDurationTable())
	assert.Equal(t, 9.0, academic.Value)
	assert.Equal(t, 8.5, pattern.Value)

	for _, text := range []string{"Less than 4 hours", "6-7 hours", "9 or more hours"} {
		assert.Equal(t,
			EstimateHours(Text(text), AcademicDurationTable()),
			EstimateHours(Text(text), SleepPatternDurationTable()), text)
	}
}

func TestEstimateHoursFallback(t *testing.T) {
	table := AcademicDurationTable()
	tests := []struct {
		name     string
		value    Value
		expected Hours
	}{
		{"one number", Text("Around 5 hours"), Hours{5, true}},
		{"decimal", Text("about 6.5h"), Hours{6.5, true}},
		{"two numbers", Text("6-7"), Hours{6.5, true}},
		{"en dash range", Text("5–7 hrs"), Hours{6, true}},
		{"three numbers use first two", Text("4 to 6, sometimes 10"), Hours{5, true}},
		{"no numbers", Text("It varies"), UnknownHours},
		{"empty", Empty(), UnknownHours},
		{"numeric cell", Number(7), Hours{7, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateHours(tt.value, table))
		})
	}
}

func TestHoursCell(t *testing.T) {
	assert.True(t, UnknownHours.Cell().IsEmpty())
	f, ok := Hours{Value: 7.5, Known: true}.Cell().Float()
	assert.True(t, ok)
	assert.Equal(t, 7.5, f)
}

func TestGPATable(t *testing.T) {
	table := GPATable()
	mid, ok := table.Lookup("3.00 - 3.69")
	assert.True(t, ok)
	assert.Equal(t, 3.35, mid)
	_, ok = table.Lookup("Prefer not to say")
	assert.False(t, ok)
}
