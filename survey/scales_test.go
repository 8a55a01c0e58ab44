package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequencyScale(t *testing.T) {
	scale := FrequencyScale()
	tests := []struct {
		text     string
		expected int
	}{
		{"Never", 0},
		{"Rarely", 1},
		{"Rarely (1–2 times a week)", 1},
		{"Rarely (1-2 times a week)", 1},
		{"Rarely (1–2 times a month)", 1},
		{"Sometimes", 2},
		{"Occasionally", 2},
		{"Sometimes (3-4 times a week)", 2},
		{"Often", 3},
		{"Frequently", 3},
		{"Often (5–6 times a week)", 3},
		{"Often (5-6 times a week)", 3},
		{"Always", 4},
		{"Always (every night)", 4},
		{"  Always (every night) ", 4},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			score, ok := scale.Score(Text(tt.text))
			assert.True(t, ok)
			assert.Equal(t, tt.expected, score)
		})
	}
}

func TestScaleUnrecognizedDefaultsToZero(t *testing.T) {
	scale := FrequencyScale()
	for _, v := range []Value{Empty(), Text("never"), Text("Almost always"), Text("Often-ish"), Number(3)} {
		score, ok := scale.Score(v)
		assert.False(t, ok, "value %q", v.String())
		assert.Zero(t, score)
	}
}

func TestMissedClassesScale(t *testing.T) {
	scale := MissedClassesScale()
	cases := map[string]int{
		"Never":                         0,
		"Rarely (1-2 times a month)":    1,
		"Sometimes (3–4 times a month)": 2,
		"Often (5-6 times a month)":     3,
		"Always (every day)":            4,
	}
	for text, expected := range cases {
		score, ok := scale.Lookup(text)
		assert.True(t, ok, text)
		assert.Equal(t, expected, score, text)
	}
}

func TestNewScaleExplicitWordingWins(t *testing.T) {
	scale := NewScale("test", map[string]int{
		"A–B": 1,
		"A-B": 2,
	})
	score, _ := scale.Lookup("A-B")
	assert.Equal(t, 2, score)
	score, _ = scale.Lookup("A–B")
	assert.Equal(t, 1, score)
}

func TestInvertedQualityRisk(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected float64
	}{
		{"excellent", Text("5"), 0},
		{"good", Text("4"), 1},
		{"poor", Text("1"), 4},
		{"numeric cell", Number(2), 3},
		{"below range clips", Text("0"), 4},
		{"above range clips", Text("7"), 0},
		{"fractional", Text("3.5"), 1.5},
		{"missing", Empty(), 0},
		{"non-numeric", Text("Good"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, InvertedQualityRisk(tt.value), 1e-9)
		})
	}
}

func TestScaleWordingsSorted(t *testing.T) {
	words := AcademicPerformanceScale().Wordings()
	assert.Equal(t, []string{"Poor", "Fair", "Average", "Good", "Very good", "Excellent"}, words)
}
