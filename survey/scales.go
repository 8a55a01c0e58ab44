package survey

import (
	"math"
	"sort"
	"strings"
)

// Scale maps accepted answer wordings to an ordinal score. Matching is exact
// after trimming; there is no fuzzy matching, so every accepted wording has
// to be listed.
type Scale struct {
	Name     string         `json:"name" yaml:"name"`
	Variants map[string]int `json:"variants" yaml:"variants"`
}

// NewScale builds a scale and registers a hyphen spelling for every wording
// written with an en dash (and vice versa).
func NewScale(name string, variants map[string]int) Scale {
	s := Scale{Name: name, Variants: make(map[string]int, len(variants)*2)}
	for text, score := range variants {
		s.add(text, score)
	}
	return s
}

func (s Scale) add(text string, score int) {
	text = NormalizeCell(text)
	if text == "" {
		return
	}
	for _, variant := range dashVariants(text) {
		if _, exists := s.Variants[variant]; !exists || variant == text {
			s.Variants[variant] = score
		}
	}
}

// Lookup resolves a wording to its score.
func (s Scale) Lookup(text string) (int, bool) {
	score, ok := s.Variants[NormalizeCell(text)]
	return score, ok
}

// Score resolves a cell. Empty and unrecognized cells return (0, false); the
// pipeline treats both as a score of 0.
func (s Scale) Score(v Value) (int, bool) {
	if v.IsEmpty() {
		return 0, false
	}
	return s.Lookup(v.String())
}

// Wordings returns the accepted wordings sorted by score, then text.
func (s Scale) Wordings() []string {
	out := make([]string, 0, len(s.Variants))
	for text := range s.Variants {
		out = append(out, text)
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := s.Variants[out[i]], s.Variants[out[j]]
		if si != sj {
			return si < sj
		}
		return out[i] < out[j]
	})
	return out
}

func (s Scale) clone() Scale {
	out := Scale{Name: s.Name, Variants: make(map[string]int, len(s.Variants))}
	for k, v := range s.Variants {
		out.Variants[k] = v
	}
	return out
}

// FrequencyScale scores symptom and behaviour frequency answers 0 (Never) to 4
// (Always). It accepts the weekly and monthly wordings used across form
// revisions as well as the bare single words.
func FrequencyScale() Scale {
	return NewScale("frequency", map[string]int{
		"Never":                        0,
		"Rarely":                       1,
		"Rarely (1–2 times a week)":    1,
		"Rarely (1–2 times a month)":   1,
		"Sometimes":                    2,
		"Occasionally":                 2,
		"Sometimes (3–4 times a week)": 2,
		"Often":                        3,
		"Frequently":                   3,
		"Often (5–6 times a week)":     3,
		"Always":                       4,
		"Always (every night)":         4,
	})
}

// MissedClassesScale scores how often classes are skipped for sleep reasons.
// The question uses monthly wording.
func MissedClassesScale() Scale {
	return NewScale("missed-classes", map[string]int{
		"Never":                         0,
		"Rarely":                        1,
		"Rarely (1–2 times a month)":    1,
		"Sometimes":                     2,
		"Sometimes (3–4 times a month)": 2,
		"Often":                         3,
		"Often (5–6 times a month)":     3,
		"Always":                        4,
		"Always (every day)":            4,
	})
}

// AcademicPerformanceScale scores the self-rated academic performance 0 (Poor) to 5 (Excellent).
func AcademicPerformanceScale() Scale {
	return NewScale("academic-performance", map[string]int{
		"Poor":      0,
		"Fair":      1,
		"Average":   2,
		"Good":      3,
		"Very good": 4,
		"Excellent": 5,
	})
}

// BedTimeScale ranks the weekday bedtime buckets from earliest to latest.
func BedTimeScale() Scale {
	return NewScale("bedtime", map[string]int{
		"9–10 PM":     0,
		"10–11 PM":    1,
		"11 PM–12 AM": 2,
		"After 12 AM": 3,
	})
}

// QualityRating returns the 1–5 self-rated sleep quality as a number.
func QualityRating(v Value) (float64, bool) {
	return v.Float()
}

// InvertedQualityRisk converts a quality rating q (5 = excellent) into a risk
// contribution clip(5-q, 0, 4). Missing or non-numeric ratings contribute 0.
func InvertedQualityRisk(v Value) float64 {
	q, ok := QualityRating(v)
	if !ok {
		return 0
	}
	return clamp(5-q, 0, 4)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func dashVariants(text string) []string {
	out := []string{text}
	if strings.Contains(text, "–") {
		out = append(out, strings.ReplaceAll(text, "–", "-"))
	}
	if strings.Contains(text, "-") {
		out = append(out, strings.ReplaceAll(text, "-", "–"))
	}
	return out
}
