package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables bundles every lookup table the pipeline consults. The built-in
// tables can be extended from a YAML or JSON file without code changes.
type Tables struct {
	Questions            []QuestionEntry `json:"questions,omitempty" yaml:"questions,omitempty"`
	Frequency            Scale           `json:"frequency" yaml:"frequency"`
	MissedClasses        Scale           `json:"missedClasses" yaml:"missedClasses"`
	AcademicPerformance  Scale           `json:"academicPerformance" yaml:"academicPerformance"`
	BedTime              Scale           `json:"bedTime" yaml:"bedTime"`
	GPA                  MidpointTable   `json:"gpa" yaml:"gpa"`
	AcademicDuration     MidpointTable   `json:"academicDuration" yaml:"academicDuration"`
	SleepPatternDuration MidpointTable   `json:"sleepPatternDuration" yaml:"sleepPatternDuration"`
	Lifestyle            []KeywordRule   `json:"lifestyle,omitempty" yaml:"lifestyle,omitempty"`
	FrequentKeywords     []string        `json:"frequentKeywords,omitempty" yaml:"frequentKeywords,omitempty"`
}

// DefaultTables returns the built-in lookup tables.
func DefaultTables() Tables {
	return Tables{
		Questions:            DefaultQuestionCatalog(),
		Frequency:            FrequencyScale(),
		MissedClasses:        MissedClassesScale(),
		AcademicPerformance:  AcademicPerformanceScale(),
		BedTime:              BedTimeScale(),
		GPA:                  GPATable(),
		AcademicDuration:     AcademicDurationTable(),
		SleepPatternDuration: SleepPatternDurationTable(),
		Lifestyle:            DefaultLifestyleRules(),
		FrequentKeywords:     DefaultFrequentKeywords(),
	}
}

// Duration returns the midpoint table for the convention. Unknown
// conventions fall back to the academic table.
func (t Tables) Duration(c DurationConvention) MidpointTable {
	if c == DurationSleepPattern {
		return t.SleepPatternDuration
	}
	return t.AcademicDuration
}

// Clone returns a deep copy.
func (t Tables) Clone() Tables {
	return Tables{
		Questions:            cloneCatalog(t.Questions),
		Frequency:            t.Frequency.clone(),
		MissedClasses:        t.MissedClasses.clone(),
		AcademicPerformance:  t.AcademicPerformance.clone(),
		BedTime:              t.BedTime.clone(),
		GPA:                  t.GPA.clone(),
		AcademicDuration:     t.AcademicDuration.clone(),
		SleepPatternDuration: t.SleepPatternDuration.clone(),
		Lifestyle:            cloneRules(t.Lifestyle),
		FrequentKeywords:     cloneStrings(t.FrequentKeywords),
	}
}

// LoadTables reads an overrides file and merges it onto the built-in tables.
// An empty path returns the defaults.
func LoadTables(path string) (Tables, error) {
	defaults := DefaultTables()
	clean := strings.TrimSpace(path)
	if clean == "" {
		return defaults, nil
	}
	data, err := os.ReadFile(filepath.Clean(clean))
	if err != nil {
		return defaults, fmt.Errorf("read tables: %w", err)
	}
	var overrides Tables
	// YAML is a superset of JSON, so one decoder serves both formats.
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return defaults, fmt.Errorf("decode tables %s: %w", filepath.Base(clean), err)
	}
	return MergeTables(defaults, overrides), nil
}

// MergeTables layers overrides onto base. Scale wordings and midpoints are
// added or replaced one by one, catalog entries are matched by question text,
// lifestyle rules replace the rule for the same field and a non-nil keyword
// list replaces the built-in one.
func MergeTables(base, overrides Tables) Tables {
	merged := base.Clone()
	merged.Questions = mergeQuestions(merged.Questions, overrides.Questions)
	mergeScale(&merged.Frequency, overrides.Frequency)
	mergeScale(&merged.MissedClasses, overrides.MissedClasses)
	mergeScale(&merged.AcademicPerformance, overrides.AcademicPerformance)
	mergeScale(&merged.BedTime, overrides.BedTime)
	mergeMidpoints(&merged.GPA, overrides.GPA)
	mergeMidpoints(&merged.AcademicDuration, overrides.AcademicDuration)
	mergeMidpoints(&merged.SleepPatternDuration, overrides.SleepPatternDuration)
	merged.Lifestyle = mergeRules(merged.Lifestyle, overrides.Lifestyle)
	if overrides.FrequentKeywords != nil {
		merged.FrequentKeywords = cloneStrings(overrides.FrequentKeywords)
	}
	return merged
}

// EnsureTablesFile writes the built-in tables to path when no file exists
// there yet, giving users a starting point for editing. The boolean reports
// whether a file was created.
func EnsureTablesFile(path string) (bool, error) {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return false, errors.New("tables path is empty")
	}
	clean = filepath.Clean(clean)
	if _, err := os.Stat(clean); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat tables file: %w", err)
	}
	if err := WriteTables(clean, DefaultTables()); err != nil {
		return false, err
	}
	return true, nil
}

// WriteTables encodes tables as JSON or YAML depending on the file extension.
func WriteTables(path string, t Tables) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tables dir: %w", err)
		}
	}
	data, err := encodeByExt(path, t)
	if err != nil {
		return fmt.Errorf("encode tables: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write tables: %w", err)
	}
	return nil
}

func encodeByExt(path string, v any) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return yaml.Marshal(v)
}

func mergeScale(dst *Scale, src Scale) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	for text, score := range src.Variants {
		dst.add(text, score)
	}
}

func mergeMidpoints(dst *MidpointTable, src MidpointTable) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	for text, mid := range src.Midpoints {
		dst.add(text, mid)
	}
}

func mergeQuestions(base, overrides []QuestionEntry) []QuestionEntry {
	if len(overrides) == 0 {
		return base
	}
	index := make(map[string]int, len(base))
	for i, entry := range base {
		index[NormalizeHeader(entry.Question)] = i
	}
	for _, entry := range overrides {
		key := NormalizeHeader(entry.Question)
		if i, ok := index[key]; ok {
			base[i] = entry
			continue
		}
		index[key] = len(base)
		base = append(base, entry)
	}
	return base
}

func mergeRules(base, overrides []KeywordRule) []KeywordRule {
	for _, rule := range overrides {
		replaced := false
		for i := range base {
			if base[i].Field == rule.Field {
				base[i] = rule.clone()
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, rule.clone())
		}
	}
	return base
}
