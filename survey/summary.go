package survey

import (
	"strings"
	"time"
)

// Prevalence is the share of respondents matching a condition.
type Prevalence struct {
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

func prevalence(count, total int) Prevalence {
	if total == 0 {
		return Prevalence{}
	}
	return Prevalence{Count: count, Percent: roundTo(float64(count)/float64(total)*100, 1)}
}

// Summary holds headline figures of an enriched table.
type Summary struct {
	TotalResponses    int                           `json:"totalResponses" yaml:"totalResponses"`
	LastUpdated       *time.Time                    `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
	Faculties         int                           `json:"faculties" yaml:"faculties"`
	AverageISI        *float64                      `json:"averageIsi,omitempty" yaml:"averageIsi,omitempty"`
	AverageSleepHours *float64                      `json:"averageSleepHours,omitempty" yaml:"averageSleepHours,omitempty"`
	Lifestyle         map[CanonicalField]Prevalence `json:"lifestyle,omitempty" yaml:"lifestyle,omitempty"`
	Sleep             map[string]Prevalence         `json:"sleep,omitempty" yaml:"sleep,omitempty"`
	Categories        map[string]map[string]int     `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Sleep indicator names used in Summary.Sleep.
const (
	IndicatorShortSleep  = "shortSleep"
	IndicatorLateBedtime = "lateBedtime"
	IndicatorPoorQuality = "poorQuality"
)

// FilterFaculty keeps the respondents whose Faculty answer equals faculty,
// ignoring case and surrounding space. A blank faculty returns t unchanged.
func FilterFaculty(t *Table, faculty string) *Table {
	faculty = strings.TrimSpace(faculty)
	if faculty == "" {
		return t
	}
	col := string(FieldFaculty)
	return t.Filter(func(r Record) bool {
		return strings.EqualFold(strings.TrimSpace(r[col].String()), faculty)
	})
}

// Summarize computes response counts, averages and prevalence figures.
// Lifestyle prevalence counts respondents for whom a rule contributes a
// positive weight; fields absent from the table are left out.
func Summarize(t *Table, rules []KeywordRule) Summary {
	s := Summary{TotalResponses: t.Len()}
	if t.Len() == 0 {
		return s
	}

	if t.HasField(FieldTimestamp) {
		var last time.Time
		for _, v := range t.Column(string(FieldTimestamp)) {
			ts, ok := v.TimeValue()
			if !ok {
				ts, ok = ParseTimestamp(v.String())
			}
			if ok && ts.After(last) {
				last = ts
			}
		}
		if !last.IsZero() {
			s.LastUpdated = &last
		}
	}

	if t.HasField(FieldFaculty) {
		seen := map[string]struct{}{}
		for _, v := range t.Column(string(FieldFaculty)) {
			if !v.IsEmpty() {
				seen[v.String()] = struct{}{}
			}
		}
		s.Faculties = len(seen)
	}

	s.AverageISI = columnMean(t, ColInsomniaSeverityIndex)
	s.AverageSleepHours = columnMean(t, ColSleepHoursEst)

	for _, rule := range rules {
		if !t.HasField(rule.Field) {
			continue
		}
		count := 0
		for _, v := range t.Column(string(rule.Field)) {
			if rule.Matches(v) {
				count++
			}
		}
		if s.Lifestyle == nil {
			s.Lifestyle = map[CanonicalField]Prevalence{}
		}
		s.Lifestyle[rule.Field] = prevalence(count, t.Len())
	}

	s.Sleep = sleepIndicators(t)

	for _, col := range []string{ColISICategory, ColInsomniaCategory, ColSleepDurationCategory} {
		if !t.HasColumn(col) {
			continue
		}
		counts := map[string]int{}
		for _, v := range t.Column(col) {
			if !v.IsEmpty() {
				counts[v.String()]++
			}
		}
		if s.Categories == nil {
			s.Categories = map[string]map[string]int{}
		}
		s.Categories[col] = counts
	}
	return s
}

func sleepIndicators(t *Table) map[string]Prevalence {
	out := map[string]Prevalence{}
	total := t.Len()
	if t.HasColumn(ColSleepDurationCategory) {
		short := SleepDurationBanding().Bands[0].Label
		count := 0
		for _, v := range t.Column(ColSleepDurationCategory) {
			if v.String() == short {
				count++
			}
		}
		out[IndicatorShortSleep] = prevalence(count, total)
	}
	if t.HasField(FieldBedTime) {
		count := 0
		for _, v := range t.Column(string(FieldBedTime)) {
			if strings.Contains(v.String(), "After 12 AM") {
				count++
			}
		}
		out[IndicatorLateBedtime] = prevalence(count, total)
	}
	if t.HasColumn(ColSleepQualityNum) {
		count := 0
		for _, v := range t.Column(ColSleepQualityNum) {
			if q, ok := v.Float(); ok && (q == 1 || q == 2) {
				count++
			}
		}
		out[IndicatorPoorQuality] = prevalence(count, total)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func columnMean(t *Table, col string) *float64 {
	if !t.HasColumn(col) {
		return nil
	}
	sum, n := 0.0, 0
	for _, v := range t.Column(col) {
		if f, ok := v.Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := roundTo(sum/float64(n), 2)
	return &mean
}
