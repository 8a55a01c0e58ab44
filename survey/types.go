package survey

import (
	"encoding/json"
	"errors"
)

// ErrNilTable is returned when a pipeline entry point receives no table.
var ErrNilTable = errors.New("survey: nil table")

// CanonicalField is the short, stable identifier a questionnaire item is mapped to.
type CanonicalField string

const (
	FieldTimestamp               CanonicalField = "Timestamp"
	FieldGender                  CanonicalField = "Gender"
	FieldAgeGroup                CanonicalField = "AgeGroup"
	FieldYearOfStudy             CanonicalField = "YearOfStudy"
	FieldFaculty                 CanonicalField = "Faculty"
	FieldDifficultyFallingAsleep CanonicalField = "DifficultyFallingAsleep"
	FieldSleepHours              CanonicalField = "SleepHours"
	FieldNightWakeups            CanonicalField = "NightWakeups"
	FieldSleepQuality            CanonicalField = "SleepQuality"
	FieldBedTime                 CanonicalField = "BedTime"
	FieldDayNap                  CanonicalField = "DayNap"
	FieldConcentrationDifficulty CanonicalField = "ConcentrationDifficulty"
	FieldDaytimeFatigue          CanonicalField = "DaytimeFatigue"
	FieldMissedClasses           CanonicalField = "MissedClasses"
	FieldAssignmentImpact        CanonicalField = "AssignmentImpact"
	FieldExamSleepChange         CanonicalField = "ExamSleepChange"
	FieldAcademicPerformance     CanonicalField = "AcademicPerformance"
	FieldGPA                     CanonicalField = "GPA"
	FieldCGPA                    CanonicalField = "CGPA"
	FieldDeviceUsage             CanonicalField = "DeviceUsage"
	FieldCaffeineConsumption     CanonicalField = "CaffeineConsumption"
	FieldPhysicalActivity        CanonicalField = "PhysicalActivity"
	FieldStressLevel             CanonicalField = "StressLevel"
	FieldSleepMethods            CanonicalField = "SleepMethods"
)

var allFields = []CanonicalField{
	FieldTimestamp, FieldGender, FieldAgeGroup, FieldYearOfStudy, FieldFaculty,
	FieldDifficultyFallingAsleep, FieldSleepHours, FieldNightWakeups, FieldSleepQuality,
	FieldBedTime, FieldDayNap, FieldConcentrationDifficulty, FieldDaytimeFatigue,
	FieldMissedClasses, FieldAssignmentImpact, FieldExamSleepChange, FieldAcademicPerformance,
	FieldGPA, FieldCGPA, FieldDeviceUsage, FieldCaffeineConsumption, FieldPhysicalActivity,
	FieldStressLevel, FieldSleepMethods,
}

// AllFields returns every canonical field in questionnaire order.
func AllFields() []CanonicalField {
	out := make([]CanonicalField, len(allFields))
	copy(out, allFields)
	return out
}

// Valid reports whether f belongs to the closed set of canonical fields.
func (f CanonicalField) Valid() bool {
	for _, known := range allFields {
		if known == f {
			return true
		}
	}
	return false
}

// Derived column identifiers written by the pipeline.
const (
	ColSleepHoursEst                   = "SleepHours_est"
	ColSleepDurationCategory           = "SleepDurationCategory"
	ColSleepQualityNum                 = "SleepQuality_num"
	ColSleepQualityScore               = "SleepQuality_Score"
	ColFallingAsleepScore              = "FallingAsleep_Score"
	ColNightWakeupsScore               = "NightWakeups_Score"
	ColFatigueScore                    = "Fatigue_Score"
	ColInsomniaSeverityIndex           = "InsomniaSeverity_index"
	ColISICategory                     = "ISI_Category"
	ColInsomniaSeverityRaw             = "InsomniaSeverity_raw"
	ColInsomniaCategory                = "Insomnia_Category"
	ColLifestyleRisk                   = "Lifestyle_Risk"
	ColFrequentDifficultyFallingAsleep = "FrequentDifficultyFallingAsleep"
	ColFrequentNightWakeups            = "FrequentNightWakeups"
	ColBedTimeOrder                    = "BedTime_order"
	ColDaytimeFatigueNumeric           = "DaytimeFatigue_numeric"
	ColConcentrationNumeric            = "ConcentrationDifficulty_numeric"
	ColMissedClassesNumeric            = "MissedClasses_numeric"
	ColAcademicPerformanceNumeric      = "AcademicPerformance_numeric"
	ColGPANumeric                      = "GPA_numeric"
	ColCGPANumeric                     = "CGPA_numeric"
)

// DerivedColumns lists the derived columns in the order the pipeline appends them.
func DerivedColumns() []string {
	return []string{
		ColSleepHoursEst, ColSleepDurationCategory, ColSleepQualityNum, ColSleepQualityScore,
		ColFallingAsleepScore, ColNightWakeupsScore, ColFatigueScore,
		ColInsomniaSeverityIndex, ColISICategory, ColInsomniaSeverityRaw, ColInsomniaCategory,
		ColLifestyleRisk, ColFrequentDifficultyFallingAsleep, ColFrequentNightWakeups,
		ColBedTimeOrder, ColDaytimeFatigueNumeric, ColConcentrationNumeric,
		ColMissedClassesNumeric, ColAcademicPerformanceNumeric, ColGPANumeric, ColCGPANumeric,
	}
}

// OutcomeStatus tags whether a derived column could be produced.
type OutcomeStatus string

const (
	// StatusAbsent means a required input column was missing and no column was written.
	StatusAbsent OutcomeStatus = "absent"
	// StatusComputed means the column was written for every row.
	StatusComputed OutcomeStatus = "computed"
)

// DerivedOutcome reports what happened to one derived column.
type DerivedOutcome struct {
	Column  string           `json:"column" yaml:"column"`
	Status  OutcomeStatus    `json:"status" yaml:"status"`
	Missing []CanonicalField `json:"missing,omitempty" yaml:"missing,omitempty"`
	// Unknown counts rows whose value is missing even though the column was computed.
	Unknown int `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// Computed reports whether the column exists in the enriched table.
func (o DerivedOutcome) Computed() bool { return o.Status == StatusComputed }

// Result is the output of one pipeline run.
type Result struct {
	Table        *Table                 `json:"-" yaml:"-"`
	Mapping      MappingReport          `json:"mapping" yaml:"mapping"`
	Outcomes     []DerivedOutcome       `json:"outcomes" yaml:"outcomes"`
	Unrecognized map[CanonicalField]int `json:"unrecognized,omitempty" yaml:"unrecognized,omitempty"`
	Convention   DurationConvention     `json:"durationConvention" yaml:"durationConvention"`
	samples      map[CanonicalField]string
}

// Outcome returns the outcome for a derived column.
func (r *Result) Outcome(column string) (DerivedOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Column == column {
			return o, true
		}
	}
	return DerivedOutcome{}, false
}

// UnrecognizedSample returns one example of unrecognized text seen for the field.
func (r *Result) UnrecognizedSample(field CanonicalField) string {
	return r.samples[field]
}

// DurationConvention selects which midpoint table the duration estimator applies.
type DurationConvention string

const (
	// DurationAcademic resolves "More than 8 hours" to 9.0.
	DurationAcademic DurationConvention = "academic"
	// DurationSleepPattern resolves "More than 8 hours" to 8.5.
	DurationSleepPattern DurationConvention = "sleep-pattern"
)

// SourceConfig describes where the loader reads the raw export from.
type SourceConfig struct {
	Location       string `json:"location" yaml:"location"`
	RefreshSeconds int    `json:"refreshSeconds" yaml:"refreshSeconds"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	CacheDir       string `json:"cacheDir,omitempty" yaml:"cacheDir,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host           string `json:"host" yaml:"host"`
	Port           int    `json:"port" yaml:"port"`
	DisableMetrics bool   `json:"disableMetrics,omitempty" yaml:"disableMetrics,omitempty"`
	DisableCORS    bool   `json:"disableCors,omitempty" yaml:"disableCors,omitempty"`
}

// Config aggregates runtime settings persisted to sleepsurvey.yaml.
type Config struct {
	DurationConvention DurationConvention `json:"durationConvention" yaml:"durationConvention"`
	TablesFile         string             `json:"tablesFile,omitempty" yaml:"tablesFile,omitempty"`
	Source             SourceConfig       `json:"source" yaml:"source"`
	Server             ServerConfig       `json:"server" yaml:"server"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.DurationConvention == "" {
		c.DurationConvention = DurationAcademic
	}
	if c.Source.RefreshSeconds <= 0 {
		c.Source.RefreshSeconds = 300
	}
	if c.Source.TimeoutSeconds <= 0 {
		c.Source.TimeoutSeconds = 30
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}
