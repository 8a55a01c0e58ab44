package survey

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Service runs the enrichment pipeline with a configuration and lookup tables
// that can be swapped at runtime.
type Service struct {
	cfgMu  sync.RWMutex
	cfg    Config
	tables Tables

	logger  zerolog.Logger
	metrics *Metrics
	custom  bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics records every run in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTables uses the given lookup tables instead of loading Config.TablesFile.
func WithTables(t Tables) Option {
	return func(s *Service) {
		s.tables = t.Clone()
		s.custom = true
	}
}

// NewService constructs a service with the given configuration.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{cfg: cfg, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if !s.custom {
		tables, err := LoadTables(cfg.TablesFile)
		if err != nil {
			return nil, err
		}
		s.tables = tables
		if cfg.TablesFile != "" {
			s.logger.Info().Str("path", cfg.TablesFile).Msg("Loaded lookup table overrides")
		}
	}
	return s, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// Tables returns a copy of the lookup tables in use.
func (s *Service) Tables() Tables {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.tables.Clone()
}

// UpdateConfig replaces the configuration and reloads the tables file when it changed.
func (s *Service) UpdateConfig(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	if cfg.TablesFile != s.cfg.TablesFile && !s.custom {
		tables, err := LoadTables(cfg.TablesFile)
		if err != nil {
			return err
		}
		s.tables = tables
	}
	s.cfg = cfg
	return nil
}

func (s *Service) snapshot() (Config, Tables) {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	// Tables are never mutated after construction, so sharing the maps is safe.
	return s.cfg, s.tables
}

// Enrich normalizes the header of a copy of raw, maps long-form questions to
// canonical fields and appends every derived column whose inputs are present.
// Per-row problems never fail the run; the only error is a nil table.
func (s *Service) Enrich(raw *Table) (*Result, error) {
	if raw == nil {
		return nil, ErrNilTable
	}
	started := time.Now()
	cfg, tables := s.snapshot()

	res := &Result{
		Table:        raw.Clone(),
		Unrecognized: map[CanonicalField]int{},
		Convention:   cfg.DurationConvention,
		samples:      map[CanonicalField]string{},
	}
	if res.Table.Len() == 0 {
		s.logger.Debug().Msg("Empty table, nothing to enrich")
		return res, nil
	}

	NormalizeTableHeaders(res.Table)
	res.Mapping = MapSchema(res.Table, tables.Questions)
	for _, r := range res.Mapping.Skipped {
		s.logger.Debug().Str("column", r.From).Str("field", string(r.Field)).
			Msg("Canonical column already present, long-form column kept as is")
	}

	e := &enrichment{
		t:      res.Table,
		tables: tables,
		res:    res,
		scores: map[CanonicalField][]int{},
	}
	if err := e.run(tables.Duration(cfg.DurationConvention)); err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}

	for field, n := range res.Unrecognized {
		s.logger.Debug().Str("field", string(field)).Int("count", n).
			Str("example", res.samples[field]).Msg("Unrecognized answers scored as 0")
	}
	computed := 0
	for _, o := range res.Outcomes {
		if o.Computed() {
			computed++
		}
	}
	s.logger.Info().
		Int("rows", res.Table.Len()).
		Int("renamed", len(res.Mapping.Renamed)).
		Int("derived", computed).
		Int("absent", len(res.Outcomes)-computed).
		Str("duration_convention", string(cfg.DurationConvention)).
		Msg("Enriched survey table")
	s.metrics.observe(res, time.Since(started))
	return res, nil
}

// enrichment holds the state of a single pipeline run.
type enrichment struct {
	t      *Table
	tables Tables
	res    *Result
	scores map[CanonicalField][]int
	err    error
}

func (e *enrichment) run(duration MidpointTable) error {
	e.parseTimestamps()
	e.sleepDuration(duration)
	e.sleepQuality()
	e.frequencyScores()
	e.insomniaIndices()
	e.lifestyleRisk()
	e.frequentFlags()
	e.bedTimeOrder()
	e.academicNumerics()
	return e.err
}

func (e *enrichment) missing(fields ...CanonicalField) []CanonicalField {
	var out []CanonicalField
	for _, f := range fields {
		if !e.t.HasField(f) {
			out = append(out, f)
		}
	}
	return out
}

// derive writes column when every required field exists, otherwise records it as absent.
func (e *enrichment) derive(column string, required []CanonicalField, compute func() []Value) {
	if missing := e.missing(required...); len(missing) > 0 {
		e.res.Outcomes = append(e.res.Outcomes, DerivedOutcome{Column: column, Status: StatusAbsent, Missing: missing})
		return
	}
	values := compute()
	unknown := 0
	for _, v := range values {
		if v.IsEmpty() {
			unknown++
		}
	}
	if err := e.t.SetColumn(column, values); err != nil && e.err == nil {
		e.err = err
	}
	e.res.Outcomes = append(e.res.Outcomes, DerivedOutcome{Column: column, Status: StatusComputed, Unknown: unknown})
}

// score encodes a field once per run and counts unrecognized, non-empty answers.
func (e *enrichment) score(field CanonicalField, scale Scale) []int {
	if cached, ok := e.scores[field]; ok {
		return cached
	}
	out := make([]int, e.t.Len())
	for i := range out {
		v := e.t.Get(i, string(field))
		score, ok := scale.Score(v)
		if !ok && !v.IsEmpty() {
			e.unrecognized(field, v)
		}
		out[i] = score
	}
	e.scores[field] = out
	return out
}

func (e *enrichment) unrecognized(field CanonicalField, v Value) {
	e.res.Unrecognized[field]++
	if _, seen := e.res.samples[field]; !seen {
		e.res.samples[field] = v.String()
	}
}

func (e *enrichment) each(fn func(i int) Value) []Value {
	out := make([]Value, e.t.Len())
	for i := range out {
		out[i] = fn(i)
	}
	return out
}

func (e *enrichment) parseTimestamps() {
	if !e.t.HasField(FieldTimestamp) {
		return
	}
	col := string(FieldTimestamp)
	values := e.each(func(i int) Value {
		v := e.t.Get(i, col)
		if v.Kind() == KindTime {
			return v
		}
		if ts, ok := ParseTimestamp(v.String()); ok {
			return Time(ts)
		}
		return Empty()
	})
	if err := e.t.SetColumn(col, values); err != nil && e.err == nil {
		e.err = err
	}
}

func (e *enrichment) sleepDuration(table MidpointTable) {
	req := []CanonicalField{FieldSleepHours}
	hours := make([]Hours, e.t.Len())
	for i := range hours {
		hours[i] = EstimateHours(e.t.Get(i, string(FieldSleepHours)), table)
	}
	e.derive(ColSleepHoursEst, req, func() []Value {
		return e.each(func(i int) Value { return hours[i].Cell() })
	})
	banding := SleepDurationBanding()
	e.derive(ColSleepDurationCategory, req, func() []Value {
		return e.each(func(i int) Value { return banding.Classify(hours[i].Value, hours[i].Known).Cell() })
	})
}

func (e *enrichment) sleepQuality() {
	req := []CanonicalField{FieldSleepQuality}
	col := string(FieldSleepQuality)
	e.derive(ColSleepQualityNum, req, func() []Value {
		return e.each(func(i int) Value {
			q, ok := QualityRating(e.t.Get(i, col))
			if !ok {
				return Empty()
			}
			return Number(q)
		})
	})
	e.derive(ColSleepQualityScore, req, func() []Value {
		return e.each(func(i int) Value { return Number(InvertedQualityRisk(e.t.Get(i, col))) })
	})
}

func (e *enrichment) scoreColumn(column string, field CanonicalField, scale Scale) {
	e.derive(column, []CanonicalField{field}, func() []Value {
		scores := e.score(field, scale)
		return e.each(func(i int) Value { return Number(float64(scores[i])) })
	})
}

func (e *enrichment) frequencyScores() {
	e.scoreColumn(ColFallingAsleepScore, FieldDifficultyFallingAsleep, e.tables.Frequency)
	e.scoreColumn(ColNightWakeupsScore, FieldNightWakeups, e.tables.Frequency)
	e.scoreColumn(ColFatigueScore, FieldDaytimeFatigue, e.tables.Frequency)
}

func (e *enrichment) insomniaIndices() {
	req := []CanonicalField{FieldDifficultyFallingAsleep, FieldNightWakeups, FieldSleepQuality}
	var components []ISIComponents
	if len(e.missing(req...)) == 0 {
		asleep := e.score(FieldDifficultyFallingAsleep, e.tables.Frequency)
		wake := e.score(FieldNightWakeups, e.tables.Frequency)
		var fatigue []int
		if e.t.HasField(FieldDaytimeFatigue) {
			fatigue = e.score(FieldDaytimeFatigue, e.tables.Frequency)
		}
		components = make([]ISIComponents, e.t.Len())
		for i := range components {
			components[i] = ISIComponents{
				FallingAsleep: float64(asleep[i]),
				NightWakeups:  float64(wake[i]),
				QualityRisk:   InvertedQualityRisk(e.t.Get(i, string(FieldSleepQuality))),
			}
			if fatigue != nil {
				components[i].Fatigue = float64(fatigue[i])
			}
		}
	}
	for _, isi := range []struct {
		variant ISIVariant
		index   string
		label   string
	}{
		{ISIVariantSleepPattern, ColInsomniaSeverityIndex, ColISICategory},
		{ISIVariantAcademic, ColInsomniaSeverityRaw, ColInsomniaCategory},
	} {
		variant := isi.variant
		e.derive(isi.index, req, func() []Value {
			return e.each(func(i int) Value { return Number(variant.Compute(components[i])) })
		})
		banding := variant.Banding()
		e.derive(isi.label, req, func() []Value {
			return e.each(func(i int) Value { return banding.Classify(variant.Compute(components[i]), true).Cell() })
		})
	}
}

func (e *enrichment) lifestyleRisk() {
	// Without rules every row would score 0, which reads as "no risk".
	if len(e.tables.Lifestyle) == 0 {
		e.res.Outcomes = append(e.res.Outcomes, DerivedOutcome{Column: ColLifestyleRisk, Status: StatusAbsent})
		return
	}
	req := make([]CanonicalField, 0, len(e.tables.Lifestyle))
	for _, rule := range e.tables.Lifestyle {
		req = append(req, rule.Field)
	}
	e.derive(ColLifestyleRisk, req, func() []Value {
		return e.each(func(i int) Value {
			risk := LifestyleRisk(e.tables.Lifestyle, func(f CanonicalField) Value { return e.t.Get(i, string(f)) })
			return Number(float64(risk))
		})
	})
}

func (e *enrichment) frequentFlags() {
	for _, flag := range []struct {
		column string
		field  CanonicalField
	}{
		{ColFrequentDifficultyFallingAsleep, FieldDifficultyFallingAsleep},
		{ColFrequentNightWakeups, FieldNightWakeups},
	} {
		col := string(flag.field)
		e.derive(flag.column, []CanonicalField{flag.field}, func() []Value {
			return e.each(func(i int) Value { return Bool(IsFrequent(e.t.Get(i, col), e.tables.FrequentKeywords)) })
		})
	}
}

func (e *enrichment) bedTimeOrder() {
	col := string(FieldBedTime)
	e.derive(ColBedTimeOrder, []CanonicalField{FieldBedTime}, func() []Value {
		return e.each(func(i int) Value {
			v := e.t.Get(i, col)
			rank, ok := e.tables.BedTime.Score(v)
			if !ok {
				if !v.IsEmpty() {
					e.unrecognized(FieldBedTime, v)
				}
				return Empty()
			}
			return Number(float64(rank))
		})
	})
}

func (e *enrichment) academicNumerics() {
	e.scoreColumn(ColDaytimeFatigueNumeric, FieldDaytimeFatigue, e.tables.Frequency)
	e.scoreColumn(ColConcentrationNumeric, FieldConcentrationDifficulty, e.tables.Frequency)
	e.scoreColumn(ColMissedClassesNumeric, FieldMissedClasses, e.tables.MissedClasses)

	// Performance and GPA keep unrecognized answers missing instead of scoring them 0.
	perf := string(FieldAcademicPerformance)
	e.derive(ColAcademicPerformanceNumeric, []CanonicalField{FieldAcademicPerformance}, func() []Value {
		return e.each(func(i int) Value {
			v := e.t.Get(i, perf)
			score, ok := e.tables.AcademicPerformance.Score(v)
			if !ok {
				if !v.IsEmpty() {
					e.unrecognized(FieldAcademicPerformance, v)
				}
				return Empty()
			}
			return Number(float64(score))
		})
	})
	for _, field := range []CanonicalField{FieldGPA, FieldCGPA} {
		col := string(field)
		e.derive(col+"_numeric", []CanonicalField{field}, func() []Value {
			return e.each(func(i int) Value {
				v := e.t.Get(i, col)
				if v.IsEmpty() {
					return Empty()
				}
				if mid, ok := e.tables.GPA.Lookup(v.String()); ok {
					return Number(mid)
				}
				if f, ok := v.Float(); ok {
					return Number(f)
				}
				e.unrecognized(field, v)
				return Empty()
			})
		})
	}
}
