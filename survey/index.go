package survey

// Score ranges of the composite indices.
const (
	MaxAcademicISI     = 16.0
	MaxSleepPatternISI = 28.0
	MaxLifestyleRisk   = 11
	maxComponentScore  = 4.0
)

// ISIVariant names one of the two insomnia-severity formulas.
type ISIVariant string

const (
	// ISIVariantAcademic sums all four components into a 0–16 raw score.
	ISIVariantAcademic ISIVariant = "academic"
	// ISIVariantSleepPattern rescales the three core components to 0–28.
	ISIVariantSleepPattern ISIVariant = "sleep-pattern"
)

// ISIComponents holds the per-respondent inputs of the insomnia-severity index.
// Each component is clamped to [0, 4] before use.
type ISIComponents struct {
	FallingAsleep float64
	NightWakeups  float64
	QualityRisk   float64
	Fatigue       float64
}

func (c ISIComponents) clamped() ISIComponents {
	return ISIComponents{
		FallingAsleep: clamp(c.FallingAsleep, 0, maxComponentScore),
		NightWakeups:  clamp(c.NightWakeups, 0, maxComponentScore),
		QualityRisk:   clamp(c.QualityRisk, 0, maxComponentScore),
		Fatigue:       clamp(c.Fatigue, 0, maxComponentScore),
	}
}

// AcademicISI is the raw 0–16 sum of all four components.
func AcademicISI(c ISIComponents) float64 {
	c = c.clamped()
	return c.FallingAsleep + c.NightWakeups + c.QualityRisk + c.Fatigue
}

// SleepPatternISI rescales the 0–12 sum of the three core components to
// 0–28, rounded to one decimal. Fatigue is not part of this variant.
func SleepPatternISI(c ISIComponents) float64 {
	c = c.clamped()
	raw := c.FallingAsleep + c.NightWakeups + c.QualityRisk
	return roundTo(raw/12*MaxSleepPatternISI, 1)
}

// Compute evaluates the named variant.
func (v ISIVariant) Compute(c ISIComponents) float64 {
	if v == ISIVariantAcademic {
		return AcademicISI(c)
	}
	return SleepPatternISI(c)
}

// Banding returns the categorization that belongs to the variant's scale.
func (v ISIVariant) Banding() Banding {
	if v == ISIVariantAcademic {
		return InsomniaRawBanding()
	}
	return InsomniaScaledBanding()
}
