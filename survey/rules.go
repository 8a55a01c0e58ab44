package survey

import "strings"

// KeywordWeight adds Weight when the answer contains any of the keywords.
type KeywordWeight struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Weight   int      `json:"weight" yaml:"weight"`
}

// KeywordRule scores one behavioural field. Bands are tried in order and the
// first one with a matching keyword wins, so stronger wordings come first.
//
// Matching is case-sensitive substring containment, unlike the exact wording
// match used by Scale. "Extremely high" hits the "Extremely" band before "High".
type KeywordRule struct {
	Field CanonicalField  `json:"field" yaml:"field"`
	Bands []KeywordWeight `json:"bands" yaml:"bands"`
}

// Weight returns the weight of the first matching band or 0.
func (r KeywordRule) Weight(v Value) int {
	if v.IsEmpty() {
		return 0
	}
	text := v.String()
	for _, band := range r.Bands {
		if containsKeyword(text, band.Keywords) {
			return band.Weight
		}
	}
	return 0
}

// Matches reports whether any band with a positive weight applies.
func (r KeywordRule) Matches(v Value) bool {
	return r.Weight(v) > 0
}

// MaxWeight is the largest weight the rule can contribute.
func (r KeywordRule) MaxWeight() int {
	top := 0
	for _, band := range r.Bands {
		if band.Weight > top {
			top = band.Weight
		}
	}
	return top
}

func (r KeywordRule) clone() KeywordRule {
	out := KeywordRule{Field: r.Field, Bands: make([]KeywordWeight, len(r.Bands))}
	for i, band := range r.Bands {
		out.Bands[i] = KeywordWeight{Keywords: cloneStrings(band.Keywords), Weight: band.Weight}
	}
	return out
}

// DefaultLifestyleRules returns the weights of the lifestyle risk score:
// device use and caffeine (Always 3, Often 2), physical inactivity
// (Never or Rarely 2) and academic stress (Extremely 3, High 2).
func DefaultLifestyleRules() []KeywordRule {
	return []KeywordRule{
		{Field: FieldDeviceUsage, Bands: []KeywordWeight{
			{Keywords: []string{"Always"}, Weight: 3},
			{Keywords: []string{"Often"}, Weight: 2},
		}},
		{Field: FieldCaffeineConsumption, Bands: []KeywordWeight{
			{Keywords: []string{"Always"}, Weight: 3},
			{Keywords: []string{"Often"}, Weight: 2},
		}},
		{Field: FieldPhysicalActivity, Bands: []KeywordWeight{
			{Keywords: []string{"Never", "Rarely"}, Weight: 2},
		}},
		{Field: FieldStressLevel, Bands: []KeywordWeight{
			{Keywords: []string{"Extremely"}, Weight: 3},
			{Keywords: []string{"High"}, Weight: 2},
		}},
	}
}

// DefaultFrequentKeywords flags a symptom answer as frequent.
func DefaultFrequentKeywords() []string {
	return []string{"Often", "Always"}
}

// LifestyleRisk adds up the rule weights for one respondent. The answers are
// looked up by each rule's field; a missing answer contributes 0.
func LifestyleRisk(rules []KeywordRule, answers func(CanonicalField) Value) int {
	total := 0
	for _, rule := range rules {
		total += rule.Weight(answers(rule.Field))
	}
	return total
}

// IsFrequent reports whether a symptom answer contains one of the keywords.
func IsFrequent(v Value, keywords []string) bool {
	if v.IsEmpty() {
		return false
	}
	return containsKeyword(v.String(), keywords)
}

func containsKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func cloneRules(rules []KeywordRule) []KeywordRule {
	if rules == nil {
		return nil
	}
	out := make([]KeywordRule, len(rules))
	for i, r := range rules {
		out[i] = r.clone()
	}
	return out
}
