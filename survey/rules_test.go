package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifestyleRuleWeights(t *testing.T) {
	rules := DefaultLifestyleRules()
	byField := map[CanonicalField]KeywordRule{}
	for _, r := range rules {
		byField[r.Field] = r
	}

	tests := []struct {
		field    CanonicalField
		answer   string
		expected int
	}{
		{FieldDeviceUsage, "Always", 3},
		{FieldDeviceUsage, "Often", 2},
		{FieldDeviceUsage, "Sometimes", 0},
		{FieldCaffeineConsumption, "Often (daily)", 2},
		{FieldPhysicalActivity, "Rarely", 2},
		{FieldPhysicalActivity, "Never", 2},
		{FieldPhysicalActivity, "Often", 0},
		{FieldStressLevel, "Extremely high", 3},
		{FieldStressLevel, "High", 2},
		{FieldStressLevel, "high", 0},
		{FieldStressLevel, "", 0},
	}
	for _, tt := range tests {
		got := byField[tt.field].Weight(Text(tt.answer))
		assert.Equal(t, tt.expected, got, "%s=%q", tt.field, tt.answer)
	}
}

func TestLifestyleRiskBounds(t *testing.T) {
	rules := DefaultLifestyleRules()
	worst := map[CanonicalField]Value{
		FieldDeviceUsage:         Text("Always"),
		FieldCaffeineConsumption: Text("Always"),
		FieldPhysicalActivity:    Text("Never"),
		FieldStressLevel:         Text("Extremely high"),
	}
	assert.Equal(t, MaxLifestyleRisk, LifestyleRisk(rules, func(f CanonicalField) Value { return worst[f] }))
	assert.Equal(t, 0, LifestyleRisk(rules, func(CanonicalField) Value { return Empty() }))

	top := 0
	for _, r := range rules {
		top += r.MaxWeight()
	}
	assert.Equal(t, MaxLifestyleRisk, top)
}

func TestIsFrequent(t *testing.T) {
	keywords := DefaultFrequentKeywords()
	assert.True(t, IsFrequent(Text("Often (5–6 times a week)"), keywords))
	assert.True(t, IsFrequent(Text("Always (every night)"), keywords))
	assert.False(t, IsFrequent(Text("Sometimes"), keywords))
	assert.False(t, IsFrequent(Text("every so often"), keywords), "matching is case-sensitive")
	assert.False(t, IsFrequent(Empty(), keywords))
	assert.False(t, IsFrequent(Text("Often"), []string{""}))
}
