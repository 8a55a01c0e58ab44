package testhelper

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"yashubustudio/sleepsurvey/survey"
)

// SampleAnswers holds three respondents keyed by canonical field: a severe
// insomnia profile, a healthy one and a partial response.
var SampleAnswers = []map[survey.CanonicalField]string{
	{
		survey.FieldTimestamp:               "1/15/2024 9:30:12",
		survey.FieldFaculty:                 "Engineering",
		survey.FieldDifficultyFallingAsleep: "Always (every night)",
		survey.FieldNightWakeups:            "Often (5–6 times a week)",
		survey.FieldSleepQuality:            "1",
		survey.FieldSleepHours:              "Less than 4 hours",
		survey.FieldBedTime:                 "After 12 AM",
		survey.FieldDaytimeFatigue:          "Always",
		survey.FieldDeviceUsage:             "Always",
		survey.FieldCaffeineConsumption:     "Often",
		survey.FieldPhysicalActivity:        "Never",
		survey.FieldStressLevel:             "Extremely high",
		survey.FieldGPA:                     "2.00 - 2.99",
	},
	{
		survey.FieldTimestamp:               "1/20/2024 18:05:00",
		survey.FieldFaculty:                 "Science",
		survey.FieldDifficultyFallingAsleep: "Never",
		survey.FieldNightWakeups:            "Never",
		survey.FieldSleepQuality:            "5",
		survey.FieldSleepHours:              "7-8 hours",
		survey.FieldBedTime:                 "10–11 PM",
		survey.FieldDaytimeFatigue:          "Never",
		survey.FieldDeviceUsage:             "Rarely",
		survey.FieldCaffeineConsumption:     "Never",
		survey.FieldPhysicalActivity:        "Often",
		survey.FieldStressLevel:             "Moderate",
		survey.FieldGPA:                     "3.70 - 4.00",
	},
	{
		survey.FieldFaculty:      "Engineering",
		survey.FieldSleepQuality: "2",
		survey.FieldSleepHours:   "6-7 hours",
	},
}

// SampleCSV renders SampleAnswers as a long-form questionnaire export with the
// question text as header.
func SampleCSV(t testing.TB) []byte {
	t.Helper()
	catalog := survey.DefaultQuestionCatalog()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := make([]string, len(catalog))
	for i, entry := range catalog {
		header[i] = entry.Question
	}
	require.NoError(t, w.Write(header))
	for _, answers := range SampleAnswers {
		row := make([]string, len(catalog))
		for i, entry := range catalog {
			row[i] = answers[entry.Field]
		}
		require.NoError(t, w.Write(row))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.Bytes()
}

// WriteSample writes SampleCSV into dir and returns the file path.
func WriteSample(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "responses.csv")
	require.NoError(t, os.WriteFile(path, SampleCSV(t), 0o644))
	return path
}
