package survey

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "\ufeffTimestamp,\"How often do you have difficulty falling asleep at night?\",SleepQuality\n" +
		"1/15/2024 9:30:12,  Often (5–6 times a week) ,4\n" +
		",,\n" +
		"1/16/2024 10:00:00,Never\n"

	tbl, err := ReadCSV(strings.NewReader(input), ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"Timestamp", "How often do you have difficulty falling asleep at night?", "SleepQuality"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len(), "blank rows are skipped")
	assert.Equal(t, "Often (5–6 times a week)", tbl.Get(0, "How often do you have difficulty falling asleep at night?").String())
	assert.Equal(t, KindText, tbl.Get(0, "SleepQuality").Kind())
	assert.True(t, tbl.Get(1, "SleepQuality").IsEmpty(), "short rows read as empty")
}

func TestReadCSVEmptyInput(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""), ',')
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Columns)
}

func TestReadCSVDuplicateHeaders(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("Faculty,Faculty\nScience,Arts\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"Faculty", "Faculty.1"}, tbl.Columns)
	assert.Equal(t, "Arts", tbl.Get(0, "Faculty.1").String())
}

func TestWriteCSV(t *testing.T) {
	tbl := NewTable([]string{"SleepHours", ColSleepHoursEst, ColFrequentNightWakeups})
	tbl.AppendRow([]Value{Text("6-7 hours, roughly"), Number(6.5), Bool(true)})
	tbl.AppendRow([]Value{Text("It varies"), Empty(), Bool(false)})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, ','))

	expected := "SleepHours,SleepHours_est,FrequentNightWakeups\n" +
		"\"6-7 hours, roughly\",6.5,true\n" +
		"It varies,,false\n"
	assert.Equal(t, expected, buf.String())
	assert.ErrorIs(t, WriteCSV(&buf, nil, ','), ErrNilTable)
}

func TestReadWriteFileTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "responses.tsv")
	tbl := NewTable([]string{"BedTime", "Faculty"})
	tbl.AppendRow([]Value{Text("10–11 PM"), Text("Engineering")})

	require.NoError(t, WriteFile(path, tbl))
	got, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, tbl, got)
	assert.Equal(t, '\t', DelimiterFor(path))
	assert.Equal(t, ',', DelimiterFor("export.CSV"))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorContains(t, err, "open nope.csv")
}
