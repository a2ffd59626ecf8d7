package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "seed.csv", "name,Scholar_ID\nAna Soto,AbC123\nBeatriz Rojas,DeF456\n,\n")
	ids, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AbC123", "DeF456"}, ids)
}

func TestLoadCSVSynonymColumns(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"id", "ID", "google_scholar_id", "ScholarID", "user"} {
		path := writeTemp(t, "seed.csv", header+"\nXyZ789\n")
		ids, err := Load(path)
		require.NoError(t, err, header)
		assert.Equal(t, []string{"XyZ789"}, ids, header)
	}
}

func TestLoadCSVNoIDColumn(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "seed.csv", "name,affiliation\nAna,UCh\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadPlainText(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "seed.txt", "AbC123\n# comment\n\n  DeF456  \nAbC123\n")
	ids, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AbC123", "DeF456"}, ids)
}

func TestLoadXLSX(t *testing.T) {
	t.Parallel()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("ids")
	require.NoError(t, err)
	header := sheet.AddRow()
	header.AddCell().SetString("scholar_id")
	row := sheet.AddRow()
	row.AddCell().SetString("AbC123")

	path := filepath.Join(t.TempDir(), "seed.xlsx")
	require.NoError(t, f.Save(path))

	ids, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AbC123"}, ids)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestRecordsRoundTrip(t *testing.T) {
	t.Parallel()

	records := []model.RawRecord{
		{
			Source:      model.SourceScholar,
			SourceID:    "AbC123",
			ScholarID:   "AbC123",
			Name:        "Ana Soto",
			Metrics:     model.Metrics{HIndex: 9, Citations: 300},
			RetrievedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, SaveRecords(path, records))

	got, err := LoadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}
