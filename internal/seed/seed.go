// Package seed loads curated researcher identifier lists that bootstrap
// a scraping run: spreadsheets exported from earlier runs, CSVs edited
// by hand, or plain-text files with one Scholar ID per line.
package seed

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// idColumns are the header names accepted for the Scholar ID column,
// matched case-insensitively. Hand-edited files are inconsistent about
// naming, so the list is generous.
var idColumns = []string{"scholar_id", "id", "google_scholar_id", "scholarid", "user"}

// Load reads Scholar profile IDs from path. The format is picked by
// extension: .csv and .xlsx expect a header row with an ID column; any
// other extension is read as one ID per line. IDs are deduplicated
// preserving first occurrence.
func Load(path string) ([]string, error) {
	var ids []string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		ids, err = loadCSV(path)
	case ".xlsx":
		ids, err = loadXLSX(path)
	default:
		ids, err = loadLines(path)
	}
	if err != nil {
		return nil, err
	}
	return dedupe(ids), nil
}

func loadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "seed: parse %s", path)
	}
	return idsFromRows(rows, path)
}

func loadXLSX(path string) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("seed: %s has no sheets", path)
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return idsFromRows(rows, path)
}

func loadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: read %s", path)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, nil
}

// idsFromRows locates the ID column in the header row and collects its
// non-empty values.
func idsFromRows(rows [][]string, path string) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	col := -1
	for i, header := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(header))
		for _, candidate := range idColumns {
			if name == candidate {
				col = i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	if col < 0 {
		return nil, eris.Errorf("seed: %s has no recognizable ID column (header %v)", path, rows[0])
	}

	var ids []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[col])
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
