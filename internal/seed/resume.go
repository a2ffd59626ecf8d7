package seed

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

// LoadRecords reads raw records saved by a previous run so a pipeline
// can resume without re-fetching. The file is the JSON array written by
// SaveRecords.
func LoadRecords(path string) ([]model.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: read %s", path)
	}

	var records []model.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "seed: parse %s", path)
	}
	return records, nil
}

// SaveRecords writes raw records as indented JSON, the checkpoint
// format LoadRecords reads back.
func SaveRecords(path string, records []model.RawRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "seed: marshal records")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "seed: write %s", path)
	}
	return nil
}
