package export

import (
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

// WriteCSV writes the ranking as a CSV file with a header row.
func WriteCSV(path string, entries []model.RankingEntry) error {
	data, err := csvutil.Marshal(toRows(entries))
	if err != nil {
		return eris.Wrap(err, "export: marshal csv")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}
