package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

var xlsxHeader = []string{
	"rank", "name", "affiliation", "discipline",
	"h_index", "h_index_5y", "i10_index", "citations", "citations_5y", "works",
	"consistency", "impact", "interests",
	"openalex_id", "scholar_id", "orcid", "sources",
}

// WriteXLSX writes the ranking as a single-sheet workbook.
func WriteXLSX(path string, entries []model.RankingEntry) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("ranking")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, name := range xlsxHeader {
		header.AddCell().SetString(name)
	}

	for _, row := range toRows(entries) {
		r := sheet.AddRow()
		r.AddCell().SetInt(row.Rank)
		r.AddCell().SetString(row.Name)
		r.AddCell().SetString(row.Affiliation)
		r.AddCell().SetString(row.Discipline)
		r.AddCell().SetInt(row.HIndex)
		r.AddCell().SetInt(row.HIndex5y)
		r.AddCell().SetInt(row.I10Index)
		r.AddCell().SetInt(row.Citations)
		r.AddCell().SetInt(row.Citations5y)
		r.AddCell().SetInt(row.Works)
		r.AddCell().SetInt(row.Consistency)
		r.AddCell().SetFloat(row.Impact)
		r.AddCell().SetString(row.Interests)
		r.AddCell().SetString(row.OpenAlexID)
		r.AddCell().SetString(row.ScholarID)
		r.AddCell().SetString(row.ORCID)
		r.AddCell().SetString(row.Sources)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}
