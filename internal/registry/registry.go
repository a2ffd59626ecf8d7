// Package registry loads the versioned data files consulted read-only
// by the pipeline: exclusion rules, the name-to-Scholar-ID map,
// discipline classification rules, and institution abbreviations.
// Keeping these outside the code lets them be audited and updated
// without touching logic.
package registry

import (
	"os"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Registry is the full data set. Discipline rules are ordered; first
// match wins, so YAML sequence order is significant and preserved.
type Registry struct {
	Version    string     `yaml:"version"`
	Exclusions Exclusions `yaml:"exclusions"`

	// ScholarIDs maps researcher display names (including spelling
	// variants) to Google Scholar profile IDs. This file is the single
	// authority for identity mapping; no other table is consulted.
	ScholarIDs map[string]string `yaml:"scholar_ids"`

	Disciplines       []DisciplineRule  `yaml:"disciplines"`
	FieldLabels       map[string]string `yaml:"field_labels"`
	DefaultDiscipline string            `yaml:"default_discipline"`
	DisciplineAbbrev  map[string]string `yaml:"discipline_abbrev"`
	Institutions      map[string]string `yaml:"institutions"`
	Extraction        Extraction        `yaml:"extraction"`

	normalizedIDs map[string]string
}

// Exclusions holds the denylists applied by the cleaning filter.
// Matching is exact and case-sensitive against the source's native
// spelling.
type Exclusions struct {
	Names        []string `yaml:"names"`
	Affiliations []string `yaml:"affiliations"`
	Fields       []string `yaml:"fields"`
}

// DisciplineRule assigns a label when any keyword appears in the
// lower-cased topic text.
type DisciplineRule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
	// Field optionally matches the raw upstream field label exactly,
	// in addition to the keywords.
	Field string `yaml:"field,omitempty"`
}

// Extraction holds the upstream category allow-lists used while
// downloading from the bibliometric API.
type Extraction struct {
	Domains []string `yaml:"domains"`
	Fields  []string `yaml:"fields"`
	Topics  []string `yaml:"topics"`
}

// Load reads a registry file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read %s", path)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, eris.Wrapf(err, "registry: parse %s", path)
	}

	reg.buildIndex()
	return &reg, nil
}

func (r *Registry) buildIndex() {
	r.normalizedIDs = make(map[string]string, len(r.ScholarIDs))
	for name, id := range r.ScholarIDs {
		r.normalizedIDs[NormalizeName(name)] = id
	}
}

// ExcludedName reports whether name is on the denylist.
func (r *Registry) ExcludedName(name string) bool {
	return contains(r.Exclusions.Names, name)
}

// ExcludedAffiliation reports whether affiliation is on the denylist.
func (r *Registry) ExcludedAffiliation(affiliation string) bool {
	return contains(r.Exclusions.Affiliations, affiliation)
}

// ExcludedField reports whether the raw field label is on the denylist.
func (r *Registry) ExcludedField(field string) bool {
	return contains(r.Exclusions.Fields, field)
}

// ScholarID resolves a display name to a Scholar profile ID. Exact
// spellings are tried first, then a diacritic- and hyphen-insensitive
// form. An unmatched name yields ""; that is not an error.
func (r *Registry) ScholarID(name string) string {
	if id, ok := r.ScholarIDs[name]; ok {
		return id
	}
	if r.normalizedIDs == nil {
		r.buildIndex()
	}
	return r.normalizedIDs[NormalizeName(name)]
}

// Abbreviate returns the short form of an institution name, or the
// name unchanged when no mapping exists.
func (r *Registry) Abbreviate(institution string) string {
	if short, ok := r.Institutions[institution]; ok {
		return short
	}
	return institution
}

// AbbreviateDiscipline returns the short form of a discipline label.
func (r *Registry) AbbreviateDiscipline(label string) string {
	if short, ok := r.DisciplineAbbrev[label]; ok {
		return short
	}
	if len(label) > 4 {
		return label[:4]
	}
	return label
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// hyphenVariants maps typographic hyphens to ASCII before folding.
var hyphenVariants = strings.NewReplacer("‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-")

var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName folds a display name for identity comparison:
// diacritics removed, hyphen variants unified, case and surrounding
// whitespace ignored.
func NormalizeName(name string) string {
	name = hyphenVariants.Replace(name)
	folded, _, err := transform.String(foldTransform, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
