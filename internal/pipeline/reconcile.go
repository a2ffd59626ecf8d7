// Package pipeline turns raw source records into a ranked listing. The
// stages run in a fixed order: reconcile, clean, classify, score, rank.
// Each stage takes a slice and returns a new slice; inputs are never
// mutated, so a stage can be re-run or inspected in isolation.
package pipeline

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/registry"
)

// Reconcile folds raw records into one Researcher per real-world
// person. Records are first deduplicated by their source-qualified key,
// then grouped across sources through shared identifiers and the
// registry's curated name-to-Scholar-ID mapping. Running Reconcile over
// its own output keyed the same way yields the same set.
func Reconcile(records []model.RawRecord, reg *registry.Registry, log *zap.Logger) []model.Researcher {
	if log == nil {
		log = zap.L()
	}

	deduped := dedupeByKey(records)

	groups := groupIdentities(deduped, reg)

	researchers := make([]model.Researcher, 0, len(groups))
	for _, group := range groups {
		researchers = append(researchers, merge(group))
	}

	// Grouping over a map loses input order; restore a stable one so
	// downstream stages and tests see deterministic output.
	sort.Slice(researchers, func(i, j int) bool {
		if researchers[i].Name != researchers[j].Name {
			return researchers[i].Name < researchers[j].Name
		}
		return researchers[i].ID < researchers[j].ID
	})

	log.Info("reconcile: merged raw records",
		zap.Int("raw", len(records)),
		zap.Int("deduped", len(deduped)),
		zap.Int("researchers", len(researchers)),
	)
	return researchers
}

// dedupeByKey keeps one record per source-qualified identifier. When
// the same key appears twice the record with more total citations wins;
// ties keep the first occurrence.
func dedupeByKey(records []model.RawRecord) []model.RawRecord {
	index := make(map[string]int, len(records))
	out := make([]model.RawRecord, 0, len(records))
	for _, rec := range records {
		key := rec.Key()
		if at, ok := index[key]; ok {
			if rec.Metrics.Citations > out[at].Metrics.Citations {
				out[at] = rec
			}
			continue
		}
		index[key] = len(out)
		out = append(out, rec)
	}
	return out
}

// groupIdentities clusters records that describe the same person. Two
// records belong together only when they share a concrete identifier:
// an OpenAlex ID, a Scholar ID, or an ORCID. Names alone never merge;
// a name is consulted solely through the registry's curated scholar_ids
// mapping, which resolves it to a Scholar ID. Namesakes without a
// shared identifier stay distinct.
func groupIdentities(records []model.RawRecord, reg *registry.Registry) [][]model.RawRecord {
	type cluster struct {
		records []model.RawRecord
	}

	byIdentity := make(map[string]*cluster)
	var clusters []*cluster

	identityKeys := func(rec model.RawRecord) []string {
		var keys []string
		scholarID := rec.ScholarID
		if scholarID == "" && reg != nil {
			scholarID = reg.ScholarID(rec.Name)
		}
		if scholarID != "" {
			keys = append(keys, "scholar:"+scholarID)
		}
		if rec.OpenAlexID != "" {
			keys = append(keys, "openalex:"+rec.OpenAlexID)
		}
		if rec.ORCID != "" {
			keys = append(keys, "orcid:"+rec.ORCID)
		}
		return keys
	}

	for _, rec := range records {
		keys := identityKeys(rec)

		// A record carrying identifiers from several clusters proves
		// they are the same person: union every matched cluster.
		var home *cluster
		for _, key := range keys {
			c, ok := byIdentity[key]
			if !ok || c == home {
				continue
			}
			if home == nil {
				home = c
				continue
			}
			home.records = append(home.records, c.records...)
			c.records = nil
			for k, v := range byIdentity {
				if v == c {
					byIdentity[k] = home
				}
			}
		}
		if home == nil {
			home = &cluster{}
			clusters = append(clusters, home)
		}
		home.records = append(home.records, rec)
		for _, key := range keys {
			byIdentity[key] = home
		}
	}

	out := make([][]model.RawRecord, 0, len(clusters))
	for _, c := range clusters {
		if len(c.records) > 0 {
			out = append(out, c.records)
		}
	}
	return out
}

// merge collapses one identity cluster into a Researcher. The record
// with the highest total citations supplies every numeric metric as a
// block; textual fields come from any record that has them, preferring
// the most recently retrieved non-empty value.
func merge(group []model.RawRecord) model.Researcher {
	best := group[0]
	for _, rec := range group[1:] {
		if rec.Metrics.Citations > best.Metrics.Citations {
			best = rec
		}
	}

	r := model.Researcher{
		ID:      uuid.NewString(),
		Metrics: best.Metrics,
	}

	// Most recent first so the first non-empty value wins.
	ordered := make([]model.RawRecord, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RetrievedAt.After(ordered[j].RetrievedAt)
	})

	seenSource := make(map[model.Source]bool)
	for _, rec := range ordered {
		if !seenSource[rec.Source] {
			seenSource[rec.Source] = true
			r.Sources = append(r.Sources, rec.Source)
		}
		if r.OpenAlexID == "" {
			r.OpenAlexID = rec.OpenAlexID
		}
		if r.ScholarID == "" {
			r.ScholarID = rec.ScholarID
		}
		if r.ORCID == "" {
			r.ORCID = rec.ORCID
		}
		if r.Name == "" {
			r.Name = rec.Name
		}
		if r.Affiliation == "" {
			r.Affiliation = rec.Affiliation
		}
		if r.Country == "" {
			r.Country = rec.Country
		}
		if r.EmailDomain == "" {
			r.EmailDomain = rec.EmailDomain
		}
		if len(r.Interests) == 0 {
			r.Interests = rec.Interests
		}
		if r.FieldLabel == "" {
			r.FieldLabel = rec.FieldLabel
		}
		if rec.RetrievedAt.After(r.RetrievedAt) {
			r.RetrievedAt = rec.RetrievedAt
		}
	}

	sort.Slice(r.Sources, func(i, j int) bool { return r.Sources[i] < r.Sources[j] })
	return r
}
