// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

import (
	"sort"

	"github.com/tomtom215/trilha/internal/catalog"
)

// Ranker applies the personality adjustment table and orders tracks.
//
// For every track the adjustment is
//
//	Σ coefficient(track, trait) * (trait - 3)
//
// over the rows of the table, with traits clamped to [1,5]. Tracks that have
// no rows pass through unchanged.
type Ranker struct {
	coefficients map[string][]catalog.PersonalityCoefficient
	order        map[string]int
}

// NewRanker builds a ranker from the catalog's track order and
// personality table.
func NewRanker(cat *catalog.Catalog) *Ranker {
	r := &Ranker{
		coefficients: make(map[string][]catalog.PersonalityCoefficient),
		order:        make(map[string]int, len(cat.Tracks)),
	}
	for i, t := range cat.Tracks {
		r.order[t.Name] = i
	}
	for _, row := range cat.Personality {
		r.coefficients[row.Track] = append(r.coefficients[row.Track], row)
	}
	return r
}

// Adjustment returns the personality nudge for one track.
func (r *Ranker) Adjustment(track string, p Personality) float64 {
	var adj float64
	for _, row := range r.coefficients[track] {
		adj += row.Coefficient * float64(p.Trait(row.Trait)-NeutralTraitValue)
	}
	return adj
}

// Rank returns at most topN tracks by adjusted score, highest first. Equal
// scores keep the catalog's declared track order; tracks unknown to the
// catalog sort after known ones, by name. topN <= 0 means DefaultTopTracks.
func (r *Ranker) Rank(scores TrackScores, p Personality, topN int) []RankedTrack {
	if len(scores) == 0 {
		return []RankedTrack{}
	}
	if topN <= 0 {
		topN = DefaultTopTracks
	}

	ranked := make([]RankedTrack, 0, len(scores))
	for track, base := range scores {
		adj := r.Adjustment(track, p)
		ranked = append(ranked, RankedTrack{
			Track:      track,
			Score:      base + adj,
			BaseScore:  base,
			Adjustment: adj,
		})
	}

	// declared order first, so the stable score sort preserves it on ties
	sort.Slice(ranked, func(i, j int) bool {
		return r.less(ranked[i].Track, ranked[j].Track)
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func (r *Ranker) less(a, b string) bool {
	ia, okA := r.order[a]
	ib, okB := r.order[b]
	switch {
	case okA && okB:
		return ia < ib
	case okA != okB:
		return okA
	default:
		return a < b
	}
}
