// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

import "github.com/tomtom215/trilha/internal/catalog"

// Aggregate scores each track as the mean of its member labels whose score
// is at least threshold. Members below threshold do not count toward the
// mean, and a track with no qualifying member is left out of the result.
func Aggregate(scores LabelScores, tracks []catalog.Track, threshold float64) TrackScores {
	out := make(TrackScores, len(tracks))
	for _, t := range tracks {
		var sum float64
		var n int
		for _, label := range t.Labels {
			v, ok := scores[label]
			if !ok || v < threshold {
				continue
			}
			sum += v
			n++
		}
		if n > 0 {
			out[t.Name] = sum / float64(n)
		}
	}
	return out
}
