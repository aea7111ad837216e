// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

// Fuse blends incoming evidence into base:
//
//	result[k] = (base[k] + weight*incoming[k]) / 2
//
// for every k in the union of both maps. Only incoming is weighted, so each
// fold halves whatever came before it. Neither input is modified.
func Fuse(base, incoming LabelScores, weight float64) LabelScores {
	out := make(LabelScores, len(base)+len(incoming))
	for k, v := range base {
		out[k] = (v + weight*incoming[k]) / 2
	}
	for k, v := range incoming {
		if _, done := base[k]; done {
			continue
		}
		out[k] = weight * v / 2
	}
	return out
}
