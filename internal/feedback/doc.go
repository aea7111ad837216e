// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

/*
Package feedback closes the loop between learner feedback and the stored
interest profile.

An adaptation cycle moves through three states:

	NO_FEEDBACK -> ANALYZED -> ADAPTED

Analyzer.Analyze turns a window of feedback records into a satisfaction
tier and a thematic summary. Adapter.Adapt applies up to three rules to a
profile:

 1. track reconsideration: a poor satisfaction tier proposes the runner-up
    track when it trails the top track by less than SwitchGap
 2. interest amplification: every missing interest is resolved to taxonomy
    keywords; present keywords are multiplied by AmplifyFactor (optionally
    capped), absent ones are inserted at the mean of the current scores
 3. content rebalancing: a study-session mean below RebalanceBelow shrinks
    the dominant content type and grows the others

Cycle.Run wires both to the profile repository and persists the outcome,
appending an AdaptationRecord whenever at least one rule applied.

Collaborator failures never abort a cycle: a failed summary carries an
error marker, and a failed keyword resolution falls back to the raw
interest text.
*/
package feedback
