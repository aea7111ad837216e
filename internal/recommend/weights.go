// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

// BaseWeights are used when the context triggers no adjustment.
var BaseWeights = SourceWeights{Hobbies: 1.0, Likert: 0.9, Text: 1.1}

// ComputeWeights derives fusion weights from the user context. The goal
// sets absolute values; hours and learning style then multiply, so several
// adjustments can compound.
func ComputeWeights(uc UserContext) SourceWeights {
	w := BaseWeights

	switch uc.Goal {
	case GoalCareerDevelopment:
		w.Text, w.Likert = 1.3, 1.0
	case GoalFormalEducation:
		w.Text, w.Likert = 1.2, 1.1
	case GoalPersonalHobby:
		w.Hobbies = 1.2
	case GoalCareerChange:
		w.Text, w.Hobbies = 1.3, 0.8
	case GoalSpecificProblem:
		w.Text = 1.4
	}

	switch {
	case uc.WeeklyHours < 3:
		w.Hobbies *= 1.2
	case uc.WeeklyHours > 10:
		w.Text *= 1.1
	}

	switch NormalizeStyle(uc.LearningStyle) {
	case StyleReading:
		w.Text *= 1.1
	case StylePracticalExercises:
		w.Hobbies *= 1.1
	}

	return w
}
