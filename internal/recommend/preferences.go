// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

// Study frequency suggestions.
const (
	FrequencyWeekly     = "weekly"
	FrequencyThreeTimes = "3x per week"
	FrequencyDaily      = "daily"
)

// DerivePreferences builds the initial learning preferences from the
// interview context: a content-type vector favouring the stated style,
// a session length and a study frequency scaled by weekly hours.
func DerivePreferences(uc UserContext) Preferences {
	content := map[string]float64{
		ContentText:      0.25,
		ContentVideo:     0.25,
		ContentExercises: 0.25,
		ContentProjects:  0.25,
	}
	var favourite string
	switch NormalizeStyle(uc.LearningStyle) {
	case StyleReading:
		favourite = ContentText
	case StyleVideos:
		favourite = ContentVideo
	case StylePracticalExercises:
		favourite = ContentExercises
	case StyleProjects:
		favourite = ContentProjects
	}
	if favourite != "" {
		for k := range content {
			content[k] = 0.2
		}
		content[favourite] = 0.4
	}

	var minutes int
	switch h := uc.WeeklyHours; {
	case h < 3:
		minutes = 20
	case h <= 6:
		minutes = 30
	case h <= 10:
		minutes = 45
	default:
		minutes = 60
	}

	var frequency string
	switch h := uc.WeeklyHours; {
	case h <= 2:
		frequency = FrequencyWeekly
	case h <= 7:
		frequency = FrequencyThreeTimes
	default:
		frequency = FrequencyDaily
	}

	return Preferences{
		ContentTypes:   content,
		SessionMinutes: minutes,
		Frequency:      frequency,
	}
}
