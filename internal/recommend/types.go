// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

import (
	"strings"

	"github.com/tomtom215/trilha/internal/catalog"
)

// LabelScores maps a lowercase taxonomy label to its relevance. A missing
// key means no evidence (score 0).
type LabelScores map[string]float64

// Clone returns an independent copy.
func (s LabelScores) Clone() LabelScores {
	out := make(LabelScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Mean returns the mean of all values and false when empty.
func (s LabelScores) Mean() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s)), true
}

// TrackScores maps a track name to its aggregated score. Tracks without
// qualifying evidence are absent.
type TrackScores map[string]float64

// Personality holds the five traits, each expected in [1,5].
type Personality struct {
	DetailOrientation  int    `json:"detail_orientation"`
	AnalyticalThinking int    `json:"analytical_thinking"`
	Creativity         int    `json:"creativity"`
	Teamwork           int    `json:"teamwork"`
	SelfMotivation     int    `json:"self_motivation"`
	Observation        string `json:"observation,omitempty"`
	// Error is set when the profile is a fallback after a failed inference.
	Error string `json:"error,omitempty"`
}

// NeutralTraitValue is the centre of the 1-5 trait scale.
const NeutralTraitValue = 3

// NeutralPersonality returns a profile with every trait at 3.
func NeutralPersonality() Personality {
	return Personality{
		DetailOrientation:  NeutralTraitValue,
		AnalyticalThinking: NeutralTraitValue,
		Creativity:         NeutralTraitValue,
		Teamwork:           NeutralTraitValue,
		SelfMotivation:     NeutralTraitValue,
	}
}

// Trait returns the clamped value of a trait. Unknown traits are neutral.
func (p Personality) Trait(t catalog.Trait) int {
	var v int
	switch t {
	case catalog.TraitDetailOrientation:
		v = p.DetailOrientation
	case catalog.TraitAnalyticalThinking:
		v = p.AnalyticalThinking
	case catalog.TraitCreativity:
		v = p.Creativity
	case catalog.TraitTeamwork:
		v = p.Teamwork
	case catalog.TraitSelfMotivation:
		v = p.SelfMotivation
	default:
		return NeutralTraitValue
	}
	return clampTrait(v)
}

// Clamped returns a copy with every trait inside [1,5].
func (p Personality) Clamped() Personality {
	p.DetailOrientation = clampTrait(p.DetailOrientation)
	p.AnalyticalThinking = clampTrait(p.AnalyticalThinking)
	p.Creativity = clampTrait(p.Creativity)
	p.Teamwork = clampTrait(p.Teamwork)
	p.SelfMotivation = clampTrait(p.SelfMotivation)
	return p
}

func clampTrait(v int) int {
	return min(max(v, 1), 5)
}

// RankedTrack is one entry of the ranking output.
type RankedTrack struct {
	Track      string  `json:"track"`
	Score      float64 `json:"score"`
	BaseScore  float64 `json:"base_score"`
	Adjustment float64 `json:"adjustment"`
}

// SourceWeights are the fusion weights per evidence source.
type SourceWeights struct {
	Hobbies float64 `json:"hobbies"`
	Likert  float64 `json:"likert"`
	Text    float64 `json:"text"`
}

// LearningGoal is the user's stated reason for studying.
type LearningGoal string

// Learning goals. The interview codes them "1" through "5" in this order.
const (
	GoalUnspecified       LearningGoal = ""
	GoalCareerDevelopment LearningGoal = "career_development"
	GoalFormalEducation   LearningGoal = "formal_education"
	GoalPersonalHobby     LearningGoal = "personal_hobby"
	GoalCareerChange      LearningGoal = "career_change"
	GoalSpecificProblem   LearningGoal = "specific_problem"
)

var goalCodes = map[string]LearningGoal{
	"1": GoalCareerDevelopment,
	"2": GoalFormalEducation,
	"3": GoalPersonalHobby,
	"4": GoalCareerChange,
	"5": GoalSpecificProblem,
}

// ParseGoal accepts either an interview code ("1".."5") or a goal name.
// Anything else yields GoalUnspecified.
func ParseGoal(s string) LearningGoal {
	s = strings.ToLower(strings.TrimSpace(s))
	if g, ok := goalCodes[s]; ok {
		return g
	}
	switch g := LearningGoal(strings.ReplaceAll(s, "-", "_")); g {
	case GoalCareerDevelopment, GoalFormalEducation, GoalPersonalHobby, GoalCareerChange, GoalSpecificProblem:
		return g
	}
	return GoalUnspecified
}

// Learning styles recognised by the weight calculator.
const (
	StyleReading            = "reading"
	StylePracticalExercises = "practical exercises"
	StyleVideos             = "videos"
	StyleProjects           = "projects"
)

var styleAliases = map[string]string{
	"reading":             StyleReading,
	"leitura":             StyleReading,
	"practical exercises": StylePracticalExercises,
	"practical_exercises": StylePracticalExercises,
	"exercícios práticos": StylePracticalExercises,
	"exercicios praticos": StylePracticalExercises,
	"videos":              StyleVideos,
	"vídeos":              StyleVideos,
	"projects":            StyleProjects,
	"projetos":            StyleProjects,
}

// NormalizeStyle maps a free-form style answer to one of the Style constants,
// or returns the lowercased input when unknown.
func NormalizeStyle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := styleAliases[s]; ok {
		return canonical
	}
	return s
}

// UserContext is the interview context used for weighting and preferences.
type UserContext struct {
	Age           int          `json:"age"`
	Goal          LearningGoal `json:"goal"`
	WeeklyHours   float64      `json:"weekly_hours"`
	LearningStyle string       `json:"learning_style"`
}

// Content types in a preference vector.
const (
	ContentText      = "text"
	ContentVideo     = "video"
	ContentExercises = "exercises"
	ContentProjects  = "projects"
)

// Preferences are the derived learning preferences.
type Preferences struct {
	ContentTypes   map[string]float64 `json:"content_types"`
	SessionMinutes int                `json:"session_minutes"`
	Frequency      string             `json:"frequency"`
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	out := p
	if p.ContentTypes != nil {
		out.ContentTypes = make(map[string]float64, len(p.ContentTypes))
		for k, v := range p.ContentTypes {
			out.ContentTypes[k] = v
		}
	}
	return out
}
