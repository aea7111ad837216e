// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/catalog"
	"github.com/tomtom215/trilha/internal/llm"
)

func newTestMapper(t *testing.T, cat *catalog.Catalog, classifier Classifier, gen llm.Generator) *Mapper {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FallbackTrack = "Tecnologia"
	var inferer *PersonalityInferer
	if gen != nil {
		inferer = NewPersonalityInferer(gen, zerolog.Nop())
	}
	return NewMapper(cat, NewExtractor(classifier, cfg, zerolog.Nop()), inferer, cfg, zerolog.Nop())
}

func TestMapper_Map_HobbyAndLikertOnly(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	stub := &stubClassifier{}
	m := newTestMapper(t, cat, stub, nil)

	res, err := m.Map(context.Background(), Answers{
		Context:     UserContext{WeeklyHours: 5},
		Hobbies:     []string{"Jogar videogames"},
		Likert:      map[string]int{"programação": 5},
		TextAnswers: []string{"", "  "},
	})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if stub.Calls() != 0 {
		t.Errorf("classifier called %d times for blank answers", stub.Calls())
	}
	if got := res.FinalScores["jogar videogames"]; !approxEqual(got, 0.25) {
		t.Errorf("final[jogar videogames] = %v, want 0.25", got)
	}
	if got := res.FinalScores["programação"]; !approxEqual(got, 0.45) {
		t.Errorf("final[programação] = %v, want 0.45", got)
	}
	if got := res.TrackScores["Tecnologia"]; !approxEqual(got, 0.35) {
		t.Errorf("track[Tecnologia] = %v, want 0.35", got)
	}
	if got := res.TrackScores["Ciências Exatas"]; !approxEqual(got, 0.45) {
		t.Errorf("track[Ciências Exatas] = %v, want 0.45", got)
	}
	if res.RecommendedTrack != "Ciências Exatas" || res.UsedFallback {
		t.Errorf("recommended = %q (fallback %v), want Ciências Exatas", res.RecommendedTrack, res.UsedFallback)
	}
	if res.Personality != NeutralPersonality() {
		t.Errorf("personality = %+v, want neutral", res.Personality)
	}
	if res.Weights != BaseWeights {
		t.Errorf("weights = %+v, want base weights", res.Weights)
	}
}

func TestMapper_Map_TextEvidence(t *testing.T) {
	cat := testCatalog(t)
	stub := &stubClassifier{byText: map[string]ClassifierResult{
		"adoro desenhar": {Labels: []string{"desenho", "robótica"}, Scores: []float64{0.9, 0.02}},
	}}
	gen := llm.GeneratorFunc(func(context.Context, string, llm.Options) (string, error) {
		return `{"detail_orientation": 3, "analytical_thinking": 3, "creativity": 5, "teamwork": 3, "self_motivation": 3}`, nil
	})
	m := newTestMapper(t, cat, stub, gen)

	res, err := m.Map(context.Background(), Answers{
		Context:     UserContext{WeeklyHours: 5, Goal: GoalSpecificProblem},
		TextAnswers: []string{"adoro desenhar"},
	})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	// hobbies and likert folds are empty, so only 1.4*0.9/2 survives
	if got := res.FinalScores["desenho"]; !approxEqual(got, 0.63) {
		t.Errorf("final[desenho] = %v, want 0.63", got)
	}
	if _, ok := res.FinalScores["robótica"]; ok {
		t.Error("sub-relevance label should not be fused")
	}
	if res.RecommendedTrack != "Artes e Design" {
		t.Errorf("recommended = %q, want Artes e Design", res.RecommendedTrack)
	}
	if !approxEqual(res.Ranked[0].Adjustment, 0.10) {
		t.Errorf("creativity adjustment = %v, want 0.10", res.Ranked[0].Adjustment)
	}
}

func TestMapper_Map_Fallback(t *testing.T) {
	m := newTestMapper(t, testCatalog(t), &stubClassifier{}, nil)

	res, err := m.Map(context.Background(), Answers{Hobbies: []string{"algo fora da taxonomia"}})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if !res.UsedFallback || res.RecommendedTrack != "Tecnologia" {
		t.Errorf("expected fallback to Tecnologia, got %q (fallback %v)", res.RecommendedTrack, res.UsedFallback)
	}
	if len(res.Ranked) != 0 {
		t.Errorf("ranked = %+v, want empty", res.Ranked)
	}
}

func TestMapper_Map_CancelledContext(t *testing.T) {
	m := newTestMapper(t, testCatalog(t), &stubClassifier{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Map(ctx, Answers{}); err == nil {
		t.Error("Map() with cancelled context should fail")
	}
}

func TestNormalizeLikert(t *testing.T) {
	tests := map[int]float64{1: 0, 2: 0.25, 3: 0.5, 5: 1, 0: 0, 9: 1}
	for in, want := range tests {
		if got := NormalizeLikert(in); !approxEqual(got, want) {
			t.Errorf("NormalizeLikert(%d) = %v, want %v", in, got, want)
		}
	}
}
