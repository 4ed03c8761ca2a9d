package engine

import "time"

// DifficultyConfig shapes how strongly the engine plays. Depth and time cap
// the search itself; noise disturbs leaf evaluations; the blunder knobs make
// the engine sometimes pick a move that scores below the best one.
type DifficultyConfig struct {
	MaxDepth              int
	TimeBudget            time.Duration
	NoiseAmplitude        int
	BlunderProbability    float64
	BlunderMargin         int
	EvalFeatureScale      float64
	UseTranspositionTable bool
	UseKillerMoves        bool
}

const MaxLevel = 5

// Level returns the preset for a difficulty level from 1 (beginner) to 5
// (full strength). Out-of-range levels are clamped.
func Level(level int) DifficultyConfig {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	switch level {
	case 1:
		return DifficultyConfig{
			MaxDepth:           2,
			TimeBudget:         200 * time.Millisecond,
			NoiseAmplitude:     120,
			BlunderProbability: 0.35,
			BlunderMargin:      150,
			EvalFeatureScale:   0,
		}
	case 2:
		return DifficultyConfig{
			MaxDepth:           4,
			TimeBudget:         500 * time.Millisecond,
			NoiseAmplitude:     60,
			BlunderProbability: 0.20,
			BlunderMargin:      120,
			EvalFeatureScale:   0.4,
			UseKillerMoves:     true,
		}
	case 3:
		return DifficultyConfig{
			MaxDepth:              6,
			TimeBudget:            time.Second,
			NoiseAmplitude:        25,
			BlunderProbability:    0.08,
			BlunderMargin:         80,
			EvalFeatureScale:      0.7,
			UseTranspositionTable: true,
			UseKillerMoves:        true,
		}
	case 4:
		return DifficultyConfig{
			MaxDepth:              9,
			TimeBudget:            2 * time.Second,
			NoiseAmplitude:        8,
			BlunderProbability:    0.02,
			BlunderMargin:         50,
			EvalFeatureScale:      0.9,
			UseTranspositionTable: true,
			UseKillerMoves:        true,
		}
	}
	return DifficultyConfig{
		MaxDepth:              14,
		TimeBudget:            4 * time.Second,
		EvalFeatureScale:      1,
		UseTranspositionTable: true,
		UseKillerMoves:        true,
	}
}
