package scorefeed

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mcoot/superbowl-squares/internal/model"
)

const envPrefix = "WINNER_"

// Key returns the variable holding a quarter's score (WINNER_Q1 for q1)
func Key(q model.Quarter) string {
	return envPrefix + strings.ToUpper(string(q))
}

// Source reads scores from the process environment and an optional .env file.
// Values in the file win over the environment so edits are picked up on reload.
type Source struct {
	envFile string
	lookup  func(string) (string, bool)
	logger  *slog.Logger
}

// NewSource creates a Source. An empty envFile reads the environment only.
func NewSource(envFile string, logger *slog.Logger) *Source {
	return &Source{
		envFile: envFile,
		lookup:  os.LookupEnv,
		logger:  logger,
	}
}

// Scores returns every quarter with a valid score, in quarter order
func (s *Source) Scores() ([]model.QuarterScore, error) {
	values := make(map[string]string)
	for _, q := range model.Quarters {
		if v, ok := s.lookup(Key(q)); ok {
			values[Key(q)] = v
		}
	}

	if s.envFile != "" {
		fileValues, err := godotenv.Read(s.envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.logger.Debug("score file not found", slog.String("path", s.envFile))
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", s.envFile, err)
		default:
			for _, q := range model.Quarters {
				if v, ok := fileValues[Key(q)]; ok {
					values[Key(q)] = v
				}
			}
		}
	}

	return Parse(values, s.logger), nil
}

// Parse extracts quarter scores from WINNER_Qn values. Missing quarters are
// skipped silently, malformed ones with a warning.
func Parse(values map[string]string, logger *slog.Logger) []model.QuarterScore {
	var scores []model.QuarterScore
	for _, q := range model.Quarters {
		raw, ok := values[Key(q)]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		pair, err := ParseScorePair(raw)
		if err != nil {
			logger.Warn("skipping invalid score",
				slog.String("quarter", string(q)),
				slog.String("value", raw),
				slog.String("error", err.Error()),
			)
			continue
		}
		scores = append(scores, model.QuarterScore{Quarter: q, Scores: pair})
	}
	return scores
}

// ParseScorePair parses "chiefs,eagles" raw scores and keeps the last digit of each
func ParseScorePair(raw string) (model.ScorePair, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return model.ScorePair{}, fmt.Errorf("%w: expected two comma-separated scores", model.ErrInvalidInput)
	}

	var pair model.ScorePair
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return model.ScorePair{}, fmt.Errorf("%w: score %q is not a number", model.ErrInvalidInput, part)
		}
		if n < 0 {
			return model.ScorePair{}, fmt.Errorf("%w: score %d is negative", model.ErrInvalidInput, n)
		}
		pair[i] = n % 10
	}
	return pair, nil
}
