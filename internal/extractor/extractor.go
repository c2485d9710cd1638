// Package extractor pulls postal-code entities out of free-text addresses.
// The recognition rules are not hardcoded: they are loaded at startup from a
// trained model file living in a fixed directory, so the model can be
// retrained and swapped without rebuilding the service.
package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// ModelFileName is the expected model file inside the model directory.
const ModelFileName = "postal_code.json"

// Common errors for the extractor.
var (
	// ErrNoPostalCode is returned when no postal-code entity can be found
	// in the input text.
	ErrNoPostalCode = errors.New("no postal code entity found in input")
	// ErrEmptyModel is returned when the model file contains no usable patterns.
	ErrEmptyModel = errors.New("postal code model contains no patterns")
)

// model is the on-disk representation of the trained recognizer.
type model struct {
	Label    string   `json:"label"`    // Entity label, e.g. POSTAL_CODE.
	Patterns []string `json:"patterns"` // Regular expressions, first match wins.
	MinLen   int      `json:"min_len"`  // Minimum accepted entity length.
	MaxLen   int      `json:"max_len"`  // Maximum accepted entity length.
}

// Extractor recognizes postal codes in free text using the loaded model.
type Extractor struct {
	label    string
	patterns []*regexp.Regexp
	minLen   int
	maxLen   int
	log      *slog.Logger
}

// Load reads and compiles the postal-code model from the given directory.
func Load(modelDir string, log *slog.Logger) (*Extractor, error) {
	path := filepath.Join(modelDir, ModelFileName)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read postal code model %q: %w", path, err)
	}

	var mdl model
	if err = json.Unmarshal(raw, &mdl); err != nil {
		return nil, fmt.Errorf("failed to decode postal code model %q: %w", path, err)
	}

	if len(mdl.Patterns) == 0 {
		return nil, ErrEmptyModel
	}

	patterns := make([]*regexp.Regexp, 0, len(mdl.Patterns))
	for _, p := range mdl.Patterns {
		re, errCompile := regexp.Compile(p)
		if errCompile != nil {
			return nil, fmt.Errorf("failed to compile model pattern %q: %w", p, errCompile)
		}
		patterns = append(patterns, re)
	}

	log.Debug("Postal code model loaded", "path", path, "label", mdl.Label, "patterns", len(patterns))

	return &Extractor{
		label:    mdl.Label,
		patterns: patterns,
		minLen:   mdl.MinLen,
		maxLen:   mdl.MaxLen,
		log:      log,
	}, nil
}

// Label returns the entity label the model was trained for.
func (e *Extractor) Label() string {
	return e.label
}

// Extract returns the first postal-code entity recognized in the input text.
// Returns ErrNoPostalCode when nothing matches.
func (e *Extractor) Extract(text string) (string, error) {
	for _, re := range e.patterns {
		match := re.FindString(text)
		if match == "" {
			continue
		}
		if e.minLen > 0 && len(match) < e.minLen {
			continue
		}
		if e.maxLen > 0 && len(match) > e.maxLen {
			continue
		}

		e.log.Debug("Postal code entity recognized", "label", e.label, "entity", match)
		return match, nil
	}

	return "", ErrNoPostalCode
}
