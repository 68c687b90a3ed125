package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScenarioNotFoundError is returned when a scenario directory doesn't exist.
type ScenarioNotFoundError struct {
	Dir string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenarios directory not found: %s", e.Dir)
}

// SuiteResult summarizes a run over a directory of scenarios.
type SuiteResult struct {
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Updated   int               `json:"updated,omitempty"`
	Scenarios []ScenarioOutcome `json:"scenarios"`
}

// ScenarioOutcome is the result of one scenario file.
type ScenarioOutcome struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "" when absent
	Errors []string `json:"errors,omitempty"`
}

// SuiteOptions controls RunSuite.
type SuiteOptions struct {
	// Filter is a glob matched against scenario file names without extension.
	Filter string

	// Update rewrites golden files instead of comparing against them.
	Update bool
}

// FindScenarios returns every .yaml and .yml file under dir in lexical order.
func FindScenarios(dir, filter string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, &ScenarioNotFoundError{Dir: dir}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	return files, err
}

// GoldenPath returns the golden file for a scenario file: a sibling golden/
// directory holding <name>.golden.
func GoldenPath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// RunSuite runs every scenario under dir.
//
// For each scenario file:
// 1. Load and validate the YAML
// 2. Run it via Run
// 3. Compare the trace with its golden file, or rewrite it with Update
// 4. Collect and report results
func RunSuite(ctx context.Context, dir string, opts SuiteOptions) (*SuiteResult, error) {
	files, err := FindScenarios(dir, opts.Filter)
	if err != nil {
		return nil, err
	}

	result := &SuiteResult{Scenarios: make([]ScenarioOutcome, 0, len(files))}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome := RunFile(ctx, path, opts.Update)
		result.Total++
		if outcome.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if outcome.Golden == "updated" {
			result.Updated++
		}
		result.Scenarios = append(result.Scenarios, outcome)
	}

	return result, nil
}

// RunFile loads and runs one scenario file and checks its golden trace.
// A scenario without a golden file is judged by its assertions alone.
func RunFile(ctx context.Context, path string, update bool) ScenarioOutcome {
	outcome := ScenarioOutcome{Name: filepath.Base(path), Path: path}

	scenario, err := LoadScenario(path)
	if err != nil {
		outcome.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return outcome
	}
	outcome.Name = scenario.Name

	result, err := Run(ctx, scenario)
	if err != nil {
		outcome.Errors = []string{fmt.Sprintf("scenario execution failed: %v", err)}
		return outcome
	}
	outcome.Pass = result.Pass
	outcome.Errors = result.Errors

	trace, err := MarshalTrace(scenario.Name, result)
	if err != nil {
		outcome.Pass = false
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("failed to marshal trace: %v", err))
		return outcome
	}

	goldenPath := GoldenPath(path)
	if update {
		if err := writeGolden(goldenPath, trace); err != nil {
			outcome.Pass = false
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			return outcome
		}
		outcome.Golden = "updated"
		return outcome
	}

	want, err := os.ReadFile(goldenPath)
	if errors.Is(err, fs.ErrNotExist) {
		return outcome
	}
	if err != nil {
		outcome.Pass = false
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("failed to read golden file: %v", err))
		return outcome
	}
	if !bytes.Equal(bytes.TrimSpace(want), trace) {
		outcome.Pass = false
		outcome.Errors = append(outcome.Errors, "trace does not match golden file (run with --update to regenerate)")
		return outcome
	}
	outcome.Golden = "match"
	return outcome
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
