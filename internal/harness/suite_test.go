package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingSet = `
name: pass
description: "deal three"
game: set
steps:
  - intent: deal
assertions:
  - type: board_size
    value: 15
`

const failingSet = `
name: fail
description: "wrong board size"
game: set
steps:
  - intent: deal
assertions:
  - type: board_size
    value: 3
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yaml"), passingSet)
	writeFile(t, filepath.Join(dir, "a.yml"), passingSet)
	writeFile(t, filepath.Join(dir, "nested", "c.yaml"), passingSet)
	writeFile(t, filepath.Join(dir, "golden", "b.golden"), "{}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)

	files, err = FindScenarios(dir, "b*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, files)

	_, err = FindScenarios(dir, "[")
	assert.ErrorContains(t, err, "invalid filter pattern")
}

func TestFindScenarios_MissingDir(t *testing.T) {
	_, err := FindScenarios(filepath.Join(t.TempDir(), "missing"), "")

	var notFound *ScenarioNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestGoldenPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("testdata", "golden", "memorize_pairs.golden"),
		GoldenPath(filepath.Join("testdata", "memorize_pairs.yaml")))
}

func TestRunSuite_UpdateThenMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pass.yaml"), passingSet)
	ctx := context.Background()

	updated, err := RunSuite(ctx, dir, SuiteOptions{Update: true})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Updated)
	assert.Equal(t, 1, updated.Passed)
	assert.FileExists(t, filepath.Join(dir, "golden", "pass.golden"))

	checked, err := RunSuite(ctx, dir, SuiteOptions{})
	require.NoError(t, err)
	require.Len(t, checked.Scenarios, 1)
	assert.True(t, checked.Scenarios[0].Pass, "errors: %v", checked.Scenarios[0].Errors)
	assert.Equal(t, "match", checked.Scenarios[0].Golden)
}

func TestRunSuite_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pass.yaml"), passingSet)
	writeFile(t, filepath.Join(dir, "golden", "pass.golden"), `{"trace":[]}`)

	result, err := RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Scenarios[0].Errors[0], "does not match golden file")
}

func TestRunSuite_Mixed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pass.yaml"), passingSet)
	writeFile(t, filepath.Join(dir, "fail.yaml"), failingSet)
	writeFile(t, filepath.Join(dir, "broken.yaml"), "name: [")

	result, err := RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 2, result.Failed)

	byName := map[string]ScenarioOutcome{}
	for _, s := range result.Scenarios {
		byName[s.Name] = s
	}
	assert.True(t, byName["pass"].Pass)
	assert.Empty(t, byName["pass"].Golden)
	assert.False(t, byName["fail"].Pass)
	assert.Contains(t, byName["broken.yaml"].Errors[0], "failed to load scenario")
}

func TestRunSuite_CheckedInScenarios(t *testing.T) {
	result, err := RunSuite(context.Background(), "testdata", SuiteOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	for _, s := range result.Scenarios {
		assert.True(t, s.Pass, "%s: %v", s.Name, s.Errors)
		assert.Equal(t, "match", s.Golden, s.Name)
	}
}
