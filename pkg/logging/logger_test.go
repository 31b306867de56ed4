package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var event Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &event))
		events = append(events, event)
	}
	return events
}

func TestLoggerWritesRunLog(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "run-1")
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Info(CategoryEvaluation, "criterion.started", "starting", map[string]any{
		"criterion": "Documentation",
	}))

	events := readEvents(t, filepath.Join(dir, "runs", "run-1.jsonl"))
	require.Len(t, events, 1)
	assert.Equal(t, LevelInfo, events[0].Level)
	assert.Equal(t, CategoryEvaluation, events[0].Category)
	assert.Equal(t, "criterion.started", events[0].EventType)
	assert.Equal(t, "run-1", events[0].RunID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestErrorsDuplicatedToErrorLog(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "run-2")
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Error(CategoryModel, "request.failed", "boom", nil))
	require.NoError(t, logger.Info(CategoryModel, "request.ok", "fine", nil))

	errorEvents := readEvents(t, filepath.Join(dir, "errors.jsonl"))
	require.Len(t, errorEvents, 1)
	assert.Equal(t, "request.failed", errorEvents[0].EventType)
}

func TestCostEventsDuplicatedToCostLog(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "run-3")
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Info(CategoryCost, "usage.recorded", "", map[string]any{
		"input_tokens": 100,
	}))

	costEvents := readEvents(t, filepath.Join(dir, "costs.jsonl"))
	require.Len(t, costEvents, 1)
}

func TestMinLevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "run-4")
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Debug(CategoryTool, "tool.called", "", nil))
	events := readEvents(t, filepath.Join(dir, "runs", "run-4.jsonl"))
	assert.Empty(t, events)

	logger.SetMinLevel(LevelDebug)
	require.NoError(t, logger.Debug(CategoryTool, "tool.called", "", nil))
	events = readEvents(t, filepath.Join(dir, "runs", "run-4.jsonl"))
	assert.Len(t, events, 1)
}
