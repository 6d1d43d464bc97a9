package feedback

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenav/codenav/pkg/types"
)

func testConfig() Config {
	return Config{DeltaGood: 0.1, DeltaNoisy: 0.2, WeightCap: 2.0}
}

func setupLearner(t *testing.T) (*Learner, string) {
	t.Helper()
	dir := t.TempDir()

	l, err := New(testConfig(),
		filepath.Join(dir, "weights.db"),
		filepath.Join(dir, "feedback.log"),
		filepath.Join(dir, "suggestions.log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	return l, dir
}

func record(rating types.Rating, components ...string) types.FeedbackRecord {
	return types.FeedbackRecord{
		QueryText:      "where is the cache",
		Intent:         types.IntentCodeLocation,
		ComponentsUsed: components,
		Rating:         rating,
	}
}

func TestDefaultWeight(t *testing.T) {
	l, _ := setupLearner(t)
	assert.Equal(t, 1.0, l.Weight(types.IntentCodeLocation, "code_location"))
}

func TestGoodFeedbackRaisesWeight(t *testing.T) {
	l, _ := setupLearner(t)
	ctx := context.Background()

	saved, err := l.Record(ctx, record(types.RatingGood, "code_location"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.InDelta(t, 1.1, l.Weight(types.IntentCodeLocation, "code_location"), 0.001)

	// Other intents are untouched
	assert.Equal(t, 1.0, l.Weight(types.IntentDocLookup, "code_location"))
}

func TestNoisyFeedbackLowersWeight(t *testing.T) {
	l, _ := setupLearner(t)
	ctx := context.Background()

	_, err := l.Record(ctx, record(types.RatingNoisy, "code_location", "reference_scan"))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, l.Weight(types.IntentCodeLocation, "code_location"), 0.001)
	assert.InDelta(t, 0.8, l.Weight(types.IntentCodeLocation, "reference_scan"), 0.001)
}

func TestWeightClampedAtZero(t *testing.T) {
	l, _ := setupLearner(t)
	ctx := context.Background()

	// Five noisy ratings drive the weight from 1.0 to 0, never below
	for i := 0; i < 5; i++ {
		_, err := l.Record(ctx, record(types.RatingNoisy, "code_location"))
		require.NoError(t, err)
	}
	assert.Equal(t, 0.0, l.Weight(types.IntentCodeLocation, "code_location"))

	_, err := l.Record(ctx, record(types.RatingNoisy, "code_location"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, l.Weight(types.IntentCodeLocation, "code_location"))
}

func TestWeightClampedAtCap(t *testing.T) {
	l, _ := setupLearner(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := l.Record(ctx, record(types.RatingGood, "code_location"))
		require.NoError(t, err)
	}
	assert.Equal(t, 2.0, l.Weight(types.IntentCodeLocation, "code_location"))
}

func TestMissingFeedbackLeavesWeightsAlone(t *testing.T) {
	l, dir := setupLearner(t)
	ctx := context.Background()

	_, err := l.Record(ctx, record(types.RatingMissing, "doc_lookup"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, l.Weight(types.IntentCodeLocation, "doc_lookup"))

	// The suggestion log got the query instead
	data, err := os.ReadFile(filepath.Join(dir, "suggestions.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "where is the cache")
}

func TestRecordRejectsInvalid(t *testing.T) {
	l, _ := setupLearner(t)
	ctx := context.Background()

	_, err := l.Record(ctx, types.FeedbackRecord{Rating: types.RatingGood})
	assert.Error(t, err)

	_, err = l.Record(ctx, types.FeedbackRecord{
		QueryText:      "q",
		Intent:         types.IntentGeneral,
		ComponentsUsed: []string{"x"},
		Rating:         "meh",
	})
	assert.Error(t, err)
}

func TestLogAppendOnly(t *testing.T) {
	l, dir := setupLearner(t)
	ctx := context.Background()

	_, err := l.Record(ctx, record(types.RatingGood, "a"))
	require.NoError(t, err)
	_, err = l.Record(ctx, record(types.RatingNoisy, "b"))
	require.NoError(t, err)

	records, err := readLog(filepath.Join(dir, "feedback.log"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, types.RatingGood, records[0].Rating)
	assert.Equal(t, types.RatingNoisy, records[1].Rating)
	assert.False(t, records[0].CreatedAt.After(records[1].CreatedAt))
}

func TestRebuildReplaysLog(t *testing.T) {
	l, dir := setupLearner(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.Record(ctx, record(types.RatingGood, "code_location"))
		require.NoError(t, err)
	}
	_, err := l.Record(ctx, record(types.RatingNoisy, "code_location"))
	require.NoError(t, err)
	want := l.Weight(types.IntentCodeLocation, "code_location")

	require.NoError(t, l.Rebuild(ctx))
	assert.InDelta(t, want, l.Weight(types.IntentCodeLocation, "code_location"), 0.001)
	require.NoError(t, l.Close())

	// A fresh learner over the same files sees the replayed weights
	l2, err := New(testConfig(),
		filepath.Join(dir, "weights.db"),
		filepath.Join(dir, "feedback.log"),
		filepath.Join(dir, "suggestions.log"))
	require.NoError(t, err)
	defer l2.Close()
	assert.InDelta(t, want, l2.Weight(types.IntentCodeLocation, "code_location"), 0.001)
}
