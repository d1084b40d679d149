package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockindex/pkg/common"
	"blockindex/pkg/scan"
)

func newClustering(t *testing.T, records []common.Record, blockSize int) *ClusteringIndex {
	t.Helper()
	ci, err := NewClusteringIndex(records, blockSize)
	require.NoError(t, err)
	ci.Build()
	return ci
}

func TestClusteringIndexAlignedMajors(t *testing.T) {
	records := []common.Record{
		{ID: 9, Major: "C"}, {ID: 1, Major: "A"}, {ID: 4, Major: "B"},
		{ID: 2, Major: "A"}, {ID: 5, Major: "B"}, {ID: 8, Major: "C"},
		{ID: 3, Major: "A"}, {ID: 6, Major: "B"},
	}
	ci := newClustering(t, records, 3)

	assert.Equal(t, []ClusterEntry{{"A", 0}, {"B", 1}, {"C", 2}}, ci.Entries())

	for _, major := range []string{"A", "B", "C"} {
		want, _ := scan.LinearField(records, common.FieldMajor, major, 3)
		got, blocks := ci.ExactMatch(major)
		assert.ElementsMatch(t, want, got, "major=%s", major)
		assert.Equal(t, 1, blocks)
	}

	// stable sort keeps input order within a major
	got, _ := ci.ExactMatch("A")
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func TestClusteringIndexSingleBlockGap(t *testing.T) {
	// sorted by major: [1A 3A] [4A 2B] [5B]
	ci := newClustering(t, sampleRecords(), 2)

	assert.Equal(t, []ClusterEntry{{"A", 0}, {"B", 2}}, ci.Entries())

	got, blocks := ci.ExactMatch("A")
	assert.Equal(t, []int64{1, 3}, ids(got))
	assert.Equal(t, 1, blocks)

	got, blocks = ci.ExactMatch("B")
	assert.Equal(t, []int64{5}, ids(got))
	assert.Equal(t, 1, blocks)

	got, blocks = ci.ExactMatchChained("A")
	assert.Equal(t, []int64{1, 3, 4}, ids(got))
	assert.Equal(t, 3, blocks)

	got, blocks = ci.ExactMatchChained("B")
	assert.Equal(t, []int64{2, 5}, ids(got))
	assert.Equal(t, 3, blocks)
	assert.Equal(t, []int{1, 2}, ci.Chain("B"))
}

func TestClusteringIndexMajorNeverHeadingABlock(t *testing.T) {
	records := []common.Record{
		{ID: 1, Major: "A"}, {ID: 2, Major: "A"}, {ID: 3, Major: "B"},
	}
	ci := newClustering(t, records, 3)

	got, blocks := ci.ExactMatch("B")
	assert.Empty(t, got)
	assert.Equal(t, 0, blocks)

	got, blocks = ci.ExactMatchChained("B")
	assert.Equal(t, []int64{3}, ids(got))
	assert.Equal(t, 2, blocks)
}

func TestClusteringIndexChainedMatchesLinearScan(t *testing.T) {
	const blockSize = 9
	records := randomRecords(5, 400)
	ci := newClustering(t, records, blockSize)

	majors := ci.Majors()
	require.NotEmpty(t, majors)
	for _, major := range majors {
		want, linearBlocks := scan.LinearField(records, common.FieldMajor, major, blockSize)
		got, blocks := ci.ExactMatchChained(major)
		assert.ElementsMatch(t, want, got, "major=%s", major)
		assert.LessOrEqual(t, blocks, linearBlocks+1)
	}
}

func TestClusteringIndexUnknownAndEmpty(t *testing.T) {
	ci := newClustering(t, sampleRecords(), 2)
	got, blocks := ci.ExactMatch("Z")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, blocks)

	empty := newClustering(t, nil, 100)
	assert.Empty(t, empty.Entries())
	assert.Equal(t, 0, empty.EntryCount())
	got, blocks = empty.ExactMatchChained("A")
	assert.Empty(t, got)
	assert.Equal(t, 0, blocks)
}

func TestClusteringIndexRebuildIsDeterministic(t *testing.T) {
	records := randomRecords(8, 120)
	ci := newClustering(t, records, 10)
	first := ci.Entries()
	ci.Build()
	assert.Equal(t, first, ci.Entries())
	assert.Equal(t, "Clustering", ci.Type())
}

func TestClusteringIndexInvalidBlockSize(t *testing.T) {
	_, err := NewClusteringIndex(sampleRecords(), -1)
	assert.ErrorIs(t, err, ErrInvalidBlockSize)
}
