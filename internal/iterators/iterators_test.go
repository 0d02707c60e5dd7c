package iterators_test

import (
	"testing"

	"github.com/jroosing/cdns/internal/cdns"
	"github.com/jroosing/cdns/internal/iterators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFile() *cdns.File {
	idx := uint32(0)
	return &cdns.File{
		FileTypeID: cdns.FileTypeID,
		FilePreamble: cdns.FilePreamble{
			MajorFormatVersion: 1,
			BlockParameters: []cdns.BlockParameters{
				{StorageParameters: cdns.StorageParameters{TicksPerSecond: 1000, MaxBlockItems: 100}},
			},
		},
		FileBlocks: []cdns.Block{
			{
				BlockPreamble: cdns.BlockPreamble{
					EarliestTime:         &cdns.Timestamp{Seconds: 100, TicksInSecond: 0},
					BlockParametersIndex: &idx,
				},
				BlockTables: &cdns.BlockTables{
					QList: []cdns.QuestionList{{0}},
					QRR:   []cdns.Question{{NameIndex: 1, ClasstypeIndex: 1}},
					RRList: []cdns.RRList{{0}},
					RR:    []cdns.RR{{NameIndex: 2, ClasstypeIndex: 2}},
				},
				QueryResponses: []cdns.QueryResponse{
					{},
				},
			},
		},
	}
}

func TestBlocksResolvesBlockParameters(t *testing.T) {
	f := testFile()
	var seen int
	for block, params := range iterators.Blocks(f) {
		seen++
		assert.Equal(t, uint64(1000), params.StorageParameters.TicksPerSecond)
		assert.NotNil(t, block.BlockTables)
	}
	assert.Equal(t, 1, seen)
}

func TestBlocksPanicsOnOutOfRangeParametersIndex(t *testing.T) {
	f := testFile()
	bad := uint32(5)
	f.FileBlocks[0].BlockPreamble.BlockParametersIndex = &bad
	assert.Panics(t, func() {
		for range iterators.Blocks(f) {
		}
	})
}

func TestQueryResponsesRequiresBlockTables(t *testing.T) {
	f := testFile()
	f.FileBlocks[0].BlockTables = nil
	_, err := iterators.QueryResponses(&f.FileBlocks[0], &f.FilePreamble.BlockParameters[0])
	require.Error(t, err)
}

func TestResolvedTimeAddsOffset(t *testing.T) {
	f := testFile()
	offset := cdns.UTicks(42)
	f.FileBlocks[0].QueryResponses[0].TimeOffset = &offset

	seq, err := iterators.QueryResponses(&f.FileBlocks[0], &f.FilePreamble.BlockParameters[0])
	require.NoError(t, err)

	var entries []iterators.QueryResponseEntry
	for e := range seq {
		entries = append(entries, e)
	}
	require.Len(t, entries, 1)

	ts, ok := iterators.ResolvedTime(entries[0])
	require.True(t, ok)
	assert.Equal(t, int32(100), ts.Seconds)
	assert.Equal(t, uint32(42), ts.TicksInSecond)
}

func TestResolvedTimeFalseWithoutOffset(t *testing.T) {
	f := testFile()
	seq, err := iterators.QueryResponses(&f.FileBlocks[0], &f.FilePreamble.BlockParameters[0])
	require.NoError(t, err)

	var entries []iterators.QueryResponseEntry
	for e := range seq {
		entries = append(entries, e)
	}
	require.Len(t, entries, 1)

	_, ok := iterators.ResolvedTime(entries[0])
	assert.False(t, ok)
}

func TestQuestionsResolvesThroughQListIndirection(t *testing.T) {
	f := testFile()
	qIdx := uint64(0)
	f.FileBlocks[0].QueryResponses[0].QueryExtended = &cdns.QueryResponseExtended{QuestionIndex: &qIdx}

	seq, err := iterators.QueryResponses(&f.FileBlocks[0], &f.FilePreamble.BlockParameters[0])
	require.NoError(t, err)
	var entry iterators.QueryResponseEntry
	for e := range seq {
		entry = e
	}

	questions, err := iterators.Questions(entry)
	require.NoError(t, err)
	var got []cdns.Question
	for q := range questions {
		got = append(got, q)
	}
	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].NameIndex)
}

func TestQuestionsOutOfRangeIndexErrors(t *testing.T) {
	f := testFile()
	qIdx := uint64(9)
	f.FileBlocks[0].QueryResponses[0].QueryExtended = &cdns.QueryResponseExtended{QuestionIndex: &qIdx}

	seq, err := iterators.QueryResponses(&f.FileBlocks[0], &f.FilePreamble.BlockParameters[0])
	require.NoError(t, err)
	var entry iterators.QueryResponseEntry
	for e := range seq {
		entry = e
	}

	_, err = iterators.Questions(entry)
	assert.Error(t, err)
}

func TestRRsResolvesThroughRRListIndirection(t *testing.T) {
	f := testFile()
	idx := uint64(0)
	rrs, err := iterators.RRs(f.FileBlocks[0].BlockTables, &idx)
	require.NoError(t, err)
	var got []cdns.RR
	for rr := range rrs {
		got = append(got, rr)
	}
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].NameIndex)
}

func TestRRsNilIndexYieldsEmptySequence(t *testing.T) {
	f := testFile()
	rrs, err := iterators.RRs(f.FileBlocks[0].BlockTables, nil)
	require.NoError(t, err)
	var got []cdns.RR
	for rr := range rrs {
		got = append(got, rr)
	}
	assert.Empty(t, got)
}
