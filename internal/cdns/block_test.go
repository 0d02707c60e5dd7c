package cdns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRoundTripWithStatisticsAndMalformedAndAddressEvents(t *testing.T) {
	processed := uint32(12)
	opcode := uint8(4)
	b := Block{
		BlockPreamble: BlockPreamble{EarliestTime: &Timestamp{Seconds: 42, TicksInSecond: 1}},
		BlockStatistics: &BlockStatistics{
			ProcessedMessages: &processed,
			DiscardedOpcode:   &opcode,
		},
		BlockTables: &BlockTables{
			MalformedMessageData: []MalformedMessageData{{MMPayload: []byte{0xde, 0xad, 0xbe, 0xef}}},
		},
		AddressEventCounts: []AddressEventCount{
			{AEType: AddressEventTCPReset, AEAddressIndex: 0, AECount: 1},
		},
		MalformedMessages: []MalformedMessage{
			{MessageDataIndex: u64ptr(0)},
		},
	}

	buf, err := b.Marshal()
	require.NoError(t, err)

	off := 0
	out, err := ParseBlock(buf, &off, "")
	require.NoError(t, err)

	require.NotNil(t, out.BlockStatistics)
	assert.Equal(t, processed, *out.BlockStatistics.ProcessedMessages)
	assert.Equal(t, opcode, *out.BlockStatistics.DiscardedOpcode)

	require.Len(t, out.AddressEventCounts, 1)
	assert.Equal(t, AddressEventTCPReset, out.AddressEventCounts[0].AEType)

	require.Len(t, out.MalformedMessages, 1)
	require.NotNil(t, out.MalformedMessages[0].MessageDataIndex)
	assert.Equal(t, uint64(0), *out.MalformedMessages[0].MessageDataIndex)

	require.NotNil(t, out.BlockTables)
	require.Len(t, out.BlockTables.MalformedMessageData, 1)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, out.BlockTables.MalformedMessageData[0].MMPayload)
}

func TestBlockPreambleResolvedBlockParametersIndexDefaultsToZero(t *testing.T) {
	p := BlockPreamble{}
	assert.Equal(t, 0, p.ResolvedBlockParametersIndex())

	idx := uint32(3)
	p.BlockParametersIndex = &idx
	assert.Equal(t, 3, p.ResolvedBlockParametersIndex())
}

func u64ptr(v uint64) *uint64 { return &v }
