package cdns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockTablesQListAndRRListIndirectionRoundTrip(t *testing.T) {
	tbl := BlockTables{
		QRR:    []Question{{NameIndex: 0, ClasstypeIndex: 0}, {NameIndex: 1, ClasstypeIndex: 0}},
		QList:  []QuestionList{{0, 1}},
		RR:     []RR{{NameIndex: 2, ClasstypeIndex: 0}},
		RRList: []RRList{{0}, {}},
	}

	buf, err := tbl.Marshal()
	require.NoError(t, err)

	off := 0
	out, err := ParseBlockTables(buf, &off, "")
	require.NoError(t, err)

	require.Len(t, out.QList, 1)
	assert.Equal(t, QuestionList{0, 1}, out.QList[0])
	require.Len(t, out.QRR, 2)
	assert.Equal(t, uint64(1), out.QRR[out.QList[0][1]].NameIndex)

	require.Len(t, out.RRList, 2)
	assert.Equal(t, RRList{0}, out.RRList[0])
	assert.Empty(t, out.RRList[1])
}

func TestClassTypeOptPseudoRR(t *testing.T) {
	c := ClassType{Type: OptPseudoRRType, Class: 4096}
	buf, err := c.Marshal()
	require.NoError(t, err)

	off := 0
	out, err := ParseClassType(buf, &off, "")
	require.NoError(t, err)
	assert.Equal(t, OptPseudoRRType, out.Type)
	assert.Equal(t, DnsClass(4096), out.Class)
}
