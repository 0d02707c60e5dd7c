package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/cdns/internal/cdns"
)

func TestTextElidesAbsentOptionalFields(t *testing.T) {
	idx := uint64(7)
	qr := cdns.QueryResponse{QueryNameIndex: &idx}

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, &qr))
	out := buf.String()
	assert.Contains(t, out, "query_name_index: 7")
	assert.NotContains(t, out, "client_port")
}

func TestTextClassTypeOptSpecialCase(t *testing.T) {
	opt := cdns.ClassType{Type: cdns.OptPseudoRRType, Class: 4096}
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, &opt))
	assert.Contains(t, buf.String(), "OPT (UDP Size: 4096)")
}

func TestTextTransportFlagsString(t *testing.T) {
	var buf bytes.Buffer
	flags := cdns.TransportFlags(0b0000_0011) // IPv6, TCP
	require.NoError(t, Text(&buf, &flags))
	assert.Contains(t, buf.String(), "IPv6")
	assert.Contains(t, buf.String(), "TCP")
}

func TestJSONRendersDeclaredFields(t *testing.T) {
	q := cdns.Question{NameIndex: 3, ClasstypeIndex: 4}
	out, err := JSON(&q)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, float64(3), decoded["name_index"])
	assert.Equal(t, float64(4), decoded["classtype_index"])
}

func TestDescribeReportsDeclaredFieldsAndExtras(t *testing.T) {
	q := cdns.Question{NameIndex: 1, ClasstypeIndex: 2}
	fields, extras, err := cdns.Describe(&q)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "name_index", fields[0].Label)
	assert.Equal(t, 0, extras.Len())
}
