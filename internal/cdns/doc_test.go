package cdns

import (
	"testing"

	"github.com/jroosing/cdns/internal/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeReportsPresentAndAbsentFields(t *testing.T) {
	p := FilePreamble{MajorFormatVersion: 1, MinorFormatVersion: 2}
	fields, _, err := Describe(&p)
	require.NoError(t, err)

	byLabel := make(map[string]DescribedField, len(fields))
	for _, f := range fields {
		byLabel[f.Label] = f
	}

	require.Contains(t, byLabel, "major_format_version")
	assert.True(t, byLabel["major_format_version"].Present)

	require.Contains(t, byLabel, "private_version")
	assert.False(t, byLabel["private_version"].Present)
}

func TestDescribeIncludesExtras(t *testing.T) {
	a := AddressEventCount{AEType: AddressEventTCPReset, AEAddressIndex: 1, AECount: 1}
	v, err := cbor.ValueFromGo("vendor")
	require.NoError(t, err)
	a.Extras.Set(-1, v)

	_, extras, err := Describe(&a)
	require.NoError(t, err)
	got, ok := extras.Get(-1)
	require.True(t, ok)
	inner, err := got.Interface()
	require.NoError(t, err)
	assert.Equal(t, "vendor", inner)
}
