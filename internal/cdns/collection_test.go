package cdns

import (
	"errors"
	"testing"

	"github.com/jroosing/cdns/internal/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionParametersRoundTrip(t *testing.T) {
	promisc := true
	cp := CollectionParameters{
		Promisc:    &promisc,
		Interfaces: []string{"eth0"},
		VlanIDs:    []uint16{100, 200},
	}
	buf, err := cp.Marshal()
	require.NoError(t, err)

	off := 0
	out, err := ParseCollectionParameters(buf, &off, "")
	require.NoError(t, err)
	require.NotNil(t, out.Promisc)
	assert.True(t, *out.Promisc)
	assert.Equal(t, []string{"eth0"}, out.Interfaces)
	assert.Equal(t, []uint16{100, 200}, out.VlanIDs)
}

func TestCollectionParametersRejectsVlanIDOutOfRange(t *testing.T) {
	cp := CollectionParameters{VlanIDs: []uint16{4095}}
	buf, err := cp.Marshal()
	require.NoError(t, err)

	off := 0
	_, err = ParseCollectionParameters(buf, &off, "collection_parameters")
	require.Error(t, err)
	var de *cbor.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, cbor.KindRangeViolation, de.Kind)
	assert.Equal(t, "vlan_ids", de.Label)
	assert.Equal(t, "collection_parameters.vlan_ids", de.Path)
}

func TestStorageParametersRejectsOpcodeOutOfRange(t *testing.T) {
	sp := StorageParameters{TicksPerSecond: 1, MaxBlockItems: 1, Opcodes: []uint8{16}}
	buf, err := sp.Marshal()
	require.NoError(t, err)

	off := 0
	_, err = ParseStorageParameters(buf, &off, "storage_parameters")
	require.Error(t, err)
	var de *cbor.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, cbor.KindRangeViolation, de.Kind)
	assert.Equal(t, "opcodes", de.Label)
	assert.Equal(t, "storage_parameters.opcodes", de.Path)
}

func TestStorageParametersPrefixLengthValidation(t *testing.T) {
	bad := uint8(200)
	sp := StorageParameters{TicksPerSecond: 1, MaxBlockItems: 1, ClientAddressPrefixIPv4: &bad}
	buf, err := sp.Marshal()
	require.NoError(t, err)

	off := 0
	_, err = ParseStorageParameters(buf, &off, "storage_parameters")
	require.Error(t, err)
	var de *cbor.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, cbor.KindRangeViolation, de.Kind)
	assert.Equal(t, "client_address_prefix_ipv4", de.Label)
	assert.Equal(t, "storage_parameters.client_address_prefix_ipv4", de.Path)
}
