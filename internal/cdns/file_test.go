package cdns

import (
	"errors"
	"testing"

	"github.com/jroosing/cdns/internal/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalFile() File {
	return File{
		FileTypeID: FileTypeID,
		FilePreamble: FilePreamble{
			MajorFormatVersion: 1,
			MinorFormatVersion: 0,
			BlockParameters: []BlockParameters{
				{
					StorageParameters: StorageParameters{
						TicksPerSecond: 1000,
						MaxBlockItems:  5000,
						Opcodes:        []uint8{0},
						RRTypes:        []DnsType{1},
					},
				},
			},
		},
	}
}

func TestFileRoundTripMinimal(t *testing.T) {
	f := minimalFile()
	buf, err := Encode(f)
	require.NoError(t, err)

	out, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, f.FileTypeID, out.FileTypeID)
	assert.Equal(t, f.FilePreamble.MajorFormatVersion, out.FilePreamble.MajorFormatVersion)
	assert.Equal(t, f.FilePreamble.BlockParameters[0].StorageParameters.TicksPerSecond,
		out.FilePreamble.BlockParameters[0].StorageParameters.TicksPerSecond)
	assert.Empty(t, out.FileBlocks)
}

func TestFileRoundTripWithBlock(t *testing.T) {
	f := minimalFile()
	hoplimit := uint8(64)
	f.FileBlocks = []Block{
		{
			BlockPreamble: BlockPreamble{
				EarliestTime: &Timestamp{Seconds: 1700000000, TicksInSecond: 0},
			},
			BlockTables: &BlockTables{
				IPAddress: []IpAddr{{127, 0, 0, 1}},
				ClassType: []ClassType{{Type: 1, Class: 1}},
				QRR:       []Question{{NameIndex: 0, ClasstypeIndex: 0}},
			},
			QueryResponses: []QueryResponse{
				{ClientHoplimit: &hoplimit},
			},
		},
	}

	buf, err := Encode(f)
	require.NoError(t, err)

	out, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, out.FileBlocks, 1)
	require.NotNil(t, out.FileBlocks[0].BlockTables)
	assert.Equal(t, IpAddr{127, 0, 0, 1}, out.FileBlocks[0].BlockTables.IPAddress[0])
	require.Len(t, out.FileBlocks[0].QueryResponses, 1)
	require.NotNil(t, out.FileBlocks[0].QueryResponses[0].ClientHoplimit)
	assert.Equal(t, hoplimit, *out.FileBlocks[0].QueryResponses[0].ClientHoplimit)
}

func TestFileRequiresCDNSTypeID(t *testing.T) {
	f := minimalFile()
	f.FileTypeID = "bogus"
	buf, err := Encode(f)
	require.NoError(t, err)

	_, err = Decode(buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestFilePreambleRequiresAtLeastOneBlockParameters(t *testing.T) {
	f := minimalFile()
	f.FilePreamble.BlockParameters = nil
	buf, err := Encode(f)
	require.NoError(t, err)

	_, err = Decode(buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestFilePreambleExtrasRoundTrip(t *testing.T) {
	f := minimalFile()
	v, err := cbor.ValueFromGo("vendor-extension")
	require.NoError(t, err)
	f.FilePreamble.Extras.Set(-1, v)

	buf, err := Encode(f)
	require.NoError(t, err)

	out, err := Decode(buf)
	require.NoError(t, err)
	got, ok := out.FilePreamble.Extras.Get(-1)
	require.True(t, ok)
	inner, err := got.Interface()
	require.NoError(t, err)
	assert.Equal(t, "vendor-extension", inner)
}

func TestFilePreambleDefiniteAndIndefiniteLengthDecodeTheSame(t *testing.T) {
	p := FilePreamble{
		MajorFormatVersion: 1,
		MinorFormatVersion: 2,
		BlockParameters: []BlockParameters{
			{StorageParameters: StorageParameters{TicksPerSecond: 1, MaxBlockItems: 1}},
		},
	}
	definite, err := p.Marshal()
	require.NoError(t, err)

	fsIndef := (&p).fieldSet("")
	fsIndef.EmitLength = false
	indefinite, err := cbor.EncodeIndexedMap(fsIndef)
	require.NoError(t, err)
	assert.NotEqual(t, definite, indefinite)

	offA, offB := 0, 0
	outA, err := ParseFilePreamble(definite, &offA, "")
	require.NoError(t, err)
	outB, err := ParseFilePreamble(indefinite, &offB, "")
	require.NoError(t, err)
	assert.Equal(t, outA.MajorFormatVersion, outB.MajorFormatVersion)
	assert.Equal(t, outA.MinorFormatVersion, outB.MinorFormatVersion)
}

func TestDecodeThreadsFullPathThroughNestedDecodeChain(t *testing.T) {
	f := minimalFile()
	badType := QueryResponseType(200)
	f.FileBlocks = []Block{
		{
			BlockTables: &BlockTables{
				QRSig: []QueryResponseSignature{{QrType: &badType}},
			},
		},
	}
	buf, err := Encode(f)
	require.NoError(t, err)

	_, err = Decode(buf)
	require.Error(t, err)
	var de *cbor.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, cbor.KindInvalidVariant, de.Kind)
	assert.Equal(t, "qr_type", de.Label)
	assert.Equal(t, ".file_blocks[0].block_tables.qr_sig[0].qr_type", de.Path)
}

func TestDecodeIndexedMapDuplicateFieldSurfacesAsCodecError(t *testing.T) {
	buf := cbor.AppendMapHeader(nil, 3)
	buf = cbor.AppendKey(buf, 1)
	enc, err := cbor.EncodeScalar(uint32(1))
	require.NoError(t, err)
	buf = append(buf, enc...)
	buf = cbor.AppendKey(buf, 1)
	buf = append(buf, enc...)
	buf = cbor.AppendKey(buf, 2)
	buf = append(buf, enc...)

	off := 0
	_, err = ParseFilePreamble(buf, &off, "file_preamble")
	require.Error(t, err)
	var de *cbor.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, cbor.KindDuplicateField, de.Kind)
	assert.Equal(t, "major_format_version", de.Label)
}
