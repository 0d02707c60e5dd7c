package cdns

import "github.com/jroosing/cdns/internal/cbor"

// MalformedMessageData holds the payload and context of a malformed DNS
// message stored in a Block.
type MalformedMessageData struct {
	ServerAddressIndex *uint64
	ServerPort          *uint16
	MMTransportFlags    *TransportFlags
	MMPayload           []byte
	Extras              cbor.Extras
}

func (m *MalformedMessageData) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &m.Extras,
		Fields: []cbor.Field{
			optU64Field(0, "server_address_index", &m.ServerAddressIndex),
			optU16Field(1, "server_port", &m.ServerPort),
			{Index: 2, Label: "mm_transport_flags", Present: func() bool { return m.MMTransportFlags != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(*m.MMTransportFlags) },
				Decode: func(raw []byte) error {
					var v TransportFlags
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					m.MMTransportFlags = &v
					return nil
				}},
			{Index: 3, Label: "mm_payload", Present: func() bool { return m.MMPayload != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(m.MMPayload) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &m.MMPayload) }},
		},
	}
}

func (m MalformedMessageData) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&m).fieldSet(""))
}

func ParseMalformedMessageData(data []byte, off *int, path string) (MalformedMessageData, error) {
	var m MalformedMessageData
	if err := cbor.DecodeIndexedMap(data, off, m.fieldSet(path), path); err != nil {
		return MalformedMessageData{}, err
	}
	return m, nil
}

// MalformedMessage indexes into BlockTables.MalformedMessageData for the
// payload of one malformed message observed in a Block.
type MalformedMessage struct {
	TimeOffset        *UTicks
	ClientAddressIndex *uint64
	ClientPort         *uint16
	MessageDataIndex   *uint64
	Extras             cbor.Extras
}

func (m *MalformedMessage) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &m.Extras,
		Fields: []cbor.Field{
			{Index: 0, Label: "time_offset", Present: func() bool { return m.TimeOffset != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(*m.TimeOffset) },
				Decode: func(raw []byte) error {
					var v UTicks
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					m.TimeOffset = &v
					return nil
				}},
			optU64Field(1, "client_address_index", &m.ClientAddressIndex),
			optU16Field(2, "client_port", &m.ClientPort),
			optU64Field(3, "message_data_index", &m.MessageDataIndex),
		},
	}
}

func (m MalformedMessage) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&m).fieldSet(""))
}

func ParseMalformedMessage(data []byte, off *int, path string) (MalformedMessage, error) {
	var m MalformedMessage
	if err := cbor.DecodeIndexedMap(data, off, m.fieldSet(path), path); err != nil {
		return MalformedMessage{}, err
	}
	return m, nil
}
