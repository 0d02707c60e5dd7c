package cdns

// QueryResponseHints is an 18-bit flag word: each bit declares that the
// producer omits the corresponding QueryResponse field from every record
// in every Block governed by this StorageParameters.
type QueryResponseHints uint32

const (
	HintTimeOffset QueryResponseHints = 1 << iota
	HintClientAddressIndex
	HintClientPort
	HintTransactionID
	HintQrSignatureIndex
	HintClientHoplimit
	HintResponseDelay
	HintQueryName
	HintQuerySize
	HintResponseSize
	HintResponseProcessingData
	HintQueryQuestionSections
	HintQueryAnswerSections
	HintQueryAuthoritySections
	HintQueryAdditionalSections
	HintResponseAnswerSections
	HintResponseAuthoritySections
	HintResponseAdditionalSections
)

func (h QueryResponseHints) Has(bit QueryResponseHints) bool { return h&bit != 0 }

// QueryResponseSignatureHints is a 17-bit flag word over
// QueryResponseSignature fields.
type QueryResponseSignatureHints uint32

const (
	HintServerAddressIndex QueryResponseSignatureHints = 1 << iota
	HintServerPort
	HintQrTransportFlags
	HintQrType
	HintQrSigFlags
	HintQueryOpcode
	HintQrDNSFlags
	HintQueryRcode
	HintQueryClasstypeIndex
	HintQueryQdcount
	HintQueryAncount
	HintQueryNscount
	HintQueryArcount
	HintQueryEdnsVersion
	HintQueryUDPSize
	HintQueryOptRdataIndex
	HintResponseRcode
)

func (h QueryResponseSignatureHints) Has(bit QueryResponseSignatureHints) bool { return h&bit != 0 }

// RRHints is a 2-bit flag word over RR fields.
type RRHints uint8

const (
	HintTTL RRHints = 1 << iota
	HintRdataIndex
)

func (h RRHints) Has(bit RRHints) bool { return h&bit != 0 }

// OtherDataHints is a 2-bit flag word over per-Block collections.
type OtherDataHints uint8

const (
	HintMalformedMessages OtherDataHints = 1 << iota
	HintAddressEventCounts
)

func (h OtherDataHints) Has(bit OtherDataHints) bool { return h&bit != 0 }

// StorageHints groups the four hint words a producer declares once per
// StorageParameters. A consumer must treat a hinted-omitted field as
// silently absent rather than an error.
type StorageHints struct {
	QueryResponseHints          QueryResponseHints
	QueryResponseSignatureHints QueryResponseSignatureHints
	RRHints                     RRHints
	OtherDataHints               OtherDataHints
}

// QueryResponseFlags are bit flags explicitly indicating attributes of
// the message pair represented by a QueryResponseSignature (not all
// attributes may be recorded or deducible).
type QueryResponseFlags uint16

const (
	QRFlagHasQuery QueryResponseFlags = 1 << iota
	QRFlagHasResponse
	QRFlagQueryHasOpt
	QRFlagResponseHasOpt
	QRFlagQueryHasNoQuestion
	QRFlagResponseHasNoQuestion
)

// DNSFlags are bit flags carrying the Query and Response DNS header
// flags; values are 0 if the Query or Response is not present.
type DNSFlags uint16

const (
	DNSFlagQueryCD DNSFlags = 1 << iota
	DNSFlagQueryAD
	DNSFlagQueryZ
	DNSFlagQueryRA
	DNSFlagQueryRD
	DNSFlagQueryTC
	DNSFlagQueryAA
	DNSFlagQueryDO
	DNSFlagResponseCD
	DNSFlagResponseAD
	DNSFlagResponseZ
	DNSFlagResponseRA
	DNSFlagResponseRD
	DNSFlagResponseTC
	DNSFlagResponseAA
)
