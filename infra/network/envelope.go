package network

import "encoding/binary"

// headerWidth is sizeof(W) from SPEC_FULL.md §3: the fixed-width unsigned
// integer used for both the total_length and method_id header fields.
const headerWidth = 8

// ParseStatus is the three-valued result of a decode attempt over a Buffer,
// matching §4.B's {Incomplete, Bad, Ok} outcomes.
type ParseStatus int

const (
	StatusIncomplete ParseStatus = iota
	StatusBad
	StatusOK
)

// TryParseHeader peeks the total_length header. It returns Incomplete
// without consuming anything unless the *entire* envelope (header + body)
// is already buffered - see Testable Properties 3 and 4 in SPEC_FULL.md:
// the read cursor must not advance on a prefix shorter than the full
// envelope, even once the 8-byte length field itself is available. Only on
// Ok does it consume the header bytes.
func TryParseHeader(buf *Buffer) (ParseStatus, uint64) {
	if buf.ReadableBytes() < headerWidth {
		return StatusIncomplete, 0
	}
	totalLength := binary.LittleEndian.Uint64(buf.ReadableSlice())
	if totalLength < headerWidth {
		return StatusBad, 0
	}
	if uint64(buf.ReadableBytes()) < headerWidth+totalLength {
		return StatusIncomplete, 0
	}
	buf.Retrieve(headerWidth)
	return StatusOK, totalLength
}

// ParseMethodID consumes the next headerWidth bytes as the method id. Must
// only be called immediately after TryParseHeader returned StatusOK.
func ParseMethodID(buf *Buffer) uint64 {
	return buf.ReadUint64()
}

// ParseMessage asks dst to decode the next payloadLen bytes. payloadLen is
// totalLength - headerWidth, i.e. the body with the method id stripped.
func ParseMessage(buf *Buffer, dst Message, payloadLen int) error {
	return dst.Unmarshal(buf.Read(payloadLen))
}

// ParseEnvelope composes TryParseHeader/ParseMethodID/ParseMessage for the
// common case where the destination message type is already known (the
// client side, which is waiting on a specific response type). Server-side
// dispatch cannot use this helper directly because it must look up the
// method id in the registry before it knows which prototype to allocate
// (see server.go).
func ParseEnvelope(buf *Buffer, dst Message) (ParseStatus, uint64) {
	status, totalLength := TryParseHeader(buf)
	if status != StatusOK {
		return status, 0
	}
	methodID := ParseMethodID(buf)
	payloadLen := int(totalLength) - headerWidth
	if err := ParseMessage(buf, dst, payloadLen); err != nil {
		return StatusBad, 0
	}
	return StatusOK, methodID
}

// Serialize encodes one envelope - total_length, method_id, then the
// marshaled payload, in that fixed order (§4.B Encode) - into a fresh
// output Buffer ready to hand to a Connection's Send flavor.
func Serialize(methodID uint64, msg Message) (*Buffer, error) {
	payload, err := msg.Marshal()
	if err != nil {
		return nil, err
	}
	out := NewBuffer()
	totalLength := uint64(headerWidth + len(payload))
	out.WriteUint64(totalLength)
	out.WriteUint64(methodID)
	out.Write(payload)
	return out, nil
}
