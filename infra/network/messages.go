package network

import "google.golang.org/protobuf/encoding/protowire"

// This file hand-encodes the protobuf wire format for the demo request and
// response types without relying on protoc-generated code: each type
// implements Message directly against google.golang.org/protobuf/encoding/
// protowire's Append*/Consume* primitives. Field numbers below are the only
// thing that matters for wire compatibility; Go field names are free.

// EchoRequest carries one string payload to be echoed back unchanged.
type EchoRequest struct {
	Text string
}

const echoRequestTextField = protowire.Number(1)

func (m *EchoRequest) Marshal() ([]byte, error) {
	var buf []byte
	buf = protowire.AppendTag(buf, echoRequestTextField, protowire.BytesType)
	buf = protowire.AppendString(buf, m.Text)
	return buf, nil
}

func (m *EchoRequest) Unmarshal(data []byte) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, v []byte) {
		if num == echoRequestTextField && typ == protowire.BytesType {
			m.Text = string(v)
		}
	})
}

// EchoResponse carries the echoed text back plus the server's view of how
// many times Echo has now been called, a small piece of server-side state
// useful for demonstrating the async/future/blocking flavors against a
// stateful service.
type EchoResponse struct {
	Text  string
	Count uint64
}

const (
	echoResponseTextField  = protowire.Number(1)
	echoResponseCountField = protowire.Number(2)
)

func (m *EchoResponse) Marshal() ([]byte, error) {
	var buf []byte
	buf = protowire.AppendTag(buf, echoResponseTextField, protowire.BytesType)
	buf = protowire.AppendString(buf, m.Text)
	buf = protowire.AppendTag(buf, echoResponseCountField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, m.Count)
	return buf, nil
}

func (m *EchoResponse) Unmarshal(data []byte) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, v []byte) {
		switch {
		case num == echoResponseTextField && typ == protowire.BytesType:
			m.Text = string(v)
		case num == echoResponseCountField && typ == protowire.VarintType:
			n, _ := protowire.ConsumeVarint(v)
			m.Count = n
		}
	})
}

// DiscardRequest carries a payload the server acknowledges but drops,
// useful for throughput benchmarking where the response body doesn't need
// to mirror the request.
type DiscardRequest struct {
	Payload []byte
}

const discardRequestPayloadField = protowire.Number(1)

func (m *DiscardRequest) Marshal() ([]byte, error) {
	var buf []byte
	buf = protowire.AppendTag(buf, discardRequestPayloadField, protowire.BytesType)
	buf = protowire.AppendBytes(buf, m.Payload)
	return buf, nil
}

func (m *DiscardRequest) Unmarshal(data []byte) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, v []byte) {
		if num == discardRequestPayloadField && typ == protowire.BytesType {
			m.Payload = append([]byte(nil), v...)
		}
	})
}

// DiscardResponse acknowledges receipt with the number of bytes dropped.
type DiscardResponse struct {
	BytesReceived uint64
}

const discardResponseBytesField = protowire.Number(1)

func (m *DiscardResponse) Marshal() ([]byte, error) {
	var buf []byte
	buf = protowire.AppendTag(buf, discardResponseBytesField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, m.BytesReceived)
	return buf, nil
}

func (m *DiscardResponse) Unmarshal(data []byte) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, v []byte) {
		if num == discardResponseBytesField && typ == protowire.VarintType {
			n, _ := protowire.ConsumeVarint(v)
			m.BytesReceived = n
		}
	})
}

// PingRequest carries a client-generated nonce the server echoes back
// unmodified, used by the simulator to measure round-trip latency.
type PingRequest struct {
	Nonce uint64
}

const pingRequestNonceField = protowire.Number(1)

func (m *PingRequest) Marshal() ([]byte, error) {
	var buf []byte
	buf = protowire.AppendTag(buf, pingRequestNonceField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, m.Nonce)
	return buf, nil
}

func (m *PingRequest) Unmarshal(data []byte) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, v []byte) {
		if num == pingRequestNonceField && typ == protowire.VarintType {
			n, _ := protowire.ConsumeVarint(v)
			m.Nonce = n
		}
	})
}

// PingResponse echoes the nonce and adds the server's own monotonic tick.
type PingResponse struct {
	Nonce      uint64
	ServerTick uint64
}

const (
	pingResponseNonceField = protowire.Number(1)
	pingResponseTickField  = protowire.Number(2)
)

func (m *PingResponse) Marshal() ([]byte, error) {
	var buf []byte
	buf = protowire.AppendTag(buf, pingResponseNonceField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, m.Nonce)
	buf = protowire.AppendTag(buf, pingResponseTickField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, m.ServerTick)
	return buf, nil
}

func (m *PingResponse) Unmarshal(data []byte) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, v []byte) {
		switch {
		case num == pingResponseNonceField && typ == protowire.VarintType:
			n, _ := protowire.ConsumeVarint(v)
			m.Nonce = n
		case num == pingResponseTickField && typ == protowire.VarintType:
			n, _ := protowire.ConsumeVarint(v)
			m.ServerTick = n
		}
	})
}

// forEachField walks every (number, type, decodedValue) tag in data,
// skipping any field it doesn't recognize - the standard protobuf forward
// compatibility behavior, so an older binary can still parse a newer peer's
// messages as long as it ignores unknown fields rather than erroring. For
// VarintType fields, value holds the raw uvarint bytes (decode with
// protowire.ConsumeVarint); for BytesType fields, value holds the decoded
// payload with no length prefix.
func forEachField(data []byte, fn func(num protowire.Number, typ protowire.Type, value []byte)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch typ {
		case protowire.VarintType:
			_, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			fn(num, typ, data[:n])
			data = data[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			fn(num, typ, v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}
