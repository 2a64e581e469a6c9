package network

import "google.golang.org/protobuf/encoding/protowire"

// FailureMethodID is a reserved wire method id no registered service method
// can ever collide with: HashMethodName only ever produces the id of some
// concrete "Service.Method" string, and ^uint64(0) is reserved here instead
// of being left to chance. The server tags a reply envelope with it to mean
// "this is a Controller failure (application error or throttle), not an
// ordinary response" - the wire-level counterpart of finishCall always
// sending something, per SPEC_FULL.md §4.J, instead of silently dropping the
// call or forcing the connection closed the way a protocol violation would.
const FailureMethodID uint64 = ^uint64(0)

// throttledReason is the exact string the Redis-backed rate limiter's
// rejection is reported under, matching SPEC_FULL.md §7's error table and
// scenario S7.
const throttledReason = "throttled"

// failureReply carries a Controller's ErrorText back to the client under
// FailureMethodID. It is marshaled with the same hand-rolled protobuf wire
// encoding as the rest of messages.go so it travels through the ordinary
// envelope codec without any special-casing in buffer.go/envelope.go.
type failureReply struct {
	Reason string
}

const failureReplyReasonField = protowire.Number(1)

func (m *failureReply) Marshal() ([]byte, error) {
	var buf []byte
	buf = protowire.AppendTag(buf, failureReplyReasonField, protowire.BytesType)
	buf = protowire.AppendString(buf, m.Reason)
	return buf, nil
}

func (m *failureReply) Unmarshal(data []byte) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, v []byte) {
		if num == failureReplyReasonField && typ == protowire.BytesType {
			m.Reason = string(v)
		}
	})
}
