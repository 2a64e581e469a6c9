package network

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/phuhao00/pandaparty/help"
	mongox "github.com/phuhao00/pandaparty/infra/mongo"
	nsqx "github.com/phuhao00/pandaparty/infra/nsq"
)

// CallEvent is one completed call's audit record, handed to the AuditSink
// by Server.finishCall (the done callback each Service invokes) before the
// reply is sent.
type CallEvent struct {
	ID         string        `json:"id" bson:"_id"`
	Method     string        `json:"method" bson:"method"`
	Failed     bool          `json:"failed" bson:"failed"`
	Error      string        `json:"error,omitempty" bson:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns" bson:"duration_ns"`
	OccurredAt int64         `json:"occurred_at" bson:"occurred_at"`
}

// NSQAuditSink publishes every CallEvent to an NSQ topic, decoupling the
// dispatch goroutine from however slow the eventual consumer is. Publish
// failures are logged, never propagated - an audit sink must never be able
// to fail an RPC call.
type NSQAuditSink struct {
	producer *nsqx.Producer
	topic    string
}

// NewNSQAuditSink publishes events to topic using producer.
func NewNSQAuditSink(producer *nsqx.Producer, topic string) *NSQAuditSink {
	return &NSQAuditSink{producer: producer, topic: topic}
}

// RecordCall implements AuditSink.
func (s *NSQAuditSink) RecordCall(event CallEvent) {
	event.ID = uuid.NewString()
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("network: audit marshal %s: %v", event.Method, err)
		return
	}
	if err := s.producer.Publish(s.topic, body); err != nil {
		log.Printf("network: audit publish %s (occurred %s): %v", event.Method, help.TimestampToDateStr(event.OccurredAt), err)
	}
}

// MongoAuditSink durably logs every CallEvent into a Mongo collection, for
// deployments that want queryable call history rather than (or in addition
// to) a pub/sub stream. Writes run in their own short-lived goroutine so a
// slow Mongo write never stalls the dispatch executor that queued it.
type MongoAuditSink struct {
	client *mongox.MongoClient
}

// NewMongoAuditSink records events via client.
func NewMongoAuditSink(client *mongox.MongoClient) *MongoAuditSink {
	return &MongoAuditSink{client: client}
}

// RecordCall implements AuditSink.
func (s *MongoAuditSink) RecordCall(event CallEvent) {
	event.ID = uuid.NewString()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.client.InsertConfig(ctx, event); err != nil {
			log.Printf("network: audit insert %s (occurred %s): %v", event.Method, help.TimestampToDateStr(event.OccurredAt), err)
		}
	}()
}

// MultiAuditSink fans one CallEvent out to every sink in the list, so a
// server can publish to NSQ for real-time consumers and persist to Mongo
// for later querying in the same breath.
type MultiAuditSink struct {
	sinks []AuditSink
}

// NewMultiAuditSink fans out to every sink given.
func NewMultiAuditSink(sinks ...AuditSink) *MultiAuditSink {
	return &MultiAuditSink{sinks: sinks}
}

// RecordCall implements AuditSink.
func (m *MultiAuditSink) RecordCall(event CallEvent) {
	for _, s := range m.sinks {
		s.RecordCall(event)
	}
}
