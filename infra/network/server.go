package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync/atomic"
	"time"
)

// ErrThrottled is the sentinel a client CallMethod flavor returns when the
// server's RateLimiter rejected the call. It is not a transport failure:
// the connection stays open and Controller.ErrorText() reads "throttled"
// (SPEC_FULL.md §7, scenario S7).
var ErrThrottled = errors.New("network: call throttled")

// RateLimiter is consulted once per inbound call, before dispatch, so an
// over-budget method is rejected before the Service implementation ever
// runs. See ratelimit.go for the Redis-backed implementation.
type RateLimiter interface {
	Allow(methodFullName string) bool
}

// AuditSink records a call's outcome after the fact. Implementations (see
// audit.go) must not block the dispatch goroutine for any meaningful time;
// Server only requires RecordCall to return quickly, not synchronously
// complete any durable write.
type AuditSink interface {
	RecordCall(event CallEvent)
}

// Server accepts connections, frames and decodes requests off the wire, and
// dispatches them to whichever Service the Registry resolves the method id
// to - the Go merge of asio_pbrpc's rpc_server.h and tcp_server.h.
type Server struct {
	registry *Registry
	pool     *ExecutorPool
	limiter  RateLimiter
	audit    AuditSink

	listener net.Listener
	nextConn uint64
}

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithRateLimiter attaches a per-method RateLimiter consulted before every
// dispatch.
func WithRateLimiter(l RateLimiter) ServerOption {
	return func(s *Server) { s.limiter = l }
}

// WithAuditSink attaches an AuditSink notified after every call completes.
func WithAuditSink(a AuditSink) ServerOption {
	return func(s *Server) { s.audit = a }
}

// NewServer builds a Server dispatching through registry, with accepted
// connections spread across pool.
func NewServer(registry *Registry, pool *ExecutorPool, opts ...ServerOption) *Server {
	s := &Server{registry: registry, pool: pool}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen opens the listening socket. Serve must be called afterward to
// start accepting.
func (s *Server) Listen(network, addr string) error {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return fmt.Errorf("network: listen %s: %w", addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the listener's bound address, useful when addr was ":0".
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until the listener is closed, handing each one
// to a pool executor for its entire lifetime (so one slow/stuck connection
// never blocks accept). It returns nil when the listener is closed
// deliberately via Close.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("network: accept: %w", err)
		}
		id := atomic.AddUint64(&s.nextConn, 1)
		c := NewConnection(conn)
		s.pool.For(id).Execute(func() { s.serveConnection(c) })
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// serveConnection runs the request/response loop for one accepted
// connection until it errors out or the peer closes it. Because it runs
// entirely on the single executor goroutine this connection id hashed to,
// dispatch for this connection is strictly sequential - matching §5's
// per-connection serialization guarantee - even though many connections'
// dispatch loops run concurrently across the pool.
func (s *Server) serveConnection(conn *Connection) {
	defer conn.Close()
	ctx := context.Background()
	for {
		env, err := conn.Receive(ctx)
		if err != nil {
			return
		}
		if err := s.dispatch(ctx, conn, env); err != nil {
			log.Printf("network: closing connection to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

// dispatch decodes and runs one call. A non-nil return means env was a
// protocol violation (unregistered method id, unparsable payload) and
// serveConnection must close the connection, matching the original's
// OnReceive returning false. A throttled call is not a protocol violation:
// it is answered through the same reply path as an application failure and
// dispatch returns nil so the connection stays open (SPEC_FULL.md §4.J, §7).
func (s *Server) dispatch(ctx context.Context, conn *Connection, env RawEnvelope) error {
	svc, method, ok := s.registry.Lookup(env.MethodID)
	if !ok {
		return fmt.Errorf("no method registered for id %d from %s", env.MethodID, conn.RemoteAddr())
	}

	if s.limiter != nil && !s.limiter.Allow(method.FullName) {
		log.Printf("network: rate limit rejected %s from %s", method.FullName, conn.RemoteAddr())
		if err := sendFailureReply(ctx, conn, throttledReason); err != nil {
			log.Printf("network: send throttle reply for %s: %v", method.FullName, err)
		}
		return nil
	}

	req := method.NewRequest()
	if err := req.Unmarshal(env.Payload); err != nil {
		return fmt.Errorf("malformed request for %s from %s: %w", method.FullName, conn.RemoteAddr(), err)
	}
	resp := method.NewResponse()
	controller := NewController()
	started := time.Now()

	svc.CallMethod(method, controller, req, resp, func() {
		s.finishCall(ctx, conn, env.MethodID, method, controller, resp, started)
	})
	return nil
}

// finishCall always produces a reply, matching the original done closure in
// rpc_server.h: on success the marshaled resp goes out under methodID: on an
// application failure (controller.Failed()) a failureReply carrying
// ErrorText goes out under FailureMethodID instead of the call completing
// silently, so a blocking/future/async caller observes the failure rather
// than idling until its ctx deadline.
func (s *Server) finishCall(ctx context.Context, conn *Connection, methodID uint64, method *MethodDescriptor, controller *Controller, resp Message, started time.Time) {
	if s.audit != nil {
		s.audit.RecordCall(CallEvent{
			Method:     method.FullName,
			Failed:     controller.Failed(),
			Error:      controller.ErrorText(),
			Duration:   time.Since(started),
			OccurredAt: started.Unix(),
		})
	}
	if controller.Failed() {
		log.Printf("network: %s failed: %s", method.FullName, controller.ErrorText())
		if err := sendFailureReply(ctx, conn, controller.ErrorText()); err != nil {
			log.Printf("network: send failure reply for %s: %v", method.FullName, err)
		}
		return
	}
	if err := conn.Send(ctx, methodID, resp); err != nil {
		log.Printf("network: send response for %s: %v", method.FullName, err)
	}
}

// sendFailureReply is finishCall/dispatch's shared tail: it always goes out
// under FailureMethodID since the client's receive path only needs to
// recognize "this is a Controller failure", not correlate it back to the
// original method id (see client.go).
func sendFailureReply(ctx context.Context, conn *Connection, reason string) error {
	return conn.Send(ctx, FailureMethodID, &failureReply{Reason: reason})
}
