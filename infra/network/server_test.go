package network

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type echoService struct {
	descriptor *ServiceDescriptor
}

func newEchoService() *echoService {
	s := &echoService{}
	s.descriptor = &ServiceDescriptor{
		Name: "EchoService",
		Methods: []*MethodDescriptor{
			{
				FullName:    "EchoService.Echo",
				NewRequest:  func() Message { return &EchoRequest{} },
				NewResponse: func() Message { return &EchoResponse{} },
			},
		},
	}
	return s
}

func (s *echoService) Descriptor() *ServiceDescriptor { return s.descriptor }

func (s *echoService) CallMethod(method *MethodDescriptor, controller *Controller, request, response Message, done func()) {
	defer done()
	req := request.(*EchoRequest)
	resp := response.(*EchoResponse)
	if req.Text == "fail" {
		controller.SetFailed("requested failure")
		return
	}
	resp.Text = req.Text
	resp.Count = 1
}

func startTestServer(t *testing.T) (addr string, stop func()) {
	t.Helper()
	registry := NewRegistry()
	registry.RegisterService(newEchoService())
	pool := NewExecutorPool(2)
	server := NewServer(registry, pool)
	require.NoError(t, server.Listen("tcp", "127.0.0.1:0"))
	go server.Serve()
	return server.Addr().String(), func() {
		server.Close()
		pool.Stop()
	}
}

func TestChannelCallBlockingRoundTrip(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	pool := NewExecutorPool(1)
	defer pool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	channel, err := Dial(ctx, "tcp", addr, pool.Next())
	require.NoError(t, err)
	defer channel.Close()

	methodID := HashMethodName("EchoService.Echo")
	req := &EchoRequest{Text: "hi"}
	resp := &EchoResponse{}
	controller := NewController()
	require.NoError(t, channel.CallBlocking(ctx, controller, methodID, req, resp))
	require.False(t, controller.Failed())
	require.Equal(t, "hi", resp.Text)
	require.EqualValues(t, 1, resp.Count)
}

func TestChannelCallFutureRoundTrip(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	pool := NewExecutorPool(1)
	defer pool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	channel, err := Dial(ctx, "tcp", addr, pool.Next())
	require.NoError(t, err)
	defer channel.Close()

	methodID := HashMethodName("EchoService.Echo")
	req := &EchoRequest{Text: "future"}
	resp := &EchoResponse{}
	f := channel.CallFuture(ctx, nil, methodID, req, resp)
	callErr, waitErr := f.WaitFor(ctx)
	require.NoError(t, waitErr)
	require.NoError(t, callErr)
	require.Equal(t, "future", resp.Text)
}

func TestChannelCallAsyncRoundTrip(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	pool := NewExecutorPool(1)
	defer pool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	channel, err := Dial(ctx, "tcp", addr, pool.Next())
	require.NoError(t, err)
	defer channel.Close()

	methodID := HashMethodName("EchoService.Echo")
	req := &EchoRequest{Text: "async"}
	resp := &EchoResponse{}
	done := make(chan error, 1)
	channel.CallAsync(ctx, nil, methodID, req, resp, func(err error) { done <- err })

	select {
	case err := <-done:
		require.NoError(t, err)
		require.Equal(t, "async", resp.Text)
	case <-time.After(3 * time.Second):
		t.Fatal("async call did not complete")
	}
}

func TestServerDispatchUnknownMethodClosesConnection(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	pool := NewExecutorPool(1)
	defer pool.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	channel, err := Dial(ctx, "tcp", addr, pool.Next())
	require.NoError(t, err)
	defer channel.Close()

	// An unregistered method id is a protocol violation, not an application
	// failure: the server closes the connection rather than replying or
	// silently dropping the call, matching the original's OnReceive
	// returning false.
	require.NoError(t, channel.conn.Send(ctx, 0xdeadbeef, &EchoRequest{Text: "nobody home"}))

	_, err = channel.conn.Receive(ctx)
	require.Error(t, err)
}

func TestChannelCallBlockingApplicationFailureSurfacesReason(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	pool := NewExecutorPool(1)
	defer pool.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	channel, err := Dial(ctx, "tcp", addr, pool.Next())
	require.NoError(t, err)
	defer channel.Close()

	methodID := HashMethodName("EchoService.Echo")
	controller := NewController()
	resp := &EchoResponse{}
	err = channel.CallBlocking(ctx, controller, methodID, &EchoRequest{Text: "fail"}, resp)
	require.Error(t, err)
	require.True(t, controller.Failed())
	require.Equal(t, "requested failure", controller.ErrorText())

	// An application failure reply is not a protocol violation either: the
	// connection survives and the next call succeeds normally.
	controller.Reset()
	resp2 := &EchoResponse{}
	require.NoError(t, channel.CallBlocking(ctx, controller, methodID, &EchoRequest{Text: "ok"}, resp2))
	require.False(t, controller.Failed())
	require.Equal(t, "ok", resp2.Text)
}

// denyEveryOtherLimiter rejects every second call to exercise the throttle
// path without pulling in the Redis-backed RateLimiter for a unit test.
type denyEveryOtherLimiter struct{ calls atomic.Int32 }

func (l *denyEveryOtherLimiter) Allow(string) bool {
	return l.calls.Add(1)%2 == 1
}

func TestServerThrottledCallRepliesWithoutClosing(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterService(newEchoService())
	pool := NewExecutorPool(2)
	server := NewServer(registry, pool, WithRateLimiter(&denyEveryOtherLimiter{}))
	require.NoError(t, server.Listen("tcp", "127.0.0.1:0"))
	go server.Serve()
	defer func() {
		server.Close()
		pool.Stop()
	}()

	clientPool := NewExecutorPool(1)
	defer clientPool.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	channel, err := Dial(ctx, "tcp", server.Addr().String(), clientPool.Next())
	require.NoError(t, err)
	defer channel.Close()

	methodID := HashMethodName("EchoService.Echo")
	controller := NewController()

	resp := &EchoResponse{}
	require.NoError(t, channel.CallBlocking(ctx, controller, methodID, &EchoRequest{Text: "first"}, resp))
	require.False(t, controller.Failed())

	controller.Reset()
	resp2 := &EchoResponse{}
	err = channel.CallBlocking(ctx, controller, methodID, &EchoRequest{Text: "second"}, resp2)
	require.ErrorIs(t, err, ErrThrottled)
	require.True(t, controller.Failed())
	require.Equal(t, "throttled", controller.ErrorText())

	// Throttling is not a connection close: a third call succeeds.
	controller.Reset()
	resp3 := &EchoResponse{}
	require.NoError(t, channel.CallBlocking(ctx, controller, methodID, &EchoRequest{Text: "third"}, resp3))
	require.Equal(t, "third", resp3.Text)
}
