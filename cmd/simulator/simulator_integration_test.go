package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phuhao00/pandaparty/infra/network"
)

func TestSimulatorServerServesAllThreeFlavors(t *testing.T) {
	server, addr, stop := startSimulatorServer()
	defer stop()
	require.NotNil(t, server)

	pool := network.NewExecutorPool(2)
	defer pool.Stop()

	dialCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	channel, err := network.Dial(dialCtx, "tcp", addr, pool.Next())
	require.NoError(t, err)
	defer channel.Close()

	gmMethod := network.HashMethodName("GMService.Execute")
	payMethod := network.HashMethodName("PayService.Charge")

	t.Run("blocking", func(t *testing.T) {
		req := &network.DiscardRequest{Payload: []byte("integration-test")}
		resp := &network.DiscardResponse{}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, channel.CallBlocking(ctx, nil, gmMethod, req, resp))
		require.EqualValues(t, len(req.Payload), resp.BytesReceived)
	})

	t.Run("future", func(t *testing.T) {
		req := &network.PingRequest{Nonce: 42}
		resp := &network.PingResponse{}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		f := channel.CallFuture(ctx, nil, payMethod, req, resp)
		callErr, waitErr := f.WaitFor(ctx)
		require.NoError(t, waitErr)
		require.NoError(t, callErr)
		require.EqualValues(t, 42, resp.Nonce)
	})

	t.Run("async", func(t *testing.T) {
		req := &network.PingRequest{Nonce: 7}
		resp := &network.PingResponse{}
		done := make(chan error, 1)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		channel.CallAsync(ctx, nil, payMethod, req, resp, func(err error) { done <- err })

		select {
		case err := <-done:
			require.NoError(t, err)
			require.EqualValues(t, 7, resp.Nonce)
		case <-time.After(3 * time.Second):
			t.Fatal("async call did not complete in time")
		}
	})
}
