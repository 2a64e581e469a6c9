// simulator is a load-generating client driver: it starts an in-process
// Server hosting GMService and PayService, then spins up a configurable
// number of concurrent players, each issuing calls through all three
// Channel flavors, to exercise the RPC runtime the way a real fleet of game
// clients would. It takes no external dependencies (no Consul/Redis/Mongo)
// so it can run standalone in CI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phuhao00/pandaparty/infra/network"
	"github.com/phuhao00/pandaparty/internal/rpcservices"
)

func main() {
	players := flag.Int("players", 20, "number of simulated concurrent players")
	callsPerPlayer := flag.Int("calls", 50, "RPC calls issued per player")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	server, addr, stopServer := startSimulatorServer()
	defer stopServer()
	log.Printf("simulator: server listening on %s", addr)
	_ = server

	pool := network.NewExecutorPool(4)
	defer pool.Stop()

	var wg sync.WaitGroup
	var totalCalls, totalErrors atomic.Uint64
	started := time.Now()

	for p := 0; p < *players; p++ {
		wg.Add(1)
		go func(playerIdx int) {
			defer wg.Done()
			runPlayer(playerIdx, addr, pool, *callsPerPlayer, &totalCalls, &totalErrors)
		}(p)
	}
	wg.Wait()

	elapsed := time.Since(started)
	log.Printf("simulator: %d players x %d calls = %d total calls, %d errors, in %s (%.0f calls/sec)",
		*players, *callsPerPlayer, totalCalls.Load(), totalErrors.Load(), elapsed,
		float64(totalCalls.Load())/elapsed.Seconds())
}

// startSimulatorServer wires up a Registry hosting GMService and PayService
// over a loopback listener, with no external infrastructure dependencies.
func startSimulatorServer() (*network.Server, string, func()) {
	registry := network.NewRegistry()
	registry.RegisterService(rpcservices.NewGMService())
	registry.RegisterService(rpcservices.NewPayService())

	pool := network.NewExecutorPool(4)
	server := network.NewServer(registry, pool)
	if err := server.Listen("tcp", "127.0.0.1:0"); err != nil {
		log.Fatalf("simulator: listen: %v", err)
	}
	go func() {
		if err := server.Serve(); err != nil {
			log.Printf("simulator: serve: %v", err)
		}
	}()
	return server, server.Addr().String(), func() {
		server.Close()
		pool.Stop()
	}
}

// runPlayer drives one simulated player through a mix of all three call
// flavors against addr.
func runPlayer(playerIdx int, addr string, pool *network.ExecutorPool, calls int, totalCalls, totalErrors *atomic.Uint64) {
	dialCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	channel, err := network.Dial(dialCtx, "tcp", addr, pool.For(uint64(playerIdx)))
	cancel()
	if err != nil {
		log.Printf("player %d: dial: %v", playerIdx, err)
		totalErrors.Add(1)
		return
	}
	defer channel.Close()

	gmMethod := network.HashMethodName("GMService.Execute")
	payMethod := network.HashMethodName("PayService.Charge")

	var pending sync.WaitGroup
	for c := 0; c < calls; c++ {
		totalCalls.Add(1)
		switch c % 3 {
		case 0: // blocking flavor
			req := &network.DiscardRequest{Payload: []byte("gm-cmd")}
			resp := &network.DiscardResponse{}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			err := channel.CallBlocking(ctx, nil, gmMethod, req, resp)
			cancel()
			if err != nil {
				totalErrors.Add(1)
			}
		case 1: // future flavor
			req := &network.PingRequest{Nonce: uint64(c)}
			resp := &network.PingResponse{}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			f := channel.CallFuture(ctx, nil, payMethod, req, resp)
			if err, waitErr := f.WaitFor(ctx); err != nil || waitErr != nil {
				totalErrors.Add(1)
			}
			cancel()
		default: // async flavor
			pending.Add(1)
			req := &network.PingRequest{Nonce: uint64(c)}
			resp := &network.PingResponse{}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			channel.CallAsync(ctx, nil, payMethod, req, resp, func(err error) {
				defer cancel()
				defer pending.Done()
				if err != nil {
					totalErrors.Add(1)
				}
			})
		}
	}
	pending.Wait()
}
