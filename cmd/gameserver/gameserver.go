// gameserver is the async-flavor RPC client demo: it dials loginserver and
// issues a stream of PayService.Charge calls through Channel.CallAsync,
// never blocking its own goroutine on a response - completions are
// delivered on the Channel's Executor, the same pattern async_rpc_client.h
// demonstrates in the original example program.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/phuhao00/pandaparty/config"
	consulx "github.com/phuhao00/pandaparty/infra/consul"
	"github.com/phuhao00/pandaparty/infra/network"
	redisx "github.com/phuhao00/pandaparty/infra/redis"
)

const serverName = "gameserver"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("%s starting (async RPC client demo)...", serverName)

	cfg := config.GetServerConfig()

	var cache *redisx.RedisClient
	if c, err := redisx.NewRedisClient(cfg.Redis); err == nil {
		cache = c
	} else {
		log.Printf("redis discovery cache unavailable: %v", err)
	}

	var consulClient *consulx.ConsulClient
	if c, err := consulx.NewConsulClient(cfg.Consul); err == nil {
		consulClient = c
	} else {
		log.Printf("consul unavailable, falling back to direct address: %v", err)
	}
	resolver := network.NewServiceResolver(consulClient, cache)

	dialCtx, cancelDial := context.WithTimeout(context.Background(), 5*time.Second)
	target, err := resolver.Resolve(dialCtx, loginTarget(cfg))
	cancelDial()
	if err != nil {
		log.Fatalf("%s: resolve loginserver: %v", serverName, err)
	}

	pool := network.NewExecutorPool(2)
	dialCtx, cancelDial = context.WithTimeout(context.Background(), 5*time.Second)
	channel, err := network.Dial(dialCtx, "tcp", target, pool.Next())
	cancelDial()
	if err != nil {
		log.Fatalf("%s: dial %s: %v", serverName, target, err)
	}
	defer channel.Close()

	methodID := network.HashMethodName("PayService.Charge")

	stop := make(chan struct{})
	var sent, completed atomic.Uint64
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		var nonce uint64
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				nonce++
				req := &network.PingRequest{Nonce: nonce}
				resp := &network.PingResponse{}
				sent.Add(1)
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				channel.CallAsync(ctx, nil, methodID, req, resp, func(err error) {
					cancel()
					completed.Add(1)
					if err != nil {
						log.Printf("async charge %d failed: %v", nonce, err)
						return
					}
					log.Printf("async charge %d settled at server tick %d", resp.Nonce, resp.ServerTick)
				})
			}
		}
	}()

	log.Printf("%s connected to loginserver at %s, issuing async PayService.Charge calls", serverName, target)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	close(stop)
	log.Printf("%s shutting down: sent=%d completed=%d", serverName, sent.Load(), completed.Load())
}

func loginTarget(cfg *config.ServerConfig) string {
	if port, ok := cfg.Server.ServiceRpcPorts["loginserver"]; ok && port != 0 {
		return "loginserver"
	}
	return "127.0.0.1:9100"
}
