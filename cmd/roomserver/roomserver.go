// roomserver is the future-flavor RPC client demo: it submits
// GMService.Execute calls via Channel.CallFuture and defers awaiting each
// one until it actually needs the result, the pattern future_rpc_client.h
// demonstrates in the original example program.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/phuhao00/pandaparty/config"
	consulx "github.com/phuhao00/pandaparty/infra/consul"
	"github.com/phuhao00/pandaparty/infra/network"
	redisx "github.com/phuhao00/pandaparty/infra/redis"
)

const serverName = "roomserver"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("%s starting (future RPC client demo)...", serverName)

	cfg := config.GetServerConfig()

	var cache *redisx.RedisClient
	if c, err := redisx.NewRedisClient(cfg.Redis); err == nil {
		cache = c
	}
	var consulClient *consulx.ConsulClient
	if c, err := consulx.NewConsulClient(cfg.Consul); err == nil {
		consulClient = c
	}
	resolver := network.NewServiceResolver(consulClient, cache)

	resolveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	target, err := resolver.Resolve(resolveCtx, loginTarget(cfg))
	cancel()
	if err != nil {
		log.Fatalf("%s: resolve loginserver: %v", serverName, err)
	}

	pool := network.NewExecutorPool(2)
	dialCtx, cancelDial := context.WithTimeout(context.Background(), 5*time.Second)
	channel, err := network.Dial(dialCtx, "tcp", target, pool.Next())
	cancelDial()
	if err != nil {
		log.Fatalf("%s: dial %s: %v", serverName, target, err)
	}
	defer channel.Close()

	methodID := network.HashMethodName("GMService.Execute")

	// Submit a batch of commands up front, then collect results as they
	// finish. Unlike the blocking flavor, the submitting goroutine never
	// waits between calls - only futures[i].WaitFor blocks, and only when
	// this goroutine is ready for result i specifically.
	const batchSize = 5
	futures := make([]*network.Future[error], batchSize)
	responses := make([]*network.DiscardResponse, batchSize)
	for i := 0; i < batchSize; i++ {
		req := &network.DiscardRequest{Payload: []byte("room-command-" + string(rune('A'+i)))}
		responses[i] = &network.DiscardResponse{}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		futures[i] = channel.CallFuture(ctx, nil, methodID, req, responses[i])
	}

	log.Printf("%s submitted %d GMService.Execute calls via the future flavor, awaiting results", serverName, batchSize)
	for i, f := range futures {
		waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		callErr, waitErr := f.WaitFor(waitCtx)
		cancel()
		if waitErr != nil {
			log.Printf("future %d: wait: %v", i, waitErr)
			continue
		}
		if callErr != nil {
			log.Printf("future %d: call failed: %v", i, callErr)
			continue
		}
		log.Printf("future %d: acknowledged %d bytes", i, responses[i].BytesReceived)
	}

	log.Printf("%s done", serverName)
}

func loginTarget(cfg *config.ServerConfig) string {
	if port, ok := cfg.Server.ServiceRpcPorts["loginserver"]; ok && port != 0 {
		return "loginserver"
	}
	return "127.0.0.1:9100"
}
