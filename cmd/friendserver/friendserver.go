// friendserver is the blocking-flavor RPC client demo: it calls
// LoginService.Authenticate via Channel.CallBlocking directly on its own
// goroutine and uses the result before moving on, the pattern
// sync_rpc_client.h demonstrates in the original example program.
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

const serverName = "friendserver"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("%s starting (blocking RPC client demo)...", serverName)

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

	pool := network.NewExecutorPool(1)
	dialCtx, cancelDial := context.WithTimeout(context.Background(), 5*time.Second)
	channel, err := network.Dial(dialCtx, "tcp", target, pool.Next())
	cancelDial()
	if err != nil {
		log.Fatalf("%s: dial %s: %v", serverName, target, err)
	}
	defer channel.Close()

	methodID := network.HashMethodName("LoginService.Authenticate")

	for _, player := range []string{"alice", "bob", "carol"} {
		req := &network.EchoRequest{Text: player}
		resp := &network.EchoResponse{}
		controller := network.NewController()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := channel.CallBlocking(ctx, controller, methodID, req, resp)
		cancel()
		if err != nil {
			log.Printf("blocking authenticate(%s) failed: %v (controller: %s)", player, err, controller.ErrorText())
			continue
		}
		log.Printf("blocking authenticate(%s) -> session %q (issued #%d)", player, resp.Text, resp.Count)
	}

	log.Printf("%s done", serverName)
}

func loginTarget(cfg *config.ServerConfig) string {
	if port, ok := cfg.Server.ServiceRpcPorts["loginserver"]; ok && port != 0 {
		return "loginserver"
	}
	return "127.0.0.1:9100"
}
