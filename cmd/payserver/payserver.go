// payserver is a standalone RPC server hosting only PayService, isolating
// payment-settlement traffic on its own process and port.
package main

import (
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/phuhao00/pandaparty/config"
	consulx "github.com/phuhao00/pandaparty/infra/consul"
	"github.com/phuhao00/pandaparty/infra/network"
	nsqx "github.com/phuhao00/pandaparty/infra/nsq"
	redisx "github.com/phuhao00/pandaparty/infra/redis"
	"github.com/phuhao00/pandaparty/internal/rpcservices"
)

const serverName = "payserver"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("%s starting...", serverName)

	cfg := config.GetServerConfig()

	registry := network.NewRegistry()
	registry.RegisterService(rpcservices.NewPayService())

	var limiter network.RateLimiter
	if redisClient, err := redisx.NewRedisClient(cfg.Redis); err == nil {
		limiter = network.NewRedisRateLimiter(redisClient, 2000, time.Second)
	} else {
		log.Printf("redis unavailable, payment charges will not be rate limited: %v", err)
	}

	var audit network.AuditSink
	if producer, err := nsqx.NewProducer(cfg.NSQ); err == nil {
		audit = network.NewNSQAuditSink(producer, "pay-calls")
	} else {
		log.Printf("nsq unavailable, payment calls will not be audited: %v", err)
	}

	pool := network.NewExecutorPool(2)
	server := network.NewServer(registry, pool, network.WithRateLimiter(limiter), network.WithAuditSink(audit))

	addr := listenAddr(cfg)
	if err := server.Listen("tcp", addr); err != nil {
		log.Fatalf("%s: listen %s: %v", serverName, addr, err)
	}
	log.Printf("%s listening for RPC on %s", serverName, server.Addr())

	if consulClient, err := consulx.NewConsulClient(cfg.Consul); err == nil {
		host, port := hostPort(cfg, server)
		if err := consulClient.RegisterService(serverName, serverName, host, port); err != nil {
			log.Printf("consul registration failed: %v", err)
		}
	} else {
		log.Printf("consul unavailable, %s will not be discoverable: %v", serverName, err)
	}

	if err := server.Serve(); err != nil {
		log.Fatalf("%s: serve: %v", serverName, err)
	}
}

func listenAddr(cfg *config.ServerConfig) string {
	if port, ok := cfg.Server.ServiceRpcPorts[serverName]; ok && port != 0 {
		return ":" + strconv.Itoa(port)
	}
	return ":9103"
}

func hostPort(cfg *config.ServerConfig, server *network.Server) (string, int) {
	host := cfg.Server.Host
	if host == "" {
		host = serverName
	}
	_, portStr, err := net.SplitHostPort(server.Addr().String())
	if err != nil {
		return host, 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}
