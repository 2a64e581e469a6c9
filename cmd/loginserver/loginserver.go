package main

import (
	"log"
	"net"
	"os"
	"strconv"
	"time"

	pandaparty "github.com/phuhao00/pandaparty"
	"github.com/phuhao00/pandaparty/config"
	consulx "github.com/phuhao00/pandaparty/infra/consul"
	"github.com/phuhao00/pandaparty/infra/mongo"
	"github.com/phuhao00/pandaparty/infra/network"
	nsqx "github.com/phuhao00/pandaparty/infra/nsq"
	redisx "github.com/phuhao00/pandaparty/infra/redis"
	"github.com/phuhao00/pandaparty/internal/rpcservices"
)

const serverName = "loginserver"

// rpcServerModule adapts a running network.Server to the root package's
// IServer contract, so this binary's lifecycle (start listening, accept
// connections, stop on shutdown) is driven the same uniform way every
// server in the module would be, regardless of which services it hosts.
type rpcServerModule struct {
	server *network.Server
	pool   *network.ExecutorPool
}

func (m *rpcServerModule) Start() {
	log.Printf("%s: serving on %s", serverName, m.server.Addr())
	if err := m.server.Serve(); err != nil {
		log.Fatalf("%s: serve: %v", serverName, err)
	}
}

func (m *rpcServerModule) Stop() {
	m.server.Close()
	m.pool.Stop()
}

func (m *rpcServerModule) GetServerName() string { return serverName }

var _ pandaparty.IServer = (*rpcServerModule)(nil)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("%s starting...", serverName)

	cfg := config.GetServerConfig()

	redisClient, err := redisx.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("%s cannot start without Redis for session storage: %v", serverName, err)
	}

	mongoClient, err := mongo.NewMongoClient(cfg.Mongo)
	if err != nil {
		log.Printf("mongo unavailable, call audit will be NSQ-only: %v", err)
	}

	registry := network.NewRegistry()
	registry.RegisterService(rpcservices.NewLoginService(redisClient.GetReal()))
	registry.RegisterService(rpcservices.NewGMService())
	registry.RegisterService(rpcservices.NewPayService())

	limiter := network.NewRedisRateLimiter(redisClient, rateLimit(cfg), time.Second)

	var sinks []network.AuditSink
	if producer, err := nsqx.NewProducer(cfg.NSQ); err == nil {
		sinks = append(sinks, network.NewNSQAuditSink(producer, auditTopic(cfg)))
	} else {
		log.Printf("nsq unavailable, audit will skip the pub/sub sink: %v", err)
	}
	if mongoClient != nil {
		sinks = append(sinks, network.NewMongoAuditSink(mongoClient))
	}

	pool := network.NewExecutorPool(poolSize(cfg))
	server := network.NewServer(registry, pool,
		network.WithRateLimiter(limiter),
		network.WithAuditSink(network.NewMultiAuditSink(sinks...)),
	)

	addr := rpcAddr(cfg)
	if err := server.Listen("tcp", addr); err != nil {
		log.Fatalf("%s: listen %s: %v", serverName, addr, err)
	}
	log.Printf("%s listening for RPC on %s (hosting LoginService, GMService, PayService)", serverName, server.Addr())

	if consulClient, err := consulx.NewConsulClient(cfg.Consul); err == nil {
		host, port := hostPort(cfg, server)
		name := cfg.RPC.ServiceName
		if name == "" {
			name = serverName
		}
		if err := consulClient.RegisterService(serverName, name, host, port); err != nil {
			log.Printf("consul registration failed: %v", err)
		}
	} else {
		log.Printf("consul unavailable, %s will not be discoverable: %v", serverName, err)
	}

	module := &rpcServerModule{server: server, pool: pool}
	module.Start()
}

func poolSize(cfg *config.ServerConfig) int {
	if cfg.RPC.ExecutorPoolSize > 0 {
		return cfg.RPC.ExecutorPoolSize
	}
	return 4
}

func rateLimit(cfg *config.ServerConfig) int64 {
	if cfg.RPC.RateLimitPerSec > 0 {
		return cfg.RPC.RateLimitPerSec
	}
	return 1000
}

func auditTopic(cfg *config.ServerConfig) string {
	if cfg.RPC.AuditTopic != "" {
		return cfg.RPC.AuditTopic
	}
	return "rpc-calls"
}

func rpcAddr(cfg *config.ServerConfig) string {
	if port, ok := cfg.Server.ServiceRpcPorts[serverName]; ok && port != 0 {
		return ":" + strconv.Itoa(port)
	}
	return ":9100"
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
