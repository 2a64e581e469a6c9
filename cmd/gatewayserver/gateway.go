// gatewayserver is the discovery-proxy demo: it accepts client TCP
// connections and forwards each one, byte for byte, to whichever backend
// instance ServiceResolver currently resolves "gameserver" to - fronting
// the fixed async/future/blocking client demos with the same Consul +
// Redis discovery path a production deployment would use to find a live
// loginserver/gameserver instance.
package main

import (
	"context"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/phuhao00/pandaparty/config"
	consulx "github.com/phuhao00/pandaparty/infra/consul"
	"github.com/phuhao00/pandaparty/infra/network"
	redisx "github.com/phuhao00/pandaparty/infra/redis"
)

const serverName = "gatewayserver"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("%s starting (discovery proxy demo)...", serverName)

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
		log.Printf("consul unavailable, proxy will only serve literal addresses: %v", err)
	}
	resolver := network.NewServiceResolver(consulClient, cache)

	listenAddr := gameListenAddr(cfg)
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatalf("%s: listen %s: %v", serverName, listenAddr, err)
	}
	log.Printf("%s proxying %s -> gameserver", serverName, listenAddr)

	go acceptLoop(ln, resolver, backendTarget(cfg))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Printf("%s shutting down...", serverName)
	_ = ln.Close()
}

func acceptLoop(ln net.Listener, resolver *network.ServiceResolver, backendName string) {
	for {
		client, err := ln.Accept()
		if err != nil {
			return
		}
		go proxyConnection(client, resolver, backendName)
	}
}

func proxyConnection(client net.Conn, resolver *network.ServiceResolver, backendName string) {
	defer client.Close()

	resolveCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	target, err := resolver.Resolve(resolveCtx, backendName)
	cancel()
	if err != nil {
		log.Printf("gateway: resolve %s: %v", backendName, err)
		return
	}

	backend, err := net.DialTimeout("tcp", target, 3*time.Second)
	if err != nil {
		log.Printf("gateway: dial backend %s: %v", target, err)
		return
	}
	defer backend.Close()

	done := make(chan struct{}, 2)
	go func() { io.Copy(backend, client); done <- struct{}{} }()
	go func() { io.Copy(client, backend); done <- struct{}{} }()
	<-done
}

func gameListenAddr(cfg *config.ServerConfig) string {
	if cfg.Server.GatewayGameServerTCPPort != 0 {
		return ":" + strconv.Itoa(cfg.Server.GatewayGameServerTCPPort)
	}
	return ":9200"
}

func backendTarget(cfg *config.ServerConfig) string {
	if port, ok := cfg.Server.ServiceRpcPorts["gameserver"]; ok && port != 0 {
		return "gameserver"
	}
	return "127.0.0.1:9101"
}
