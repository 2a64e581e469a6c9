// Package rpcservices implements the game-facing Service types hosted over
// infra/network: LoginService, GMService and PayService. Each replaces a
// once-HTTP-plus-generated-protobuf handler with a plain network.Service
// implementation, so the same RPC runtime that demonstrates the
// async/future/blocking client flavors also carries real traffic.
package rpcservices

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/phuhao00/pandaparty/help"
	"github.com/phuhao00/pandaparty/infra/network"
)

const sessionKeyExpiration = 24 * time.Hour

// LoginService issues session tokens. Authenticate takes a
// username (carried in EchoRequest.Text for simplicity - this is an
// internal RPC service, not the external login API) and returns a session
// token (EchoResponse.Text) plus the number of sessions issued so far
// (EchoResponse.Count). CallMethod may run concurrently across connections
// dispatched to different executors, so issued is tracked atomically.
type LoginService struct {
	redis      *redis.Client
	issued     uint64
	descriptor *network.ServiceDescriptor
}

// NewLoginService builds a LoginService backed by redis for session storage.
func NewLoginService(redisClient *redis.Client) *LoginService {
	s := &LoginService{redis: redisClient}
	s.descriptor = &network.ServiceDescriptor{
		Name: "LoginService",
		Methods: []*network.MethodDescriptor{
			{
				FullName:    "LoginService.Authenticate",
				NewRequest:  func() network.Message { return &network.EchoRequest{} },
				NewResponse: func() network.Message { return &network.EchoResponse{} },
			},
		},
	}
	return s
}

// Descriptor implements network.Service.
func (s *LoginService) Descriptor() *network.ServiceDescriptor { return s.descriptor }

// CallMethod implements network.Service.
func (s *LoginService) CallMethod(method *network.MethodDescriptor, controller *network.Controller, request, response network.Message, done func()) {
	defer done()

	req, ok := request.(*network.EchoRequest)
	resp, okResp := response.(*network.EchoResponse)
	if !ok || !okResp {
		controller.SetFailed("LoginService: unexpected message types")
		return
	}
	if req.Text == "" {
		controller.SetFailed("LoginService.Authenticate: username must not be empty")
		return
	}

	token := help.GenerateSessionID() + "-" + req.Text
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.redis.Set(ctx, "session:"+token, req.Text, sessionKeyExpiration).Err(); err != nil {
			log.Printf("LoginService.Authenticate: store session: %v", err)
			controller.SetFailed("failed to persist session")
			return
		}
	}

	resp.Text = token
	resp.Count = atomic.AddUint64(&s.issued, 1)
}
