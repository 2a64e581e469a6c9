package rpcservices

import (
	"sync/atomic"

	"github.com/phuhao00/pandaparty/infra/network"
)

// PayService settles a payment nonce and returns the server's own
// monotonically increasing settlement tick (PingResponse.ServerTick),
// letting a caller line up request and response even when several charges
// are in flight concurrently over the async or future client flavors.
type PayService struct {
	tick       uint64
	descriptor *network.ServiceDescriptor
}

// NewPayService builds an empty PayService.
func NewPayService() *PayService {
	s := &PayService{}
	s.descriptor = &network.ServiceDescriptor{
		Name: "PayService",
		Methods: []*network.MethodDescriptor{
			{
				FullName:    "PayService.Charge",
				NewRequest:  func() network.Message { return &network.PingRequest{} },
				NewResponse: func() network.Message { return &network.PingResponse{} },
			},
		},
	}
	return s
}

// Descriptor implements network.Service.
func (s *PayService) Descriptor() *network.ServiceDescriptor { return s.descriptor }

// CallMethod implements network.Service.
func (s *PayService) CallMethod(method *network.MethodDescriptor, controller *network.Controller, request, response network.Message, done func()) {
	defer done()

	req, ok := request.(*network.PingRequest)
	resp, okResp := response.(*network.PingResponse)
	if !ok || !okResp {
		controller.SetFailed("PayService: unexpected message types")
		return
	}

	resp.Nonce = req.Nonce
	resp.ServerTick = atomic.AddUint64(&s.tick, 1)
}
