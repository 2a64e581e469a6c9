package rpcservices

import (
	"context"
	"fmt"
	"log"

	"github.com/phuhao00/pandaparty/infra/actor"
	"github.com/phuhao00/pandaparty/infra/network"
)

// GMService executes operator commands against the game world. Execute
// takes the raw command body (DiscardRequest.Payload) and acknowledges how
// many bytes it consumed (DiscardResponse.BytesReceived) - a real
// deployment would parse a structured command out of the payload, but the
// acknowledgement contract (and, crucially, the audit trail every call
// produces via Server's AuditSink) is the part this demo exercises.
//
// Commands must apply in the order they arrive even though CallMethod can be
// invoked concurrently from multiple connections' executors, so execution is
// funneled through a single actor mailbox rather than guarded with a mutex:
// the mailbox also gives a natural place to drop or queue commands if a GM
// operator floods the service, which a bare atomic counter would not.
type GMService struct {
	worker     actor.IActor
	descriptor *network.ServiceDescriptor
}

type gmCommandProcessor struct {
	executed uint64
}

func (p *gmCommandProcessor) ProcessMessage(_ actor.IActorContext, msg interface{}) (interface{}, error) {
	payload := msg.([]byte)
	p.executed++
	log.Printf("GMService.Execute: command #%d, %d bytes", p.executed, len(payload))
	return uint64(len(payload)), nil
}

// NewGMService builds an empty GMService.
func NewGMService() *GMService {
	s := &GMService{worker: actor.NewActor(0, "gm-commands", &gmCommandProcessor{})}
	s.descriptor = &network.ServiceDescriptor{
		Name: "GMService",
		Methods: []*network.MethodDescriptor{
			{
				FullName:    "GMService.Execute",
				NewRequest:  func() network.Message { return &network.DiscardRequest{} },
				NewResponse: func() network.Message { return &network.DiscardResponse{} },
			},
		},
	}
	return s
}

// Descriptor implements network.Service.
func (s *GMService) Descriptor() *network.ServiceDescriptor { return s.descriptor }

// CallMethod implements network.Service.
func (s *GMService) CallMethod(method *network.MethodDescriptor, controller *network.Controller, request, response network.Message, done func()) {
	defer done()

	req, ok := request.(*network.DiscardRequest)
	resp, okResp := response.(*network.DiscardResponse)
	if !ok || !okResp {
		controller.SetFailed("GMService: unexpected message types")
		return
	}

	result, err := s.worker.Ask(context.Background(), req.Payload)
	if err != nil {
		controller.SetFailed(fmt.Sprintf("GMService.Execute: %v", err))
		return
	}
	resp.BytesReceived = result.(uint64)
}
