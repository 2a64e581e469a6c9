package network

// Message is the minimal contract the RPC core requires of a request or
// response payload. The concrete serialization library is, by design, an
// external collaborator (see SPEC_FULL.md §1) - the core only ever calls
// Marshal/Unmarshal. Concrete message types in this repo (messages.go)
// implement it directly against the protobuf wire format.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

// MethodDescriptor is the reflective metadata describing one declared
// method of a Service: its stable full name (e.g. "OneService.Echo") and
// prototype factories for fresh request/response instances.
type MethodDescriptor struct {
	FullName    string
	NewRequest  func() Message
	NewResponse func() Message
}

// ServiceDescriptor lists the methods a Service declares.
type ServiceDescriptor struct {
	Name    string
	Methods []*MethodDescriptor
}

// MethodByName looks up a declared method by its unqualified name.
func (d *ServiceDescriptor) MethodByName(name string) *MethodDescriptor {
	for _, m := range d.Methods {
		if m.FullName == d.Name+"."+name {
			return m
		}
	}
	return nil
}

// Service is implemented by user code registered with a Server (component G
// consults it for dispatch) or invoked through a Channel (component H).
// After producing a response, CallMethod must invoke done exactly once,
// whether or not the call succeeded.
type Service interface {
	Descriptor() *ServiceDescriptor
	CallMethod(method *MethodDescriptor, controller *Controller, request, response Message, done func())
}
