package network

import "sync/atomic"

// Controller carries per-call out-of-band state between a Client caller and
// the eventual CallMethod handler: failure status and text on the way back,
// cancellation requests on the way out. It is the Go stand-in for
// google::protobuf::RpcController, matching client_rpc_controller.h's
// surface (Reset/Failed/ErrorText/SetFailed/StartCancel/IsCanceled).
type Controller struct {
	failed    atomic.Bool
	errorText atomic.Value // string
	canceled  atomic.Bool
}

// NewController returns a ready-to-use Controller for a single call.
func NewController() *Controller {
	c := &Controller{}
	c.errorText.Store("")
	return c
}

// Reset clears failed/error/canceled state so the Controller can be reused
// for another call.
func (c *Controller) Reset() {
	c.failed.Store(false)
	c.errorText.Store("")
	c.canceled.Store(false)
}

// Failed reports whether SetFailed has been called for this call.
func (c *Controller) Failed() bool {
	return c.failed.Load()
}

// ErrorText returns the text passed to the most recent SetFailed call, or
// "" if the call has not failed.
func (c *Controller) ErrorText() string {
	return c.errorText.Load().(string)
}

// SetFailed marks the call as failed with the given message.
func (c *Controller) SetFailed(reason string) {
	c.errorText.Store(reason)
	c.failed.Store(true)
}

// StartCancel records a cancellation request, which IsCanceled then
// reports. Channel and Connection do not read this flag; an in-flight call
// is interrupted only through its ctx.
func (c *Controller) StartCancel() {
	c.canceled.Store(true)
}

// IsCanceled reports whether StartCancel has been called.
func (c *Controller) IsCanceled() bool {
	return c.canceled.Load()
}
