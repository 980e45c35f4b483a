// Package remote implements the Remote Control sink: a websocket hub
// broadcasting outbound protocol messages to neuronavigation and
// dispatching inbound commands back to the controller, adapted from
// a channel-based broadcast hub.
package remote

import "github.com/tmscore/control/pkg/protocol"

// Sink is the one-way publish surface the controller holds; it never
// blocks the control loop waiting for a client.
type Sink interface {
	Publish(msg *protocol.Message)
	ClientCount() int
}

// Dispatcher handles one decoded inbound message, called from the hub's
// Run goroutine — never from the control loop goroutine.
type Dispatcher interface {
	Dispatch(msg *protocol.Message)
}

// DispatcherFunc adapts a plain function to Dispatcher.
type DispatcherFunc func(msg *protocol.Message)

func (f DispatcherFunc) Dispatch(msg *protocol.Message) { f(msg) }
