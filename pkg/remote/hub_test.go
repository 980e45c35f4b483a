package remote

import (
	"testing"
	"time"

	"github.com/tmscore/control/pkg/protocol"
)

func TestHubPublishWithNoClientsDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	msg, _ := protocol.NewRobotConnectionStatusMessage(protocol.ConnectionStateConnected)
	h.Publish(msg)

	time.Sleep(10 * time.Millisecond)
	if h.ClientCount() != 0 {
		t.Errorf("expected zero clients, got %d", h.ClientCount())
	}
}

func TestHubDispatchesInboundToDispatcher(t *testing.T) {
	received := make(chan *protocol.Message, 1)
	h := NewHub(DispatcherFunc(func(msg *protocol.Message) {
		received <- msg
	}))
	go h.Run()

	msg, _ := protocol.NewCheckConnectionRobotMessage()
	h.inbound <- msg

	select {
	case got := <-received:
		if got.Type != protocol.TypeCheckConnectionRobot {
			t.Errorf("got type %v, want %v", got.Type, protocol.TypeCheckConnectionRobot)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}
