package ws

import (
	"testing"

	"github.com/onsi/gomega"
)

func TestHubRoomMembership(t *testing.T) {
	g := gomega.NewWithT(t)
	hub := NewHub()

	a := hub.Register(nil)
	b := hub.Register(nil)
	g.Expect(hub.ClientCount()).To(gomega.Equal(2))

	hub.Join(a, "device-pico-1")
	hub.Join(b, "device-pico-1")
	hub.Join(b, "device-pico-2")

	g.Expect(hub.RoomMembers("device-pico-1")).To(gomega.Equal(2))
	g.Expect(hub.RoomMembers("device-pico-2")).To(gomega.Equal(1))
	g.Expect(hub.RoomMembers("device-unknown")).To(gomega.BeZero())

	hub.Leave(a, "device-pico-1")
	g.Expect(hub.RoomMembers("device-pico-1")).To(gomega.Equal(1))

	// Leaving a room the client never joined is a no-op.
	hub.Leave(a, "device-pico-2")
	g.Expect(hub.RoomMembers("device-pico-2")).To(gomega.Equal(1))
}
