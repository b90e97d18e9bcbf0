package core

import (
	"mocktrade/pkg/broadcast"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

// wsHandler registers the connection as a hub subscriber and pumps order
// events to it until the client disconnects or a write fails. Inbound frames
// are read only to detect disconnection; clients are not expected to send
// anything beyond keepalives.
func wsHandler(hub *broadcast.Hub) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		sub := hub.Subscribe()
		defer hub.Unsubscribe(sub)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for info := range sub.C {
				if err := conn.WriteJSON(info); err != nil {
					log.Debugf("fail to push to subscriber: %v", err)
					hub.Unsubscribe(sub)
					return
				}
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		// unsubscribing closes sub.C, which ends the writer
		hub.Unsubscribe(sub)
		<-done
	}
}
