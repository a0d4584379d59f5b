package ws

import (
	"log"
	"net/http"
)

// DefaultRoom is where generation events are broadcast; clients may
// pick another room via ?roomID= to isolate their own feeds.
const DefaultRoom = "feed"

// FeedHandler upgrades the connection and keeps it subscribed until
// the client goes away. The feed is broadcast-only: incoming messages
// are drained and ignored.
func FeedHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "ws upgrade failed", http.StatusBadRequest)
			return
		}

		roomID := r.URL.Query().Get("roomID")
		if roomID == "" {
			roomID = DefaultRoom
		}

		hub.Register(roomID, conn)
		defer hub.Unregister(roomID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("[ws] disconnect room=%s", roomID)
				return
			}
		}
	}
}
