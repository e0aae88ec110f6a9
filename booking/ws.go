package booking

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"vivenda/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; lock down in production
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	subMu       sync.Mutex
)

// HandleBookingWS streams booking lifecycle events for one place.
func HandleBookingWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	placeID := ps.ByName("placeid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	subMu.Lock()
	subscribers[placeID] = append(subscribers[placeID], conn)
	subMu.Unlock()

	for {
		// keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	subMu.Lock()
	conns := subscribers[placeID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[placeID] = newList
	subMu.Unlock()

	conn.Close()
}

func broadcast(placeID string, val []byte) {
	subMu.Lock()
	defer subMu.Unlock()

	conns := subscribers[placeID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers[placeID] = newList
}

// FanoutEvent pushes a booking event from the Redis bus to the websocket
// subscribers of its place. Wired as the mq worker callback in main.
func FanoutEvent(ev mq.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[booking] marshal ws event: %v", err)
		return
	}
	broadcast(ev.PlaceID, data)
}
