package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shiftswap/shiftswap/internal/utils"
)

var (
	groupClients   = make(map[uint]map[*websocket.Conn]bool)
	groupClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastSwitchActivity pushes a switch lifecycle event to every feed
// client of the group.
func BroadcastSwitchActivity(groupID uint, eventType string, switchID uint) {
	groupClientsMu.RLock()
	clients, exists := groupClients[groupID]
	if !exists || len(clients) == 0 {
		groupClientsMu.RUnlock()
		return
	}

	// Copy the client set so the lock is not held while writing.
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	groupClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]interface{}{
			"type":   "switch_activity",
			"event":  eventType,
			"switch": switchID,
			"group":  groupID,
		})

		if err != nil {
			log.Printf("Failed to broadcast switch activity: %v", err)
			groupClientsMu.Lock()
			if clients, exists := groupClients[groupID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(groupClients, groupID)
				}
			}
			groupClientsMu.Unlock()
			conn.Close()
		}
	}
}

// GroupFeed upgrades the request to a websocket delivering switch activity
// for one group. Member-gated in the router.
func GroupFeed(c *gin.Context) {
	groupID, err := utils.GetGroupID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range cfg.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	groupClientsMu.Lock()
	if groupClients[groupID] == nil {
		groupClients[groupID] = make(map[*websocket.Conn]bool)
	}
	groupClients[groupID][conn] = true
	groupClientsMu.Unlock()

	defer func() {
		groupClientsMu.Lock()

		if clients, exists := groupClients[groupID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(groupClients, groupID)
			}
		}

		groupClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for group %d", groupID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "WebSocket connection established",
		"group":   groupID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for group %d: %v", groupID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for group %d: %v", groupID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for group %d: %v", groupID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for group %d: %v", groupID, err)
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			log.Printf("Received message from client in group %d: %s", groupID, string(message))
		case websocket.PongMessage:
			log.Printf("Received pong from group %d", groupID)
		}
	}
}
