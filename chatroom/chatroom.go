package chatroom

import (
	"log"
	"net/http"
	"sync"

	"flockr/apierr"
	"flockr/auth"
	"flockr/db"
	"flockr/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendQueueSize = 64

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	ID        string
	UserID    int
	ChannelID int
	Conn      *websocket.Conn
	SendQueue chan WSMessage
	Done      chan struct{}
	closeOnce sync.Once
}

func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		select {
		case msg := <-c.SendQueue:
			if err := c.Conn.WriteJSON(msg); err != nil {
				log.Println("WritePump error:", err)
				return
			}
		case <-c.Done:
			return
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.Done) })
}

// Hub fans committed store events out to the sockets watching each
// channel. Notify is called with the store lock held, so the hub never
// calls back into the store while holding its own lock.
type Hub struct {
	store db.Repository
	auth  *auth.Service

	mu    sync.Mutex
	rooms map[int]map[*Client]struct{}
}

var _ types.Notifier = (*Hub)(nil)

func NewHub(store db.Repository, authService *auth.Service) *Hub {
	return &Hub{store: store, auth: authService, rooms: make(map[int]map[*Client]struct{})}
}

func (h *Hub) Notify(ev types.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch ev.Type {
	case types.EventReset:
		for _, room := range h.rooms {
			for client := range room {
				h.drop(client)
			}
		}
		return
	case types.EventSessionEnded:
		for _, room := range h.rooms {
			for client := range room {
				if client.UserID == ev.UserID {
					h.drop(client)
				}
			}
		}
		return
	}

	room := h.rooms[ev.ChannelID]
	msg := WSMessage{Type: ev.Type, Data: ev}
	for client := range room {
		h.safeSend(client, msg)
	}
	if ev.Type == types.EventMemberLeft {
		for client := range room {
			if client.UserID == ev.UserID {
				h.drop(client)
			}
		}
	}
}

// safeSend never blocks. A client whose queue is full is disconnected.
// Callers hold h.mu.
func (h *Hub) safeSend(client *Client, msg WSMessage) {
	select {
	case client.SendQueue <- msg:
	default:
		log.Printf("chatroom: send queue full for client %s, dropping", client.ID)
		h.drop(client)
	}
}

// drop removes client from its room. Callers hold h.mu.
func (h *Hub) drop(client *Client) {
	if room, ok := h.rooms[client.ChannelID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.ChannelID)
		}
	}
	client.close()
}

func (h *Hub) subscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.ChannelID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.ChannelID] = room
	}
	room[client] = struct{}{}
	h.safeSend(client, WSMessage{Type: "subscribed", Data: gin.H{"channel_id": client.ChannelID}})
}

func (h *Hub) unsubscribe(client *Client) {
	h.mu.Lock()
	h.drop(client)
	h.mu.Unlock()
}

// Subscribers reports how many sockets watch channelID.
func (h *Hub) Subscribers(channelID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[channelID])
}

func member(tx *db.Tx, userID, channelID int) error {
	ch := tx.Channel(channelID)
	if ch == nil {
		return apierr.Input("Channel does not exist")
	}
	if !ch.IsMember(userID) {
		return apierr.Access("User is not a member of the channel")
	}
	return nil
}

// HandleSocket serves GET /ws?token=&channel_id=.
func (h *Hub) HandleSocket(c *gin.Context) {
	token := c.Query("token")
	channelID := types.ParseID(c.Query("channel_id"))

	var userID int
	err := h.store.View(func(tx *db.Tx) error {
		u, err := h.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		userID = u.ID
		return member(tx, userID, channelID)
	})
	if err != nil {
		apierr.Write(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	conn.SetReadLimit(4 * 1024)

	client := &Client{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChannelID: channelID,
		Conn:      conn,
		SendQueue: make(chan WSMessage, sendQueueSize),
		Done:      make(chan struct{}),
	}

	// Token and membership are checked again under the store lock so a
	// logout or leave cannot slip in before the subscription.
	err = h.store.View(func(tx *db.Tx) error {
		u, err := h.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		if u.ID != userID {
			return apierr.Access("Invalid token")
		}
		if err := member(tx, userID, channelID); err != nil {
			return err
		}
		h.subscribe(client)
		return nil
	})
	if err != nil {
		_ = conn.WriteJSON(WSMessage{Type: "error", Data: gin.H{"message": err.Error()}})
		conn.Close()
		return
	}
	go client.WritePump()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unsubscribe(client)
}
