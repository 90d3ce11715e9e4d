package chatroom

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"flockr/auth"
	"flockr/db"
	"flockr/types"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type fixture struct {
	store   *db.Store
	auth    *auth.Service
	hub     *Hub
	server  *httptest.Server
	alice   auth.Session
	bob     auth.Session
	channel int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := db.NewStore()
	authService := auth.NewService(store, nil, "test-secret")
	hub := NewHub(store, authService)
	store.SetNotifier(hub)

	r := gin.New()
	r.GET("/ws", hub.HandleSocket)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	f := &fixture{store: store, auth: authService, hub: hub, server: server}
	var err error
	if f.alice, err = authService.Register("alice@example.com", "password1", "Alice", "Smith"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if f.bob, err = authService.Register("bob@example.com", "password1", "Bob", "Jones"); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	_ = store.Update(func(tx *db.Tx) error {
		ch := tx.AddChannel("live", true, f.alice.UserID)
		tx.AddMember(ch, f.bob.UserID)
		f.channel = ch.ID
		return nil
	})
	return f
}

func (f *fixture) url(token string, channelID int) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("channel_id", strconv.Itoa(channelID))
	return "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?" + q.Encode()
}

func (f *fixture) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(f.url(token, f.channel), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != "subscribed" {
		t.Fatalf("expected subscribed ack, got %+v, %v", msg, err)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) (string, map[string]interface{}) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return msg.Type, msg.Data
}

// drain reads until the server closes conn and returns the message bodies
// it saw on the way.
func drain(t *testing.T, conn *websocket.Conn) []string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var bodies []string
	for {
		var msg struct {
			Type string                 `json:"type"`
			Data map[string]interface{} `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
				t.Fatalf("expected server to close the socket")
			}
			return bodies
		}
		if body, ok := msg.Data["message"].(string); ok {
			bodies = append(bodies, body)
		}
	}
}

func TestRejectsNonMembers(t *testing.T) {
	f := newFixture(t)
	_ = f.store.Update(func(tx *db.Tx) error {
		tx.RemoveMember(tx.Channel(f.channel), f.bob.UserID)
		return nil
	})

	_, resp, err := websocket.DefaultDialer.Dial(f.url(f.bob.Token, f.channel), nil)
	if err == nil {
		t.Fatalf("expected handshake to fail for non-member")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 response, got %+v", resp)
	}

	_, resp, err = websocket.DefaultDialer.Dial(f.url("bad-token", f.channel), nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad token, got %v", err)
	}
}

func TestBroadcastsCommittedEvents(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, f.bob.Token)

	_ = f.store.Update(func(tx *db.Tx) error {
		m := tx.PostMessage(f.channel, f.alice.UserID, "hello live", time.Now())
		tx.EditMessage(m, "hello again")
		return nil
	})

	typ, data := readEvent(t, conn)
	if typ != types.EventMessageSent || data["message"] != "hello live" {
		t.Fatalf("unexpected first event %s %+v", typ, data)
	}
	typ, data = readEvent(t, conn)
	if typ != types.EventMessageEdited || data["message"] != "hello again" {
		t.Fatalf("unexpected second event %s %+v", typ, data)
	}

	// Update keeps fn's writes on failure; only the events are discarded.
	_ = f.store.Update(func(tx *db.Tx) error {
		tx.PostMessage(f.channel, f.alice.UserID, "never announced", time.Now())
		return errors.New("failed")
	})
	_ = f.store.Update(func(tx *db.Tx) error {
		tx.RemoveMessage(1)
		return nil
	})
	if typ, _ := readEvent(t, conn); typ != types.EventMessageRemoved {
		t.Fatalf("expected failed update to publish nothing, got %s", typ)
	}
}

func TestLeavingDropsSubscription(t *testing.T) {
	f := newFixture(t)
	aliceConn := f.dial(t, f.alice.Token)
	bobConn := f.dial(t, f.bob.Token)
	if n := f.hub.Subscribers(f.channel); n != 2 {
		t.Fatalf("expected 2 subscribers, got %d", n)
	}

	_ = f.store.Update(func(tx *db.Tx) error {
		tx.RemoveMember(tx.Channel(f.channel), f.bob.UserID)
		return nil
	})

	typ, data := readEvent(t, aliceConn)
	if typ != types.EventMemberLeft || int(data["u_id"].(float64)) != f.bob.UserID {
		t.Fatalf("unexpected event %s %+v", typ, data)
	}

	_ = bobConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := bobConn.ReadMessage(); err != nil {
			break
		}
	}
	if n := f.hub.Subscribers(f.channel); n != 1 {
		t.Fatalf("expected leaver unsubscribed, got %d subscribers", n)
	}
}

func TestResetClosesEverySocket(t *testing.T) {
	f := newFixture(t)
	bobConn := f.dial(t, f.bob.Token)

	f.store.Reset(nil)
	if n := f.hub.Subscribers(f.channel); n != 0 {
		t.Fatalf("expected no subscribers after reset, got %d", n)
	}

	// Ids start again at 1, so the new private channel reuses the old id.
	carol, err := f.auth.Register("carol@example.com", "password1", "Carol", "White")
	if err != nil {
		t.Fatalf("register carol: %v", err)
	}
	_ = f.store.Update(func(tx *db.Tx) error {
		ch := tx.AddChannel("secret", false, carol.UserID)
		if ch.ID != f.channel {
			t.Fatalf("expected channel id %d to be reused, got %d", f.channel, ch.ID)
		}
		tx.PostMessage(ch.ID, carol.UserID, "private after reset", time.Now())
		return nil
	})

	for _, body := range drain(t, bobConn) {
		if body == "private after reset" {
			t.Fatalf("expected old socket to miss messages from the new channel")
		}
	}
}

func TestLogoutClosesUserSockets(t *testing.T) {
	f := newFixture(t)
	aliceConn := f.dial(t, f.alice.Token)
	bobConn := f.dial(t, f.bob.Token)

	if !f.auth.Logout(f.bob.Token) {
		t.Fatalf("expected logout to succeed")
	}
	if n := f.hub.Subscribers(f.channel); n != 1 {
		t.Fatalf("expected only alice subscribed, got %d", n)
	}

	_ = f.store.Update(func(tx *db.Tx) error {
		tx.PostMessage(f.channel, f.alice.UserID, "after logout", time.Now())
		return nil
	})
	if typ, data := readEvent(t, aliceConn); typ != types.EventMessageSent || data["message"] != "after logout" {
		t.Fatalf("unexpected event for alice %s %+v", typ, data)
	}
	for _, body := range drain(t, bobConn) {
		if body == "after logout" {
			t.Fatalf("expected logged-out socket to miss new messages")
		}
	}

	_, resp, err := websocket.DefaultDialer.Dial(f.url(f.bob.Token, f.channel), nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 redialing with a logged-out token, got %v", err)
	}
}

func TestLoginEndsOlderSockets(t *testing.T) {
	f := newFixture(t)
	bobConn := f.dial(t, f.bob.Token)

	if _, err := f.auth.Login("bob@example.com", "password1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	drain(t, bobConn)
	if n := f.hub.Subscribers(f.channel); n != 0 {
		t.Fatalf("expected old session socket dropped, got %d subscribers", n)
	}
}
