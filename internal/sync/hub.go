package sync

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

const writeTimeout = 2 * time.Second

// subscriber receives newline-terminated JSON messages.
type subscriber interface {
	send(msg []byte) error
	close()
}

type tcpSubscriber struct{ conn net.Conn }

func (s tcpSubscriber) send(msg []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := s.conn.Write(msg)
	return err
}

func (s tcpSubscriber) close() { _ = s.conn.Close() }

type wsSubscriber struct{ conn *websocket.Conn }

func (s wsSubscriber) send(msg []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, msg)
}

func (s wsSubscriber) close() { _ = s.conn.Close() }

// Hub fans catalog events out to TCP and WebSocket subscribers. A subscriber
// whose write fails is closed and dropped.
type Hub struct {
	mu   sync.Mutex
	subs map[any]subscriber
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{subs: make(map[any]subscriber)}
}

func (h *Hub) Add(conn net.Conn) {
	h.add(conn, tcpSubscriber{conn: conn})
}

func (h *Hub) Remove(conn net.Conn) {
	h.remove(conn)
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.add(ws, wsSubscriber{conn: ws})
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.remove(ws)
}

func (h *Hub) add(key any, s subscriber) {
	h.mu.Lock()
	h.subs[key] = s
	h.mu.Unlock()
}

func (h *Hub) remove(key any) {
	h.mu.Lock()
	s, ok := h.subs[key]
	delete(h.subs, key)
	h.mu.Unlock()
	if ok {
		s.close()
	}
}

// BroadcastJSON sends v as one JSON line to every subscriber.
func (h *Hub) BroadcastJSON(v any) error {
	b, err := jsoniter.ConfigFastest.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	for key, s := range h.subs {
		if err := s.send(b); err != nil {
			s.close()
			delete(h.subs, key)
		}
	}
	return nil
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	var st Stats
	for _, s := range h.subs {
		switch s.(type) {
		case tcpSubscriber:
			st.TCPClients++
		case wsSubscriber:
			st.WSClients++
		}
	}
	return st
}
