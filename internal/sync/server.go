package sync

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
)

// Server accepts TCP subscribers for the change feed.
type Server struct {
	Addr string
	Hub  *Hub

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

// Run listens until Close is called.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	log.Printf("[sync] listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("[sync] accept: %v", err)
			continue
		}

		_, _ = io.WriteString(conn, `{"type":"welcome","transport":"tcp"}`+"\n")
		s.Hub.Add(conn)
		log.Printf("[sync] client connected: %s", conn.RemoteAddr())

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				log.Printf("[sync] client disconnected: %s", c.RemoteAddr())
			}()
			// incoming lines are ignored; the loop ends when the client goes away
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
