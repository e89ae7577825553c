// Package ws carries the agent request/response protocol over a websocket,
// one session per connection. Frames are the same JSON objects the stdio
// driver exchanges, without the newline framing.
package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Handler answers one raw request frame with one raw response frame.
type Handler func(raw []byte) []byte

type Server struct {
	newSession func() Handler
	log        *log.Logger

	upgrader websocket.Upgrader
}

// NewServer builds a websocket server. newSession is called once per
// connection so every agent gets its own isolated store state.
func NewServer(newSession func() Handler, logger *log.Logger) *Server {
	return &Server{
		newSession: newSession,
		log:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		handle := s.newSession()
		for {
			_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			resp := handle(msg)
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, resp); err != nil {
				s.log.Printf("ws write: %v", err)
				return
			}
		}
	}
}

// ListenAndServe blocks serving sessions at /v1/ws.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/v1/ws", s.Handler())
	s.log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
