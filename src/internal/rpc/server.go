package rpc

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/maksimkurb/fibctl/src/internal/log"
	"github.com/maksimkurb/fibctl/src/internal/utils"
)

// HandlerFunc serves one action. The returned value becomes the response
// data; a returned error becomes an ok=false response carrying its message.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

const (
	serverReadTimeout  = 30 * time.Second
	serverWriteTimeout = 10 * time.Second
)

// Server dispatches requests to handlers by action, one request per
// connection.
type Server struct {
	handlers map[string]HandlerFunc

	activeConnections sync.WaitGroup
}

func NewServer() *Server {
	return &Server{handlers: make(map[string]HandlerFunc)}
}

// Handle registers a handler. Must be called before Serve; registering the
// same action twice panics.
func (s *Server) Handle(action string, handler HandlerFunc) {
	if _, exists := s.handlers[action]; exists {
		panic(fmt.Sprintf("rpc.Server: duplicate handler for action %q", action))
	}
	s.handlers[action] = handler
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed, then waits for in-flight requests. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	defer listener.Close()

	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()

	log.Debugf("rpc server listening on %s", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				break
			}
			log.Warnf("rpc server: accept failed: %v", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	return nil
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer utils.CloseOrWarn(conn, "rpc server connection")

	_ = conn.SetReadDeadline(time.Now().Add(serverReadTimeout))

	var request Request
	if err := newDecoder(io.LimitReader(conn, MaxMessageSize)).Decode(&request); err != nil {
		if stderrors.Is(err, io.EOF) {
			return
		}
		s.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if request.Action == "" {
		s.writeError(conn, "missing required field: action")
		return
	}

	handler, exists := s.handlers[request.Action]
	if !exists {
		s.writeError(conn, fmt.Sprintf("unknown action %q", request.Action))
		return
	}

	result, err := handler(ctx, &request)
	if err != nil {
		log.Debugf("rpc server: %s failed (request %s): %v", request.Action, request.RequestID, err)
		s.writeError(conn, err.Error())
		return
	}

	s.writeSuccess(conn, result)
}

func (s *Server) writeError(conn net.Conn, message string) {
	_ = conn.SetWriteDeadline(time.Now().Add(serverWriteTimeout))
	if err := newEncoder(conn).Encode(Response{OK: false, Error: message}); err != nil {
		log.Debugf("rpc server: failed to write error response: %v", err)
	}
}

func (s *Server) writeSuccess(conn net.Conn, result any) {
	_ = conn.SetWriteDeadline(time.Now().Add(serverWriteTimeout))

	response := Response{OK: true}
	if result != nil {
		data, err := Marshal(result)
		if err != nil {
			s.writeError(conn, fmt.Sprintf("internal: marshaling response: %v", err))
			return
		}
		response.Data = data
	}

	if err := newEncoder(conn).Encode(response); err != nil {
		log.Debugf("rpc server: failed to write success response: %v", err)
	}
}
