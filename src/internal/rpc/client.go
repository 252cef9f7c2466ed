package rpc

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/log"
	"github.com/maksimkurb/fibctl/src/internal/metrics"
	"github.com/maksimkurb/fibctl/src/internal/utils"
)

// MaxMessageSize caps a single encoded request or response.
const MaxMessageSize = 16 << 20

// Request is the envelope of every call.
type Request struct {
	Action    string     `cbor:"action"`
	ClientID  int16      `cbor:"client_id"`
	RequestID string     `cbor:"request_id"`
	Body      RawMessage `cbor:"body,omitempty"`
}

// Decode unmarshals the request body into v. A missing body leaves v untouched.
func (r *Request) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return Unmarshal(r.Body, v)
}

// Response is the envelope of every answer. Error is set only when OK is false.
type Response struct {
	OK    bool       `cbor:"ok"`
	Error string     `cbor:"error,omitempty"`
	Data  RawMessage `cbor:"data,omitempty"`
}

// Client performs calls against one peer. It holds no connection between
// calls and is safe for concurrent use.
type Client struct {
	name     string
	addr     string
	clientID int16
	timeout  time.Duration
}

// NewClient creates a client for the peer at addr ("host:port"). name labels
// log lines and metrics ("agent", "decision").
func NewClient(name, addr string, clientID int16, timeout time.Duration) *Client {
	return &Client{
		name:     name,
		addr:     addr,
		clientID: clientID,
		timeout:  timeout,
	}
}

// Addr returns the peer address.
func (c *Client) Addr() string {
	return c.addr
}

// Call sends action with body and decodes the response data into result.
// body and result may be nil.
func (c *Client) Call(ctx context.Context, action string, body any, result any) error {
	start := time.Now()
	err := c.call(ctx, action, body, result)

	metrics.ObserveRPC(c.name, action, resultLabel(err), time.Since(start))
	return err
}

// resultLabel names the outcome of a call without naming the peer, which the
// target label already does.
func resultLabel(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	switch errors.CodeOf(err) {
	case errors.ErrCodeAgentTimeout:
		return metrics.ResultTimeout
	case errors.ErrCodeAgentUnreachable:
		return metrics.ResultUnreachable
	case errors.ErrCodeAgentProtocol:
		return metrics.ResultProtocol
	case errors.ErrCodeAgentRejected:
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

func (c *Client) call(ctx context.Context, action string, body any, result any) error {
	request := Request{
		Action:    action,
		ClientID:  c.clientID,
		RequestID: uuid.NewString(),
	}
	if body != nil {
		raw, err := Marshal(body)
		if err != nil {
			return errors.NewInternalError(fmt.Sprintf("encoding %s request", action), err)
		}
		request.Body = raw
	}

	log.Debugf("%s %s: calling %s (request %s)", c.name, action, c.addr, request.RequestID)

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return c.transportError(parent, action, "connecting to "+c.addr, err, errors.ErrCodeAgentUnreachable)
	}
	defer utils.CloseOrWarn(conn, c.name+" connection")

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return c.transportError(parent, action, "setting deadline", err, errors.ErrCodeAgentUnreachable)
	}
	// Unblock pending I/O as soon as the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if err := newEncoder(conn).Encode(request); err != nil {
		return c.transportError(parent, action, "writing request", err, errors.ErrCodeAgentUnreachable)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.CloseWrite()
	}

	var response Response
	if err := newDecoder(io.LimitReader(conn, MaxMessageSize)).Decode(&response); err != nil {
		return c.transportError(parent, action, "reading response", err, errors.ErrCodeAgentProtocol)
	}

	if !response.OK {
		return errors.New(errors.ErrCodeAgentRejected,
			fmt.Sprintf("%s rejected %s: %s", c.name, action, response.Error))
	}

	if result != nil {
		if len(response.Data) == 0 {
			return errors.New(errors.ErrCodeAgentProtocol,
				fmt.Sprintf("%s %s: response carries no data", c.name, action))
		}
		if err := Unmarshal(response.Data, result); err != nil {
			return errors.Wrap(errors.ErrCodeAgentProtocol,
				fmt.Sprintf("%s %s: decoding response data", c.name, action), err)
		}
	}

	log.Debugf("%s %s: done (request %s)", c.name, action, request.RequestID)
	return nil
}

// transportError classifies a failed I/O step. Deadlines and cancellation
// always win over fallback, since the peer may still act on the request.
func (c *Client) transportError(parent context.Context, action, step string, err error, fallback errors.ErrorCode) error {
	code := fallback
	message := fmt.Sprintf("%s %s: %s", c.name, action, step)

	switch {
	case parent.Err() != nil:
		code = errors.ErrCodeAgentTimeout
		message += " (cancelled)"
	case isTimeout(err):
		code = errors.ErrCodeAgentTimeout
		message += fmt.Sprintf(" (no answer within %s)", c.timeout)
	case fallback == errors.ErrCodeAgentProtocol && isConnectionLoss(err):
		code = errors.ErrCodeAgentUnreachable
	}

	return errors.Wrap(code, message, err)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// isConnectionLoss reports a connection dropped before any byte of the
// response arrived, as opposed to a response that could not be decoded.
func isConnectionLoss(err error) bool {
	var opErr *net.OpError
	return stderrors.As(err, &opErr)
}
