package topper

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strconv"
	"strings"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// connContext is the per-connection state created on accept, owning the
// stream, the request builder that consumes its wire fragments, and a
// correlation ID carried through every log line for this connection.
// Grounded on original_source/src/server_instance.cc's per-connection
// object (stream wrapper + parser + builder + read/write callbacks); Go's
// blocking net.Conn collapses the separate available/eof callbacks into a
// single read loop, per spec.md section 4.7's Go rendering note.
type connContext struct {
	conn    net.Conn
	id      uuid.UUID
	server  *Server
	builder *RequestBuilder
}

func newConnContext(conn net.Conn, server *Server) *connContext {
	return &connContext{
		conn:    conn,
		id:      uuid.NewV4(),
		server:  server,
		builder: NewRequestBuilder(),
	}
}

// serve reads exactly one request off the connection, dispatches it, writes
// the response, and tears the connection down -- no keep-alive, one request
// per connection, matching spec.md section 4.7. A panic anywhere in
// matching or dispatch is recovered and converted to a 500, mirroring the
// try/catch around get_response in original_source/src/server_instance.h.
func (c *connContext) serve() {
	defer c.conn.Close()

	resp, err := c.readAndDispatch()
	if err != nil {
		log.WithFields(logrus.Fields{
			"correlation_id": c.id.String(),
			"remote":         c.conn.RemoteAddr(),
		}).Warn("stream error: ", err)
		return
	}
	if _, err := c.conn.Write([]byte(resp.Serialize())); err != nil {
		log.WithFields(logrus.Fields{
			"correlation_id": c.id.String(),
			"remote":         c.conn.RemoteAddr(),
		}).Warn("write error: ", err)
	}
}

func (c *connContext) readAndDispatch() (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"correlation_id": c.id.String(),
			}).Warn("recovered handler panic: ", r)
			resp = InternalError(fmt.Sprintf("%v", r))
			err = nil
		}
	}()

	method, err := c.readRequest()
	if err != nil {
		if isBuildFailure(err) {
			return InternalError(err.Error()), nil
		}
		return Response{}, newError(ErrStreamError, err.Error())
	}

	req, buildErr := c.builder.Build(method)
	if buildErr != nil {
		return InternalError(buildErr.Error()), nil
	}

	var key string
	if method == "GET" && c.server.cache != nil {
		key = cacheKey(req.Path, req.RawQuery)
		if cached, hit := c.server.cache.Get(key); hit {
			return cached, nil
		}
	}

	bound, captures, ok := c.server.registry.Match(req.Path)
	if !ok {
		return NotFound(), nil
	}
	req = req.WithCaptures(captures)
	resp = Dispatch(bound, method, req)

	if key != "" && resp.Code == StatusOK {
		c.server.cache.Set(key, resp, 0)
	}
	return resp, nil
}

// readRequest performs the minimal HTTP/1.1 request-line + header + body
// read that feeds c.builder, standing in for the streaming push parser
// spec.md section 1 names as an external collaborator assumed supplied by
// the environment. Apart from a malformed request line, which it reports as
// ErrURLParse, it reports only wire/protocol-level failures; the other
// request construction failures (empty request path, unrecognised method)
// surface later from c.builder.Build, per spec.md section 7's split between
// StreamError and the UrlParseError/MethodUnknown build failures.
func (c *connContext) readRequest() (method string, err error) {
	r := bufio.NewReader(c.conn)

	requestLine, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	fields := strings.Fields(requestLine)
	if len(fields) < 2 {
		return "", newError(ErrURLParse, "malformed request line: "+requestLine)
	}
	method = fields[0]
	c.builder.OnURL(fields[1])

	tp := textproto.NewReader(r)
	headers, err := tp.ReadMIMEHeader()
	if err != nil && len(headers) == 0 {
		return "", err
	}
	contentLength := 0
	for name, values := range headers {
		for _, v := range values {
			c.builder.OnHeaderField(name)
			if !c.builder.OnHeaderValue(v) {
				return "", newError(ErrStreamError, "header value before field: "+name)
			}
		}
		if strings.EqualFold(name, "Content-Length") && len(values) > 0 {
			if n, parseErr := strconv.Atoi(values[0]); parseErr == nil {
				contentLength = n
			}
		}
	}

	if contentLength > 0 {
		body := make([]byte, contentLength)
		if _, err := readFull(r, body); err != nil {
			return "", err
		}
		c.builder.OnBody(string(body))
	}

	return method, nil
}

// isBuildFailure reports whether err is a request-building failure
// (malformed request target or unrecognised method) that spec.md section 7
// converts into a 500 response, as opposed to a genuine stream-level
// failure that terminates the connection with no response at all.
func isBuildFailure(err error) bool {
	var topperErr *Error
	if !errors.As(err, &topperErr) {
		return false
	}
	return topperErr.Kind == ErrURLParse || topperErr.Kind == ErrMethodUnknown
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
