package topper

import "strings"

// headerState is the request builder's header-parsing state machine, per
// spec.md section 4.6.
type headerState int

const (
	headerInit headerState = iota
	headerField
	headerValue
)

// RequestBuilder accumulates a single request's wire fragments as they
// arrive from the streaming parser, mirroring
// original_source/src/request_builder.h's field-by-field state machine
// exactly: on_url/on_header_field/on_header_value/on_body append to the
// relevant buffer, with header parsing tracked by headerState so that a
// run of field fragments and a run of value fragments are correctly
// coalesced into (name, value) pairs even when the parser delivers them in
// multiple chunks.
type RequestBuilder struct {
	urlBuf  strings.Builder
	bodyBuf strings.Builder

	state    headerState
	nameBuf  strings.Builder
	valueBuf strings.Builder
	headers  map[string]string
}

// NewRequestBuilder returns an empty builder ready to receive wire
// fragments for one request.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{headers: make(map[string]string)}
}

// OnURL appends frag to the accumulating request-line URL.
func (b *RequestBuilder) OnURL(frag string) {
	b.urlBuf.WriteString(frag)
}

// OnHeaderField feeds a fragment of a header name. See spec.md section 4.6
// for the exact per-state transition table.
func (b *RequestBuilder) OnHeaderField(frag string) {
	switch b.state {
	case headerInit:
		b.state = headerField
		b.nameBuf.WriteString(frag)
	case headerValue:
		b.commitHeader()
		b.state = headerField
		b.nameBuf.WriteString(frag)
	case headerField:
		b.nameBuf.WriteString(frag)
	}
}

// OnHeaderValue feeds a fragment of a header value. Called while state is
// headerInit (i.e. before any header field was seen) it is a protocol
// error, reported via the returned bool.
func (b *RequestBuilder) OnHeaderValue(frag string) bool {
	if b.state == headerInit {
		return false
	}
	b.valueBuf.WriteString(frag)
	b.state = headerValue
	return true
}

// OnBody appends frag to the accumulating request body.
func (b *RequestBuilder) OnBody(frag string) {
	b.bodyBuf.WriteString(frag)
}

func (b *RequestBuilder) commitHeader() {
	if b.nameBuf.Len() == 0 {
		return
	}
	b.headers[b.nameBuf.String()] = b.valueBuf.String()
	b.nameBuf.Reset()
	b.valueBuf.Reset()
}

// Request is the immutable, fully-decomposed view of one inbound message
// handed to the matcher and dispatcher. Grounded on
// original_source/src/request.h's Request (a bundle of UriInfo, headers,
// entity, built once and never mutated thereafter).
type Request struct {
	Path     string
	RawQuery string
	Captures []string
	Query    QueryParams
	Form     FormParams
	Headers  HeaderParams
	entity   Entity
}

// captureAt returns the i'th path capture, or "" if out of range. Nothing
// checks that a method's path-variable parameters match the template's
// variable segments in number (a caller contract, spec.md section 4.5); a
// missing capture simply reads as "".
func (r *Request) captureAt(i int) string {
	if i < 0 || i >= len(r.Captures) {
		return ""
	}
	return r.Captures[i]
}

// Entity returns the request body.
func (r *Request) Entity() Entity { return r.entity }

// Build finalises the builder into an immutable Request for the given HTTP
// method. spec.md's Non-goals explicitly exclude percent-decoding of path
// segments, and original_source/src/request_builder.h's build() extracts
// the path as a raw substring of the URL with no decoding at all -- so the
// raw URL is split on its first '?' by hand rather than through
// net/url.Parse, which would percent-decode the path into u.Path. A POST
// body is additionally decoded as a form per spec.md's "decode body as a
// query string to form parameters" rule. An HTTP method outside the four
// declared verbs fails fast here with ErrMethodUnknown, mirroring
// request_builder.h's convertMethod throwing before the matcher ever runs
// (spec.md section 7).
func (b *RequestBuilder) Build(method string) (*Request, error) {
	b.commitHeader()

	if !isKnownMethod(method) {
		return nil, newError(ErrMethodUnknown, "unrecognised HTTP method: "+method)
	}

	path, query := splitRawURL(b.urlBuf.String())
	if path == "" {
		return nil, newError(ErrURLParse, "empty request path")
	}

	req := &Request{
		Path:     path,
		RawQuery: query,
		Query:    NewQueryParams(DecomposeQuery(query)),
		Headers:  NewHeaderParams(b.headers),
		entity:   NewEntity(b.bodyBuf.String()),
	}
	if method == "POST" {
		req.Form = NewFormParams(DecomposeQuery(b.bodyBuf.String()))
	}
	return req, nil
}

// splitRawURL splits a raw request-target into its path and query halves
// on the first '?', performing no percent-decoding in either direction.
func splitRawURL(raw string) (path, query string) {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return raw, ""
}

// WithCaptures attaches the matcher's captured path variables to req,
// returning the same pointer for chaining at the call site.
func (r *Request) WithCaptures(captures []string) *Request {
	r.Captures = captures
	return r
}
