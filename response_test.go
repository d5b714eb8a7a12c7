package topper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializeWireFormat(t *testing.T) {
	resp := NewResponse(StatusOK, MediaJSON, `{"a":1}`)
	wire := resp.Serialize()

	assert.True(t, strings.HasPrefix(wire, "HTTP/1.1 200 OK\r\n"))
	assert.Contains(t, wire, "Content-Length: 7\r\n")
	assert.Contains(t, wire, "Connection: close\r\n")
	assert.Contains(t, wire, "Content-Type: application/json\r\n")
	assert.True(t, strings.HasSuffix(wire, `{"a":1}`))
}

func TestSerializeDefaultsToOctetStream(t *testing.T) {
	resp := NewResponse(StatusOK, "", "data")
	assert.Contains(t, resp.Serialize(), "Content-Type: application/octet-stream\r\n")
}

func TestFixedResponses(t *testing.T) {
	assert.Equal(t, StatusNotFound, NotFound().Code)
	assert.Equal(t, StatusMethodNotAllowed, NotAllowed().Code)
	assert.Equal(t, StatusInternalServerError, InternalError("boom").Code)
}
