package topper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMalformedAddressThrows(t *testing.T) {
	_, err := NewServer("1.2.3.4.5", 0)
	require.Error(t, err)
	var topperErr *Error
	require.ErrorAs(t, err, &topperErr)
	assert.Equal(t, ErrInvalidAddress, topperErr.Kind)

	_, err = NewServer("foo", 0)
	require.Error(t, err)
	require.ErrorAs(t, err, &topperErr)
	assert.Equal(t, ErrInvalidAddress, topperErr.Kind)
}

func TestStopAndWaitThrowsIfNotStarted(t *testing.T) {
	server, err := NewServer("127.0.0.1", 0)
	require.NoError(t, err)

	err = server.StopAndWait()
	require.Error(t, err)
	var topperErr *Error
	require.ErrorAs(t, err, &topperErr)
	assert.Equal(t, ErrNotStarted, topperErr.Kind)
}

func TestStartThrowsIfAlreadyStarted(t *testing.T) {
	server, err := NewServer("127.0.0.1", 0)
	require.NoError(t, err)
	require.NoError(t, server.Start())
	defer server.StopAndWait()

	err = server.Start()
	require.Error(t, err)
	var topperErr *Error
	require.ErrorAs(t, err, &topperErr)
	assert.Equal(t, ErrAlreadyStarted, topperErr.Kind)
}

func TestRegisterResourceThenMatch(t *testing.T) {
	server, err := NewServer("127.0.0.1", 0)
	require.NoError(t, err)
	require.NoError(t, server.RegisterResource(HelloResource{}))

	b, captures, ok := server.registry.Match("/")
	require.True(t, ok)
	assert.Empty(t, captures)
	assert.Equal(t, "/", b.resource.Path())
}

func TestRegisterResourceCollisionPropagates(t *testing.T) {
	server, err := NewServer("127.0.0.1", 0)
	require.NoError(t, err)
	require.NoError(t, server.RegisterResource(HelloResource{}))

	err = server.RegisterResource(HelloResource{})
	require.Error(t, err)
	var topperErr *Error
	require.ErrorAs(t, err, &topperErr)
	assert.Equal(t, ErrTemplateCollision, topperErr.Kind)
}
