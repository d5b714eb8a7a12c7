package topper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestBuilderHeaderFieldAccumulation(t *testing.T) {
	b := NewRequestBuilder()
	b.OnHeaderField("X-")
	b.OnHeaderField("Test")
	b.OnHeaderValue("one")
	b.OnURL("/")

	req, err := b.Build("GET")
	require.NoError(t, err)
	assert.Equal(t, "one", req.Headers.Get("X-Test"))
}

func TestRequestBuilderCommitsOnFieldAfterValue(t *testing.T) {
	b := NewRequestBuilder()
	b.OnHeaderField("A")
	b.OnHeaderValue("1")
	// Starting a new field while in headerValue must commit the pending
	// (A, 1) pair before beginning B.
	b.OnHeaderField("B")
	b.OnHeaderValue("2")
	b.OnURL("/")

	req, err := b.Build("GET")
	require.NoError(t, err)
	assert.Equal(t, "1", req.Headers.Get("A"))
	assert.Equal(t, "2", req.Headers.Get("B"))
}

func TestRequestBuilderValueFragmentsAccumulate(t *testing.T) {
	b := NewRequestBuilder()
	b.OnHeaderField("A")
	b.OnHeaderValue("foo")
	b.OnHeaderValue("bar")
	b.OnURL("/")

	req, err := b.Build("GET")
	require.NoError(t, err)
	assert.Equal(t, "foobar", req.Headers.Get("A"))
}

func TestRequestBuilderHeaderValueBeforeFieldIsRejected(t *testing.T) {
	b := NewRequestBuilder()
	ok := b.OnHeaderValue("orphan")
	assert.False(t, ok)
}

func TestRequestBuilderFinalHeaderCommittedOnBuild(t *testing.T) {
	b := NewRequestBuilder()
	b.OnHeaderField("A")
	b.OnHeaderValue("1")
	b.OnURL("/")
	// No further OnHeaderField call; Build must still commit the trailing
	// (A, 1) pair via commitHeader.

	req, err := b.Build("GET")
	require.NoError(t, err)
	assert.Equal(t, "1", req.Headers.Get("A"))
}

func TestRequestBuilderURLAndBodyAccumulate(t *testing.T) {
	b := NewRequestBuilder()
	b.OnURL("/foo")
	b.OnURL("/bar")
	b.OnBody("name=")
	b.OnBody("alice")

	req, err := b.Build("POST")
	require.NoError(t, err)
	assert.Equal(t, "/foo/bar", req.Path)
	assert.Equal(t, []string{"alice"}, req.Form.Get("name"))
	assert.Equal(t, "name=alice", req.Entity().AsString())
}

func TestRequestBuilderBuildDoesNotPercentDecodePath(t *testing.T) {
	b := NewRequestBuilder()
	b.OnURL("/foo%2Fbar")

	req, err := b.Build("GET")
	require.NoError(t, err)
	assert.Equal(t, "/foo%2Fbar", req.Path)
}

func TestRequestBuilderBuildSplitsQueryWithoutDecoding(t *testing.T) {
	b := NewRequestBuilder()
	b.OnURL("/search?q=a%20b&x=1")

	req, err := b.Build("GET")
	require.NoError(t, err)
	assert.Equal(t, "/search", req.Path)
	assert.Equal(t, "q=a%20b&x=1", req.RawQuery)
	assert.Equal(t, []string{"a%20b"}, req.Query.Get("q"))
}

func TestRequestBuilderBuildRejectsUnknownMethod(t *testing.T) {
	b := NewRequestBuilder()
	b.OnURL("/")

	_, err := b.Build("HEAD")
	require.Error(t, err)
	var topperErr *Error
	require.ErrorAs(t, err, &topperErr)
	assert.Equal(t, ErrMethodUnknown, topperErr.Kind)
}

func TestRequestBuilderBuildRejectsEmptyPath(t *testing.T) {
	b := NewRequestBuilder()

	_, err := b.Build("GET")
	require.Error(t, err)
	var topperErr *Error
	require.ErrorAs(t, err, &topperErr)
	assert.Equal(t, ErrURLParse, topperErr.Kind)
}

func TestSplitRawURL(t *testing.T) {
	path, query := splitRawURL("/foo/bar")
	assert.Equal(t, "/foo/bar", path)
	assert.Equal(t, "", query)

	path, query = splitRawURL("/foo?a=1&b=2")
	assert.Equal(t, "/foo", path)
	assert.Equal(t, "a=1&b=2", query)

	path, query = splitRawURL("/foo?")
	assert.Equal(t, "/foo", path)
	assert.Equal(t, "", query)
}
