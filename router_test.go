package topper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noParamResource struct{ path string }

func (r noParamResource) Path() string { return r.path }

type oneStringParamResource struct{ path string }

func (r oneStringParamResource) Path() string { return r.path }
func (r oneStringParamResource) Get(p1 StringParam) Response {
	return NewResponse(StatusOK, MediaText, p1.Value())
}

type twoStringParamResource struct{ path string }

func (r twoStringParamResource) Path() string { return r.path }
func (r twoStringParamResource) Get(p1, p2 StringParam) Response {
	return NewResponse(StatusOK, MediaText, p1.Value()+" "+p2.Value())
}

func mustRegister(t *testing.T, router *Router, res Resource) *boundResource {
	t.Helper()
	bound, err := bindResource(res)
	require.NoError(t, err)
	require.NoError(t, router.Register(res.Path(), bound))
	return bound
}

func TestMatcherBasicFunctionality(t *testing.T) {
	router := NewRouter()
	res1 := noParamResource{"/"}
	res2 := noParamResource{"/foo"}
	res3 := noParamResource{"/foo/bar"}

	b1 := mustRegister(t, router, res1)
	b2 := mustRegister(t, router, res2)
	b3 := mustRegister(t, router, res3)

	match := func(path string) *boundResource {
		b, _, ok := router.Match(DecomposePath(path))
		if !ok {
			return nil
		}
		return b
	}

	assert.Same(t, b1, match("/"))
	assert.Same(t, b2, match("/foo"))
	assert.Same(t, b3, match("/foo/bar"))

	assert.Nil(t, match("/notreal"))
	assert.Nil(t, match("/notreal/foo"))
	assert.Nil(t, match("/notreal/foo/bar"))
}

func TestMatcherParameterMatching(t *testing.T) {
	router := NewRouter()
	b1 := mustRegister(t, router, oneStringParamResource{"/{p1}"})
	b2 := mustRegister(t, router, oneStringParamResource{"/foo/{p1}"})
	b3 := mustRegister(t, router, oneStringParamResource{"/{p1}/foo"})
	b4 := mustRegister(t, router, oneStringParamResource{"/foo/bar/{p1}"})

	validate := func(path string, expected *boundResource) {
		b, captures, ok := router.Match(DecomposePath(path))
		require.True(t, ok, path)
		assert.Same(t, expected, b, path)
		assert.Len(t, captures, 1, path)
	}

	validate("/foo", b1)
	validate("/foo/bar", b2)
	validate("/bar/foo", b3)
	validate("/foo/bar/baz", b4)
	validate("/bar", b1)
}

func TestMatcherMultiParameterMatching(t *testing.T) {
	router := NewRouter()
	mustRegister(t, router, oneStringParamResource{"/foo/{p1}"})
	b2 := mustRegister(t, router, twoStringParamResource{"/{p1}/{p2}"})

	validate := func(path string, expected *boundResource, count int) {
		b, captures, ok := router.Match(DecomposePath(path))
		require.True(t, ok, path)
		assert.Same(t, expected, b, path)
		assert.Len(t, captures, count, path)
	}

	// Matching is greedy in the number of parameters; res1 can never win.
	validate("/foo/bar", b2, 2)

	b3 := mustRegister(t, router, twoStringParamResource{"/foo/{p1}/short/{p2}"})
	b4 := mustRegister(t, router, twoStringParamResource{"/foo/longer/{p1}/{p2}"})

	// Matching is greedy in the size of the literals; b4 wins.
	validate("/foo/longer/short/bar", b4, 2)

	// But b3 can still be reached.
	validate("/foo/baz/short/bar", b3, 2)
}

func TestRegisterCollision(t *testing.T) {
	router := NewRouter()
	b, err := bindResource(noParamResource{"/foo"})
	require.NoError(t, err)
	require.NoError(t, router.Register("/foo", b))

	err = router.Register("/foo", b)
	require.Error(t, err)
	var topperErr *Error
	require.ErrorAs(t, err, &topperErr)
	assert.Equal(t, ErrTemplateCollision, topperErr.Kind)
}
