package topper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecomposePath(t *testing.T) {
	cases := []struct {
		path string
		want []string
	}{
		{"/", nil},
		{"", nil},
		{"/foo", []string{"foo"}},
		{"/foo/bar", []string{"foo", "bar"}},
		{"/foo/bar/", []string{"foo", "bar"}},
		{"//a", []string{"", "a"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DecomposePath(c.path), "path %q", c.path)
	}
}

func TestDecomposeQueryNoCollapse(t *testing.T) {
	pairs := DecomposeQuery("a=1&&b=2")
	assert.Equal(t, []QueryPair{
		{Key: "a", Value: "1"},
		{Key: "", Value: ""},
		{Key: "b", Value: "2"},
	}, pairs)
}

func TestDecomposeQueryMissingEquals(t *testing.T) {
	pairs := DecomposeQuery("flag;a=1")
	assert.Equal(t, []QueryPair{
		{Key: "flag", Value: ""},
		{Key: "a", Value: "1"},
	}, pairs)
}

func TestDecomposeQueryEmpty(t *testing.T) {
	assert.Nil(t, DecomposeQuery(""))
}
