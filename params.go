package topper

import (
	"fmt"
	"reflect"
	"strconv"

	strarr "github.com/srfrog/go-strarr"
)

// StringParam wraps a path-variable segment verbatim.
//
// Grounded on original_source/include/parameter.h's StringParam::parse,
// which is pure identity over the already-extracted segment.
type StringParam struct {
	value string
}

// ParseStringParam wraps a path segment as a StringParam. It never fails.
func ParseStringParam(segment string) StringParam {
	return StringParam{value: segment}
}

// Value returns the wrapped string.
func (p StringParam) Value() string { return p.value }

// IntWidth is the set of integer widths a path variable may declare.
type IntWidth interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// IntParam parses a path-variable segment as a base-10 integer fitting the
// width of T. Grounded on original_source/include/parameter.h's
// template<typename T> class IntParam.
type IntParam[T IntWidth] struct {
	value T
}

// ParseIntParam parses segment as a base-10 integer of width T. It fails
// with an InvalidParameter error if any non-digit trailing bytes remain or
// the value overflows T -- mirroring the source's stoll()+position check.
func ParseIntParam[T IntWidth](segment string) (IntParam[T], error) {
	var zero T
	bits := intWidthBits(zero)
	v, err := strconv.ParseInt(segment, 10, bits)
	if err != nil {
		return IntParam[T]{}, newError(ErrInvalidParameter,
			fmt.Sprintf("invalid integral string %q: %v", segment, err))
	}
	return IntParam[T]{value: T(v)}, nil
}

func intWidthBits(v any) int {
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int8:
		return 8
	case reflect.Int16:
		return 16
	case reflect.Int32:
		return 32
	case reflect.Int64:
		return 64
	default:
		return 64
	}
}

// Value returns the parsed integer.
func (p IntParam[T]) Value() T { return p.value }

// multiValue is the shared representation behind QueryParams and
// FormParams: an insertion-ordered, multi-valued mapping from name to
// values, exactly as original_source/src/parameter_internal.h's
// QueryParamsImpl/PostParamsImpl (backed by an unordered_multimap).
type multiValue struct {
	order  []string
	values map[string][]string
}

func newMultiValue(pairs []QueryPair) multiValue {
	mv := multiValue{values: make(map[string][]string, len(pairs))}
	for _, p := range pairs {
		if _, ok := mv.values[p.Key]; !ok {
			mv.order = append(mv.order, p.Key)
		}
		mv.values[p.Key] = append(mv.values[p.Key], p.Value)
	}
	return mv
}

// get returns all values for name in insertion order, or nil if absent.
func (mv multiValue) get(name string) []string {
	return mv.values[name]
}

// has reports whether name was present at all, using the pack's go-strarr
// containment helper over the insertion-ordered key set rather than a bare
// map probe.
func (mv multiValue) has(name string) bool {
	return strarr.Contains(mv.order, name)
}

// QueryParams exposes a request's decoded query-string parameters.
type QueryParams struct{ mv multiValue }

// NewQueryParams builds a QueryParams from decomposed query pairs.
func NewQueryParams(pairs []QueryPair) QueryParams {
	return QueryParams{mv: newMultiValue(pairs)}
}

// Get returns all values for name, in insertion order.
func (q QueryParams) Get(name string) []string { return q.mv.get(name) }

// Has reports whether name appears at least once.
func (q QueryParams) Has(name string) bool { return q.mv.has(name) }

// FormParams exposes a POST request's x-www-form-urlencoded body,
// decoded the same way as a query string.
type FormParams struct{ mv multiValue }

// NewFormParams builds a FormParams from decomposed form pairs.
func NewFormParams(pairs []QueryPair) FormParams {
	return FormParams{mv: newMultiValue(pairs)}
}

// Get returns all values for name, in insertion order.
func (f FormParams) Get(name string) []string { return f.mv.get(name) }

// Has reports whether name appears at least once.
func (f FormParams) Has(name string) bool { return f.mv.has(name) }

// HeaderParams exposes a request's headers as a single-valued mapping.
// Grounded on original_source/src/parameter_internal.h's HeaderParamsImpl.
type HeaderParams struct {
	values map[string]string
}

// NewHeaderParams builds a HeaderParams from a completed header map.
func NewHeaderParams(values map[string]string) HeaderParams {
	return HeaderParams{values: values}
}

// Get returns the header value, or the empty string if absent -- matching
// HeaderParamsImpl::get's behaviour of returning "" rather than an error.
func (h HeaderParams) Get(name string) string { return h.values[name] }

// Entity is the opaque request body.
type Entity struct {
	body string
}

// NewEntity wraps a raw request body.
func NewEntity(body string) Entity { return Entity{body: body} }

// AsString returns the raw request body.
func (e Entity) AsString() string { return e.body }
