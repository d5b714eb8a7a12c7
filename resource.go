package topper

import (
	"fmt"
	"reflect"
)

// Resource is a user-supplied handler bound to exactly one path template.
// Implementors declare zero or more of Get/Put/Post/Delete methods with an
// ordered parameter signature drawn from the kinds in paramKind; an
// undeclared verb yields a 405. This models the capability-set contract of
// original_source/include/resource.h ("zero or more declared handler
// methods") without an inheritance hierarchy -- see spec.md section 9,
// "Polymorphic resources".
type Resource interface {
	// Path returns the resource's path template, e.g. "/orgs/{org}/user/{id}".
	Path() string
}

// verbNames are the method names introspected on a registered Resource's
// concrete type, in HTTP-verb order. A Resource need not implement any of
// them; bindResource simply skips the ones that aren't found.
var verbNames = [4]string{"Get", "Put", "Post", "Delete"}

// paramKind tags a single declared parameter of a resource method, per
// spec.md section 4.5's dispatch table.
type paramKind int

const (
	kindPathString paramKind = iota
	kindPathInt8
	kindPathInt16
	kindPathInt32
	kindPathInt64
	kindQueryParams
	kindFormParams
	kindEntity
	kindHeaderParams
)

// advancesPathIndex reports whether a declared parameter kind consumes one
// entry from the ordered list of path captures.
func (k paramKind) advancesPathIndex() bool {
	switch k {
	case kindPathString, kindPathInt8, kindPathInt16, kindPathInt32, kindPathInt64:
		return true
	default:
		return false
	}
}

var (
	typeStringParam   = reflect.TypeOf(StringParam{})
	typeIntParam8     = reflect.TypeOf(IntParam[int8]{})
	typeIntParam16    = reflect.TypeOf(IntParam[int16]{})
	typeIntParam32    = reflect.TypeOf(IntParam[int32]{})
	typeIntParam64    = reflect.TypeOf(IntParam[int64]{})
	typeQueryParams   = reflect.TypeOf(QueryParams{})
	typeFormParams    = reflect.TypeOf(FormParams{})
	typeEntity        = reflect.TypeOf(Entity{})
	typeHeaderParams  = reflect.TypeOf(HeaderParams{})
	typeResponse      = reflect.TypeOf(Response{})
)

// classifyParam maps a Go parameter type to its declared paramKind, or
// reports an error for any type the dispatcher doesn't recognise.
func classifyParam(t reflect.Type) (paramKind, error) {
	switch t {
	case typeStringParam:
		return kindPathString, nil
	case typeIntParam8:
		return kindPathInt8, nil
	case typeIntParam16:
		return kindPathInt16, nil
	case typeIntParam32:
		return kindPathInt32, nil
	case typeIntParam64:
		return kindPathInt64, nil
	case typeQueryParams:
		return kindQueryParams, nil
	case typeFormParams:
		return kindFormParams, nil
	case typeEntity:
		return kindEntity, nil
	case typeHeaderParams:
		return kindHeaderParams, nil
	default:
		return 0, fmt.Errorf("topper: unsupported resource method parameter type %s", t)
	}
}

// verbMethod is a single bound, classified resource method.
type verbMethod struct {
	fn    reflect.Value // bound to the receiver; Call takes only declared params
	kinds []paramKind
}

// boundResource is everything the matcher's terminal trie node needs to
// invoke a registered Resource: the resource itself (for enumeration and
// identity) and up to four bound, classified verb methods. This is the Go
// analogue of original_source/include/detail/server-impl.h's Methods
// struct built by bindMethods<R>.
type boundResource struct {
	resource Resource
	methods  [4]*verbMethod // indexed by verb; nil means "not declared" (405)
}

// bindResource introspects r's concrete type for Get/Put/Post/Delete
// methods and classifies each one's declared parameter signature. It
// returns an error if a declared method has a parameter type the dispatcher
// does not recognise, or if it does not return exactly one Response.
func bindResource(r Resource) (*boundResource, error) {
	bound := &boundResource{resource: r}
	rv := reflect.ValueOf(r)
	rt := rv.Type()

	for i, name := range verbNames {
		m, ok := rt.MethodByName(name)
		if !ok {
			continue
		}
		if m.Type.NumOut() != 1 || m.Type.Out(0) != typeResponse {
			return nil, fmt.Errorf("topper: %s.%s must return exactly one Response", rt, name)
		}

		// m.Type includes the receiver as parameter 0 for a method obtained
		// via MethodByName on the type; rv.MethodByName gives us the bound
		// value directly, whose Type excludes the receiver.
		bv := rv.MethodByName(name)
		var kinds []paramKind
		for p := 0; p < bv.Type().NumIn(); p++ {
			kind, err := classifyParam(bv.Type().In(p))
			if err != nil {
				return nil, fmt.Errorf("topper: %s.%s: %w", rt, name, err)
			}
			kinds = append(kinds, kind)
		}
		bound.methods[i] = &verbMethod{fn: bv, kinds: kinds}
	}

	return bound, nil
}
