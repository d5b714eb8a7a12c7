package topper

import "reflect"

// verbIndex maps an HTTP method name to its slot in boundResource.methods.
func verbIndex(method string) (int, bool) {
	switch method {
	case "GET":
		return 0, true
	case "PUT":
		return 1, true
	case "POST":
		return 2, true
	case "DELETE":
		return 3, true
	default:
		return 0, false
	}
}

// isKnownMethod reports whether method is one of the four verbs the
// dispatcher understands. Anything else is ErrMethodUnknown, per spec.md
// section 7.
func isKnownMethod(method string) bool {
	_, ok := verbIndex(method)
	return ok
}

// Dispatch invokes the method bound to req's verb on b, constructing
// arguments by walking the method's declared parameter kinds in order and
// advancing pathIndex only for path-variable kinds, exactly as spec.md
// section 4.5 describes. An unbound verb yields NotAllowed; an integer
// path-variable parse failure yields a 500 carrying the failure text,
// mirroring the try/catch around dispatch in
// original_source/src/server_instance.h's get_response.
func Dispatch(b *boundResource, method string, req *Request) Response {
	idx, ok := verbIndex(method)
	if !ok {
		return NotAllowed()
	}
	vm := b.methods[idx]
	if vm == nil {
		return NotAllowed()
	}

	args := make([]reflect.Value, len(vm.kinds))
	pathIndex := 0
	for i, kind := range vm.kinds {
		var (
			arg reflect.Value
			err error
		)
		switch kind {
		case kindPathString:
			arg = reflect.ValueOf(ParseStringParam(req.captureAt(pathIndex)))
		case kindPathInt8:
			var p IntParam[int8]
			p, err = ParseIntParam[int8](req.captureAt(pathIndex))
			arg = reflect.ValueOf(p)
		case kindPathInt16:
			var p IntParam[int16]
			p, err = ParseIntParam[int16](req.captureAt(pathIndex))
			arg = reflect.ValueOf(p)
		case kindPathInt32:
			var p IntParam[int32]
			p, err = ParseIntParam[int32](req.captureAt(pathIndex))
			arg = reflect.ValueOf(p)
		case kindPathInt64:
			var p IntParam[int64]
			p, err = ParseIntParam[int64](req.captureAt(pathIndex))
			arg = reflect.ValueOf(p)
		case kindQueryParams:
			arg = reflect.ValueOf(req.Query)
		case kindFormParams:
			arg = reflect.ValueOf(req.Form)
		case kindEntity:
			arg = reflect.ValueOf(req.Entity())
		case kindHeaderParams:
			arg = reflect.ValueOf(req.Headers)
		}
		if err != nil {
			return InternalError(err.Error())
		}
		if kind.advancesPathIndex() {
			pathIndex++
		}
		args[i] = arg
	}

	out := vm.fn.Call(args)
	return out[0].Interface().(Response)
}
