package topper

// The resources below mirror original_source/example/hello_server.cc's
// five demo handlers, transcribed into Go's capability-set Resource model:
// each declares its path via Path() and implements whichever of
// Get/Put/Post/Delete it needs, with parameters classified by resource.go
// at registration time.

// HelloResource answers a bare GET at "/".
type HelloResource struct{}

func (HelloResource) Path() string { return "/" }

func (HelloResource) Get() Response {
	return NewResponse(StatusOK, MediaText, "Hello, World\n")
}

// HelloParamResource answers GET "/{user}".
type HelloParamResource struct{}

func (HelloParamResource) Path() string { return "/{user}" }

func (HelloParamResource) Get(user StringParam) Response {
	return NewResponse(StatusOK, MediaText, "Hello, "+user.Value()+"\n")
}

// HelloDoubleParamResource answers GET and PUT "/{user}/{message}".
type HelloDoubleParamResource struct{}

func (HelloDoubleParamResource) Path() string { return "/{user}/{message}" }

func (HelloDoubleParamResource) Get(user, message StringParam) Response {
	return NewResponse(StatusOK, MediaText,
		"Hello, "+user.Value()+", "+message.Value()+"\n")
}

func (HelloDoubleParamResource) Put(user, message StringParam, entity Entity) Response {
	return NewResponse(StatusOK, MediaText,
		"PUT Hello, "+user.Value()+", "+message.Value()+": "+entity.AsString()+"\n")
}

// HelloQueryParamResource answers GET "/{user}/details/get", echoing the
// "query" query-string parameter.
type HelloQueryParamResource struct{}

func (HelloQueryParamResource) Path() string { return "/{user}/details/get" }

func (HelloQueryParamResource) Get(user StringParam, params QueryParams) Response {
	var querystr string
	if vals := params.Get("query"); len(vals) > 0 {
		querystr = vals[0]
	}
	return NewResponse(StatusOK, MediaText,
		"Hello, "+user.Value()+", query: "+querystr+"\n")
}

// HelloPostParamResource answers POST "/{user}/details/post", echoing the
// "query" form parameter.
type HelloPostParamResource struct{}

func (HelloPostParamResource) Path() string { return "/{user}/details/post" }

func (HelloPostParamResource) Post(user StringParam, params FormParams) Response {
	var querystr string
	if vals := params.Get("query"); len(vals) > 0 {
		querystr = vals[0]
	}
	return NewResponse(StatusOK, MediaText,
		"Hello, "+user.Value()+", post[query]: "+querystr+"\n")
}
