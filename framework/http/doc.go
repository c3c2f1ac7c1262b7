// Package http provides request and response helpers for handlers running
// inside a request-scoped registry.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	n    := req.QueryInt("n", 1)
//	tag  := req.RouteParam("tag")
//	reg, ok := req.Registry()   // child registry for this request
//	id   := req.RequestID()     // also sent back as X-Request-ID
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(v)                           // 200 {"data": v}
//	res.Created(v)                           // 201 {"data": v}
//	res.NoContent()                          // 204
//	res.Error(http.StatusBadRequest, "bad")  // {"message": "bad"}
//	res.NotFound()                           // 404
//	res.ServerError()                        // 500
//	res.Fail(err)                            // 500, with kind and key for registry errors
package http
