// Package api is the HTTP/JSON client of the macrobook REST API.
//
// A Client is bound to one base URL. It does not own the session token:
// callers put the token on the request context with WithToken at call time,
// and the client copies it into the Authorization header. Requests made
// with a context that carries no token are sent without the header.
//
// # Errors
//
// A response with a non-2xx status becomes a *ResponseError carrying the
// status and the optional "message" field of the JSON body. A request that
// got no response at all becomes a *TransportError. Callers match them with
// errors.Is against ErrUnauthorized and ErrUnavailable, or use Message to
// obtain the text to show to the user.
package api
