// Package client talks to the users HTTP API on behalf of the CLI.
//
// HTTPClient implements Client over net/http. Transport failures surface as
// ErrUnavailable, a 401 as ErrUnauthorized, and any other non-2xx answer as
// an *APIError carrying the server's "detail" message. Match them with
// errors.Is / errors.As.
package client
