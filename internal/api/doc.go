// Package api provides the HTTP client for the admin REST API.
//
// # Endpoints
//
//	GET    /products
//	GET    /products/categories
//	GET    /products/{id}
//	POST   /products
//	PATCH  /products/{id}
//	DELETE /products/{id}
//	GET    /users
//	GET    /users/{id}
//	PATCH  /users/{id}
//	DELETE /users/{id}
//
// # Errors
//
// Responses with status 400 or above come back as *StatusError, which the
// state package classifies through its StatusCode method. Transport and
// decode failures are wrapped with context and carry no status.
//
// # Request IDs
//
// A request id stored in the context with requestid.With is sent in the
// X-Request-ID header.
//
// # In-process Backend
//
// WithTransport lets the client run against an http.RoundTripper instead of
// the network. The app uses this to talk to the mockapi handler:
//
//	client, err := api.NewClient("", api.WithTransport(mockapi.Transport(h)))
package api
