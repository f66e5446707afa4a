// Package mockapi simulates the admin backend in memory.
//
// Server is an http.Handler over seeded product and user records. Every
// response is delayed by a configurable latency (one second by default) and
// the delay ends early when the request context does. Created products get a
// random id in [0, 100000] that does not collide with an existing one.
//
// In ModeLists only GET /products, GET /products/categories and GET /users
// answer. Every other route is a 404, which drives the client through its
// soft-success reconciliation paths.
//
// Transport adapts any handler into an http.RoundTripper so the api client
// can run against the mock without opening a socket.
package mockapi
