// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as session authentication, CSRF
// verification, request tracing, and access logging are handled in this
// package before requests are delegated to the service layer.
//
// The transport owns the session cookie: it sets the cookie after a
// successful login, clears it on logout or when a presented session turns
// out to be dead, and loads the session for every protected request. All
// security decisions beyond cookie plumbing belong to the service layer.
package http
