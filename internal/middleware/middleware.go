// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request logging, CORS, tracing, metrics,
// rate limiting, panic recovery and the final error response.
package middleware
