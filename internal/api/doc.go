// Package api adapts HTTP requests to task service operations: routing
// targets, request decoding and validation, and the translation of
// service errors into the uniform JSON error envelope.
package api
