// Package service contains the task business logic: input validation,
// sanitization, default application, and the classification of storage
// failures into the error taxonomy the HTTP layer exposes.
package service
