// Package store declares the persistence interfaces the service layer
// depends on. Keeping the interfaces here, away from any concrete
// database driver, lets the task logic stay ignorant of how and where
// tasks are actually stored.
package store
