/*
Package session implements per-user session coordination.

A Manager serializes the events of one user (local refcounted mutexes, plus an
optional distributed lock for multiple replicas) and resolves the state a user
is in, substituting the initial state for users seen for the first time.
*/
package session
