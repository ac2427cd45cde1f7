// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrInvalidEvent signals a webhook payload that failed validation.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrKeyNotFound is returned by the KV store for a missing key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrPRNotFound signals a missing PR snapshot.
	ErrPRNotFound = errors.New("pr not found")
	// ErrCommentNotFound signals that the remote comment was deleted out-of-band.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrRemoteUnavailable signals a remote call that failed after retries.
	ErrRemoteUnavailable = errors.New("remote unavailable")
)
