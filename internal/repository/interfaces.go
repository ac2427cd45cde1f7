// Package repository contains repository interfaces for persistence layers.
package repository

import "context"

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// KVInterface exposes key-value operations. Get returns
// entities.ErrKeyNotFound for missing keys; Delete on a missing key is
// a no-op.
type KVInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
