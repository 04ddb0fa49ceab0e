package cron

import (
	"context"
	"testing"
	"time"
)

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: make(map[string]string)}
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "txr:lock:cron", time.Hour)
	if err != nil {
		t.Fatalf("building lock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected to acquire lock, got ok=%v err=%v", ok, err)
	}

	second, err := NewRedisLock(store, "txr:lock:cron", time.Hour)
	if err != nil {
		t.Fatalf("building second lock: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("second acquire must fail while held")
	}

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	ok, err = second.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected to acquire after release, got ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseRespectsOwner(t *testing.T) {
	store := newFakeRedisStore()
	first, _ := NewRedisLock(store, "txr:lock:cron", time.Hour)
	second, _ := NewRedisLock(store, "txr:lock:cron", time.Hour)

	if ok, _ := first.Acquire(context.Background()); !ok {
		t.Fatal("first acquire failed")
	}

	// second never acquired; releasing must not drop first's lock
	if err := second.Release(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, held := store.values["txr:lock:cron"]; !held {
		t.Fatal("lock was dropped by a non-owner")
	}
}
