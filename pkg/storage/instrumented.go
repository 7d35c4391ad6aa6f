package storage

import (
	"context"
	"time"
)

// DurationObserver receives the latency of each object store call.
type DurationObserver interface {
	ObserveObjectStore(operation string, d time.Duration)
}

// Instrumented times every call on the wrapped store.
type Instrumented struct {
	next     ObjectStore
	observer DurationObserver
}

func NewInstrumented(next ObjectStore, observer DurationObserver) *Instrumented {
	return &Instrumented{next: next, observer: observer}
}

func (i *Instrumented) Put(ctx context.Context, bucket, objectPath string, obj Object) (string, error) {
	defer i.observe("put", time.Now())
	return i.next.Put(ctx, bucket, objectPath, obj)
}

func (i *Instrumented) Delete(ctx context.Context, bucket, objectPath string) error {
	defer i.observe("delete", time.Now())
	return i.next.Delete(ctx, bucket, objectPath)
}

func (i *Instrumented) PublicURL(bucket, objectPath string) string {
	return i.next.PublicURL(bucket, objectPath)
}

func (i *Instrumented) Ping(ctx context.Context) error {
	defer i.observe("ping", time.Now())
	return i.next.Ping(ctx)
}

func (i *Instrumented) observe(operation string, start time.Time) {
	if i.observer != nil {
		i.observer.ObserveObjectStore(operation, time.Since(start))
	}
}
