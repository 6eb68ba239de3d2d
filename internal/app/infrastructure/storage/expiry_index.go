package storage

import (
	"context"
	"fmt"
)

const (
	ExpiryField     = "createdAt"
	ExpiryIndexName = "createdAt_ttl"
)

type IndexOutcome int

const (
	IndexUnchanged IndexOutcome = iota
	IndexCreated
	IndexReplaced
)

func (o IndexOutcome) String() string {
	switch o {
	case IndexUnchanged:
		return "unchanged"
	case IndexCreated:
		return "created"
	case IndexReplaced:
		return "replaced"
	}
	return "unknown"
}

// IndexSpec is the part of an index definition the reconciliation looks at.
type IndexSpec struct {
	Name               string
	Keys               []string
	ExpireAfterSeconds *int32
}

type indexManager interface {
	List(ctx context.Context) ([]IndexSpec, error)
	Drop(ctx context.Context, name string) error
	CreateExpiry(ctx context.Context, name, field string, seconds int32) error
}

// reconcileExpiryIndex leaves exactly one single-field index on field expiring after seconds.
// Indexes on the same field with another expiry, or none at all, are dropped first.
func reconcileExpiryIndex(ctx context.Context, im indexManager, field string, seconds int32) (IndexOutcome, error) {
	specs, err := im.List(ctx)
	if err != nil {
		return IndexUnchanged, fmt.Errorf("list indexes: %w", err)
	}

	kept := false
	dropped := 0
	for _, spec := range specs {
		if len(spec.Keys) != 1 || spec.Keys[0] != field {
			continue
		}

		if !kept && spec.ExpireAfterSeconds != nil && *spec.ExpireAfterSeconds == seconds {
			kept = true
			continue
		}

		if err := im.Drop(ctx, spec.Name); err != nil {
			return IndexUnchanged, fmt.Errorf("drop index %s: %w", spec.Name, err)
		}
		dropped++
	}

	if kept {
		if dropped > 0 {
			return IndexReplaced, nil
		}
		return IndexUnchanged, nil
	}

	if err := im.CreateExpiry(ctx, ExpiryIndexName, field, seconds); err != nil {
		return IndexUnchanged, fmt.Errorf("create index %s: %w", ExpiryIndexName, err)
	}

	if dropped > 0 {
		return IndexReplaced, nil
	}
	return IndexCreated, nil
}
