package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

type versionedThing struct {
	id      string
	version int64
	name    string
}

func (v *versionedThing) GetID() string { return v.id }
func (v *versionedThing) GetRowVersion() int64 { return v.version }
func (v *versionedThing) SetRowVersion(n int64) { v.version = n }

func TestWithRetry_SucceedsAfterConflict(t *testing.T) {
	stored := &versionedThing{id: "u1", version: 1}
	calls := 0

	get := func(ctx context.Context, id string) (*versionedThing, error) {
		cp := *stored
		return &cp, nil
	}
	update := func(ctx context.Context, v *versionedThing, expected int64) (pgconn.CommandTag, error) {
		calls++
		if calls == 1 {
			stored.version++ // concurrent writer
			return pgconn.CommandTag("UPDATE 0"), nil
		}
		if expected != stored.version {
			return pgconn.CommandTag("UPDATE 0"), nil
		}
		stored.name = v.name
		stored.version++
		return pgconn.CommandTag("UPDATE 1"), nil
	}

	err := WithRetry(context.Background(), DefaultMaxRetries, "u1", get, update, func(v *versionedThing) error {
		v.name = "renamed"
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, "renamed", stored.name)
	require.Equal(t, int64(3), stored.version)
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	get := func(ctx context.Context, id string) (*versionedThing, error) {
		return &versionedThing{id: id, version: 1}, nil
	}
	calls := 0
	update := func(ctx context.Context, v *versionedThing, expected int64) (pgconn.CommandTag, error) {
		calls++
		return pgconn.CommandTag("UPDATE 0"), nil
	}

	err := WithRetry(context.Background(), DefaultMaxRetries, "u1", get, update, func(*versionedThing) error { return nil })
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
	require.Equal(t, DefaultMaxRetries, calls)
}

func TestWithRetry_MissingRowAndMutateError(t *testing.T) {
	missing := func(ctx context.Context, id string) (*versionedThing, error) { return nil, nil }
	never := func(ctx context.Context, v *versionedThing, expected int64) (pgconn.CommandTag, error) {
		t.Fatal("update must not run")
		return nil, nil
	}
	err := WithRetry(context.Background(), 3, "x", missing, never, func(*versionedThing) error { return nil })
	require.Error(t, err)

	present := func(ctx context.Context, id string) (*versionedThing, error) {
		return &versionedThing{id: id, version: 4}, nil
	}
	boom := errors.New("invalid edit")
	err = WithRetry(context.Background(), 3, "x", present, never, func(*versionedThing) error { return boom })
	require.ErrorIs(t, err, boom)
}
