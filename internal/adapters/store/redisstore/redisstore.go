// Package redisstore implements ports.TodoRepository on Redis. Each todo is
// a hash at <prefix><id> holding the record fields as strings.
//
// List pages in SCAN order: a capped page holds the first matching keys the
// cursor visits, sorted by due date. It is not the earliest-due page of the
// whole key space, unlike the memory store.
package redisstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/todo-service/internal/adapters/store/record"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

const scanCount = 100

// Compile-time interface checks.
var (
	_ ports.TodoRepository = (*Store)(nil)
	_ ports.HealthChecker  = (*Store)(nil)
)

// Store is a TodoRepository backed by a Redis client.
type Store struct {
	rdb      *redis.Client
	prefix   string
	pageSize int

	// beforeExec, when set, runs after the WATCHed read and before EXEC.
	beforeExec func(ctx context.Context, key string)
}

// New returns a Store using rdb. Keys are namespaced by prefix and List
// returns at most pageSize items; a non-positive pageSize disables the cap.
func New(rdb *redis.Client, prefix string, pageSize int) *Store {
	return &Store{rdb: rdb, prefix: prefix, pageSize: pageSize}
}

// Name identifies the store in health reports.
func (s *Store) Name() string {
	return "store-redis"
}

// HealthCheck pings the server.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Create writes a new hash for t, refusing to overwrite an existing key.
func (s *Store) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	key := s.key(t.ID)
	r := record.FromTodo(t)

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ports.ErrRecordExists
		}
		s.hookBeforeExec(ctx, key)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, toHash(r))
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		err = ports.ErrRecordExists
	}
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", t.ID, err)
	}
	return record.ToTodo(r)
}

// Get reads the hash stored for id.
func (s *Store) Get(ctx context.Context, id string) (*todo.Todo, error) {
	r, err := s.read(ctx, s.rdb, s.key(id))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return record.ToTodo(r)
}

// List scans the key space under the prefix and returns up to one page of
// matching todos ordered by due date and then ID. The page is cut in SCAN
// order before sorting, so with more matches than pageSize it is not the
// globally earliest set.
func (s *Store) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	out := make([]todo.Todo, 0)

	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		if s.pageSize > 0 && len(out) >= s.pageSize {
			break
		}
		r, err := s.read(ctx, s.rdb, iter.Val())
		if errors.Is(err, ports.ErrRecordNotFound) {
			// Deleted between SCAN and HGETALL.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		t, err := record.ToTodo(r)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", iter.Val(), err)
		}
		if filter.Matches(t) {
			out = append(out, *t)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	slices.SortFunc(out, func(a, b todo.Todo) int {
		if c := todo.Compare(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Update overwrites the mutable fields of the hash stored for id. The read
// and write run under WATCH so a concurrent writer aborts this one.
func (s *Store) Update(ctx context.Context, id string, t *todo.Todo) (*todo.Todo, error) {
	key := s.key(id)
	var updated record.Record

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		existing, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}
		incoming := record.FromTodo(t)
		existing[record.FieldDescription] = incoming[record.FieldDescription]
		existing[record.FieldIsComplete] = incoming[record.FieldIsComplete]
		existing[record.FieldDue] = incoming[record.FieldDue]

		s.hookBeforeExec(ctx, key)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, toHash(existing))
			return nil
		})
		if err != nil {
			return err
		}
		updated = existing
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		err = ports.ErrConcurrentUpdate
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}
	return record.ToTodo(updated)
}

// Delete removes the hash stored for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ports.ErrRecordNotFound)
	}
	return nil
}

func (s *Store) hookBeforeExec(ctx context.Context, key string) {
	if s.beforeExec != nil {
		s.beforeExec(ctx, key)
	}
}

// hashReader is satisfied by both *redis.Client and *redis.Tx.
type hashReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// read loads the hash at key.
func (s *Store) read(ctx context.Context, c hashReader, key string) (record.Record, error) {
	h, err := c.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, ports.ErrRecordNotFound
	}
	return fromHash(h)
}

func toHash(r record.Record) map[string]any {
	h := make(map[string]any, len(r))
	for k, v := range r {
		switch val := v.(type) {
		case bool:
			h[k] = strconv.FormatBool(val)
		default:
			h[k] = fmt.Sprint(val)
		}
	}
	return h
}

// fromHash restores typed values from a string hash. Keys stay absent when
// missing so record.ToTodo reports them.
func fromHash(h map[string]string) (record.Record, error) {
	r := make(record.Record, len(h))
	for k, v := range h {
		r[k] = v
	}
	if raw, ok := h[record.FieldIsComplete]; ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ports.ErrMalformedRecord, record.FieldIsComplete, raw, err)
		}
		r[record.FieldIsComplete] = b
	}
	return r, nil
}
