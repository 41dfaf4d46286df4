// Package cosmosstore implements ports.TodoRepository on an Azure Cosmos DB
// container. Items are partitioned by their own id.
package cosmosstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/jsamuelsen11/todo-service/internal/adapters/store/record"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

const (
	selectAll       = "SELECT * FROM c"
	whereIsComplete = " WHERE c.is_complete = @is_complete"
	paramIsComplete = "@is_complete"
)

// Compile-time interface checks.
var (
	_ ports.TodoRepository = (*Store)(nil)
	_ ports.HealthChecker  = (*Store)(nil)
	_ container            = (*azcosmos.ContainerClient)(nil)
)

// container is the subset of *azcosmos.ContainerClient the store uses.
type container interface {
	CreateItem(ctx context.Context, pk azcosmos.PartitionKey, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	ReadItem(ctx context.Context, pk azcosmos.PartitionKey, itemID string, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	ReplaceItem(ctx context.Context, pk azcosmos.PartitionKey, itemID string, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	DeleteItem(ctx context.Context, pk azcosmos.PartitionKey, itemID string, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	NewQueryItemsPager(query string, pk azcosmos.PartitionKey, o *azcosmos.QueryOptions) *runtime.Pager[azcosmos.QueryItemsResponse]
	Read(ctx context.Context, o *azcosmos.ReadContainerOptions) (azcosmos.ContainerResponse, error)
}

// Config holds the connection parameters for a Cosmos container.
type Config struct {
	ConnectionString string
	Database         string
	Container        string
	PageSize         int
}

// Store is a TodoRepository backed by a Cosmos DB container.
type Store struct {
	c        container
	pageSize int
}

// New connects to the container described by cfg. No request is made until
// the first operation.
func New(cfg Config) (*Store, error) {
	client, err := azcosmos.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("creating cosmos client: %w", err)
	}
	c, err := client.NewContainer(cfg.Database, cfg.Container)
	if err != nil {
		return nil, fmt.Errorf("opening container %s/%s: %w", cfg.Database, cfg.Container, err)
	}
	return newStore(c, cfg.PageSize), nil
}

func newStore(c container, pageSize int) *Store {
	return &Store{c: c, pageSize: pageSize}
}

// Name identifies the store in health reports.
func (s *Store) Name() string {
	return "store-cosmos"
}

// HealthCheck reads the container properties.
func (s *Store) HealthCheck(ctx context.Context) error {
	_, err := s.c.Read(ctx, nil)
	return mapError(err)
}

// Create inserts a new item for t.
func (s *Store) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	r := record.FromTodo(t)
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("create %s: encoding item: %w", t.ID, err)
	}

	if _, err := s.c.CreateItem(ctx, azcosmos.NewPartitionKeyString(t.ID), body, nil); err != nil {
		return nil, fmt.Errorf("create %s: %w", t.ID, mapError(err))
	}
	return record.ToTodo(r)
}

// Get reads the item stored under id.
func (s *Store) Get(ctx context.Context, id string) (*todo.Todo, error) {
	r, _, err := s.read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return record.ToTodo(r)
}

// List runs a query across partitions and collects up to one page of
// results. Cross-partition queries may return short or empty pages while a
// continuation remains, so pages are read until the page size is reached or
// the query is exhausted.
func (s *Store) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	query := selectAll
	opts := &azcosmos.QueryOptions{}
	if s.pageSize > 0 {
		opts.PageSizeHint = int32(s.pageSize)
	}
	if filter.IsComplete != nil {
		query += whereIsComplete
		opts.QueryParameters = []azcosmos.QueryParameter{
			{Name: paramIsComplete, Value: *filter.IsComplete},
		}
	}

	out := make([]todo.Todo, 0)
	pager := s.c.NewQueryItemsPager(query, azcosmos.NewPartitionKey(), opts)
	for pager.More() && (s.pageSize <= 0 || len(out) < s.pageSize) {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list: %w", mapError(err))
		}
		for _, item := range page.Items {
			r, err := decode(item)
			if err != nil {
				return nil, fmt.Errorf("list: %w", err)
			}
			t, err := record.ToTodo(r)
			if err != nil {
				return nil, fmt.Errorf("list: %w", err)
			}
			out = append(out, *t)
		}
	}

	if s.pageSize > 0 && len(out) > s.pageSize {
		out = out[:s.pageSize]
	}
	return out, nil
}

// Update reads the item, overwrites its mutable fields and replaces it
// conditionally on the ETag observed by the read.
func (s *Store) Update(ctx context.Context, id string, t *todo.Todo) (*todo.Todo, error) {
	existing, etag, err := s.read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}

	incoming := record.FromTodo(t)
	existing[record.FieldDescription] = incoming[record.FieldDescription]
	existing[record.FieldIsComplete] = incoming[record.FieldIsComplete]
	existing[record.FieldDue] = incoming[record.FieldDue]

	body, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("update %s: encoding item: %w", id, err)
	}

	opts := &azcosmos.ItemOptions{IfMatchEtag: &etag}
	if _, err := s.c.ReplaceItem(ctx, azcosmos.NewPartitionKeyString(id), id, body, opts); err != nil {
		return nil, fmt.Errorf("update %s: %w", id, mapError(err))
	}
	return record.ToTodo(existing)
}

// Delete removes the item stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.c.DeleteItem(ctx, azcosmos.NewPartitionKeyString(id), id, nil); err != nil {
		return fmt.Errorf("delete %s: %w", id, mapError(err))
	}
	return nil
}

func (s *Store) read(ctx context.Context, id string) (record.Record, azcore.ETag, error) {
	resp, err := s.c.ReadItem(ctx, azcosmos.NewPartitionKeyString(id), id, nil)
	if err != nil {
		return nil, "", mapError(err)
	}
	r, err := decode(resp.Value)
	if err != nil {
		return nil, "", err
	}
	return r, resp.ETag, nil
}

func decode(item []byte) (record.Record, error) {
	var r record.Record
	if err := json.Unmarshal(item, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrMalformedRecord, err)
	}
	return r, nil
}

// mapError translates Cosmos status codes to storage conditions. Other
// errors are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return err
	}
	switch respErr.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ports.ErrRecordNotFound, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ports.ErrRecordExists, err)
	case http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %w", ports.ErrConcurrentUpdate, err)
	default:
		return err
	}
}
