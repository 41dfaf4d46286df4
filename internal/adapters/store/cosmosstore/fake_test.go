package cosmosstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
)

// fakeContainer is an in-memory container that answers with the same
// status codes the service returns.
type fakeContainer struct {
	mu      sync.Mutex
	items   map[string][]byte
	etags   map[string]int
	readErr error

	// beforeReplace, when set, runs between the read and the replace of
	// an update.
	beforeReplace func()
	lastQuery     string

	// leadingEmptyPages is the number of empty pages a query returns
	// before its first item, as cross-partition queries may.
	leadingEmptyPages int
	// pagesServed counts pages fetched across all queries.
	pagesServed int
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{
		items: make(map[string][]byte),
		etags: make(map[string]int),
	}
}

func statusError(code int) error {
	req := httptest.NewRequest(http.MethodGet, "https://cosmos.test/dbs/db/colls/todos", nil)
	return runtime.NewResponseError(&http.Response{
		StatusCode: code,
		Status:     http.StatusText(code),
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(fmt.Sprintf(`{"code":%q}`, http.StatusText(code)))),
		Request:    req,
	})
}

func (f *fakeContainer) etag(id string) azcore.ETag {
	return azcore.ETag(fmt.Sprintf("\"%d\"", f.etags[id]))
}

func (f *fakeContainer) CreateItem(_ context.Context, _ azcosmos.PartitionKey, item []byte, _ *azcosmos.ItemOptions) (azcosmos.ItemResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var doc struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(item, &doc); err != nil {
		return azcosmos.ItemResponse{}, statusError(http.StatusBadRequest)
	}
	if _, ok := f.items[doc.ID]; ok {
		return azcosmos.ItemResponse{}, statusError(http.StatusConflict)
	}
	f.items[doc.ID] = item
	f.etags[doc.ID]++
	return azcosmos.ItemResponse{}, nil
}

func (f *fakeContainer) ReadItem(_ context.Context, _ azcosmos.PartitionKey, id string, _ *azcosmos.ItemOptions) (azcosmos.ItemResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return azcosmos.ItemResponse{}, f.readErr
	}
	item, ok := f.items[id]
	if !ok {
		return azcosmos.ItemResponse{}, statusError(http.StatusNotFound)
	}
	resp := azcosmos.ItemResponse{Value: item}
	resp.ETag = f.etag(id)
	return resp, nil
}

func (f *fakeContainer) ReplaceItem(_ context.Context, _ azcosmos.PartitionKey, id string, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error) {
	if f.beforeReplace != nil {
		f.beforeReplace()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[id]; !ok {
		return azcosmos.ItemResponse{}, statusError(http.StatusNotFound)
	}
	if o != nil && o.IfMatchEtag != nil && *o.IfMatchEtag != f.etag(id) {
		return azcosmos.ItemResponse{}, statusError(http.StatusPreconditionFailed)
	}
	f.items[id] = item
	f.etags[id]++
	return azcosmos.ItemResponse{}, nil
}

func (f *fakeContainer) DeleteItem(_ context.Context, _ azcosmos.PartitionKey, id string, _ *azcosmos.ItemOptions) (azcosmos.ItemResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[id]; !ok {
		return azcosmos.ItemResponse{}, statusError(http.StatusNotFound)
	}
	delete(f.items, id)
	delete(f.etags, id)
	return azcosmos.ItemResponse{}, nil
}

// NewQueryItemsPager supports the two queries the store issues and splits
// results into pages of PageSizeHint items.
func (f *fakeContainer) NewQueryItemsPager(query string, _ azcosmos.PartitionKey, o *azcosmos.QueryOptions) *runtime.Pager[azcosmos.QueryItemsResponse] {
	f.mu.Lock()
	f.lastQuery = query
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var want *bool
	for _, p := range o.QueryParameters {
		if p.Name == paramIsComplete {
			v, _ := p.Value.(bool)
			want = &v
		}
	}

	var matched [][]byte
	for _, id := range ids {
		item := f.items[id]
		if want != nil {
			var doc struct {
				IsComplete bool `json:"is_complete"`
			}
			_ = json.Unmarshal(item, &doc)
			if doc.IsComplete != *want {
				continue
			}
		}
		matched = append(matched, item)
	}
	emptyLeft := f.leadingEmptyPages
	f.mu.Unlock()

	size := len(matched)
	if o.PageSizeHint > 0 {
		size = int(o.PageSizeHint)
	}
	offset := 0

	return runtime.NewPager(runtime.PagingHandler[azcosmos.QueryItemsResponse]{
		More: func(azcosmos.QueryItemsResponse) bool {
			return emptyLeft > 0 || offset < len(matched)
		},
		Fetcher: func(context.Context, *azcosmos.QueryItemsResponse) (azcosmos.QueryItemsResponse, error) {
			f.mu.Lock()
			f.pagesServed++
			f.mu.Unlock()

			if emptyLeft > 0 {
				emptyLeft--
				return azcosmos.QueryItemsResponse{}, nil
			}
			end := min(offset+size, len(matched))
			page := azcosmos.QueryItemsResponse{Items: matched[offset:end]}
			offset = end
			return page, nil
		},
	})
}

func (f *fakeContainer) Read(context.Context, *azcosmos.ReadContainerOptions) (azcosmos.ContainerResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return azcosmos.ContainerResponse{}, f.readErr
	}
	return azcosmos.ContainerResponse{}, nil
}
