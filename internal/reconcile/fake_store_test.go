package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/payerdesk/internal/domain/registry"
)

type call struct {
	Op       string
	DetailID int64
	PayerID  string
	Value    string
}

// fakeStore is an in-memory Store. Group assignments to unknown ids create a
// root group named after the id, as the real store does.
type fakeStore struct {
	mu       sync.Mutex
	unmapped []registry.UnmappedDetail
	payers   []registry.Payer
	groups   []registry.Group
	calls    []call
	fetches  map[string]int

	fetchErr  map[string]error
	mutateErr error
	// gate, when set, blocks each mutation until a value is received.
	gate chan struct{}
	// afterGroupsRead, when set, runs after FetchGroups has copied the forest
	// and before it returns.
	afterGroupsRead func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{fetches: map[string]int{}, fetchErr: map[string]error{}}
}

func pageOf[T any](all []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start < 0 || start >= len(all) {
		return []T{}
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	out := make([]T, end-start)
	copy(out, all[start:end])
	return out
}

func (f *fakeStore) FetchUnmapped(_ context.Context, page, perPage int) (registry.UnmappedPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches["unmapped"]++
	if err := f.fetchErr["unmapped"]; err != nil {
		return registry.UnmappedPage{}, err
	}
	return registry.UnmappedPage{Unmapped: pageOf(f.unmapped, page, perPage), Total: len(f.unmapped)}, nil
}

func (f *fakeStore) FetchPayers(_ context.Context, page, perPage int) (registry.PayerPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches["payers"]++
	if err := f.fetchErr["payers"]; err != nil {
		return registry.PayerPage{}, err
	}
	return registry.PayerPage{Payers: pageOf(f.payers, page, perPage), Total: len(f.payers)}, nil
}

func (f *fakeStore) FetchGroups(_ context.Context, page, perPage int) (registry.GroupPage, error) {
	f.mu.Lock()
	f.fetches["groups"]++
	if err := f.fetchErr["groups"]; err != nil {
		f.mu.Unlock()
		return registry.GroupPage{}, err
	}
	res := registry.GroupPage{Groups: pageOf(f.groups, page, perPage), Total: len(f.groups)}
	hook := f.afterGroupsRead
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return res, nil
}

func (f *fakeStore) wait() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeStore) MapPayer(_ context.Context, detailID int64, payerID string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Op: "map", DetailID: detailID, PayerID: payerID})
	if f.mutateErr != nil {
		return f.mutateErr
	}
	for i, d := range f.unmapped {
		if d.DetailID == detailID {
			f.unmapped = append(f.unmapped[:i], f.unmapped[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) UpdatePrettyName(_ context.Context, payerID, prettyName string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Op: "rename", PayerID: payerID, Value: prettyName})
	return f.mutateErr
}

func (f *fakeStore) UpdateGroup(_ context.Context, payerID, groupID string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Op: "group", PayerID: payerID, Value: groupID})
	if f.mutateErr != nil {
		return f.mutateErr
	}
	if groupID == "" {
		return nil
	}
	for _, g := range f.groups {
		if g.GroupID == groupID {
			return nil
		}
	}
	f.groups = append(f.groups, registry.Group{GroupID: groupID, GroupName: groupID, Children: []registry.Group{}})
	return nil
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeStore) fetchCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[name]
}

func (f *fakeStore) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

var errBoom = errors.New("boom")
