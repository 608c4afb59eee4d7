package collection

import (
	"context"
	"sync"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

var _ remote = &remoteMock{}

type remoteMock struct {
	ListFunc   func(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error)
	CreateFunc func(ctx context.Context, d domain.BugDraft) (*domain.Bug, error)
	UpdateFunc func(ctx context.Context, id string, d domain.BugDraft) (*domain.Bug, error)
	DeleteFunc func(ctx context.Context, id string) error

	calls struct {
		List []struct {
			Ctx context.Context
			F   domain.BugFilter
		}
		Create []struct {
			Ctx context.Context
			D   domain.BugDraft
		}
		Update []struct {
			Ctx context.Context
			ID  string
			D   domain.BugDraft
		}
		Delete []struct {
			Ctx context.Context
			ID  string
		}
	}
	lockList   sync.RWMutex
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *remoteMock) List(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error) {
	if mock.ListFunc == nil {
		panic("remoteMock.ListFunc: method is nil but remote.List was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.BugFilter
	}{Ctx: ctx, F: f}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *remoteMock) ListCalls() []struct {
	Ctx context.Context
	F   domain.BugFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *remoteMock) Create(ctx context.Context, d domain.BugDraft) (*domain.Bug, error) {
	if mock.CreateFunc == nil {
		panic("remoteMock.CreateFunc: method is nil but remote.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		D   domain.BugDraft
	}{Ctx: ctx, D: d}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, d)
}

func (mock *remoteMock) CreateCalls() []struct {
	Ctx context.Context
	D   domain.BugDraft
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *remoteMock) Update(ctx context.Context, id string, d domain.BugDraft) (*domain.Bug, error) {
	if mock.UpdateFunc == nil {
		panic("remoteMock.UpdateFunc: method is nil but remote.Update was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
		D   domain.BugDraft
	}{Ctx: ctx, ID: id, D: d}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, d)
}

func (mock *remoteMock) UpdateCalls() []struct {
	Ctx context.Context
	ID  string
	D   domain.BugDraft
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *remoteMock) Delete(ctx context.Context, id string) error {
	if mock.DeleteFunc == nil {
		panic("remoteMock.DeleteFunc: method is nil but remote.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *remoteMock) DeleteCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}
