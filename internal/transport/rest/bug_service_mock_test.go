package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

var _ bugService = &bugServiceMock{}

type bugServiceMock struct {
	CreateFunc func(ctx context.Context, d domain.BugDraft) (*domain.Bug, error)
	GetFunc    func(ctx context.Context, rawID string) (*domain.Bug, error)
	UpdateFunc func(ctx context.Context, rawID string, d domain.BugDraft) (*domain.Bug, error)
	DeleteFunc func(ctx context.Context, rawID string) error
	ListFunc   func(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			D   domain.BugDraft
		}
		Get []struct {
			Ctx   context.Context
			RawID string
		}
		Update []struct {
			Ctx   context.Context
			RawID string
			D     domain.BugDraft
		}
		Delete []struct {
			Ctx   context.Context
			RawID string
		}
		List []struct {
			Ctx context.Context
			F   domain.BugFilter
		}
	}
	lockCreate sync.RWMutex
	lockGet    sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
	lockList   sync.RWMutex
}

func (mock *bugServiceMock) Create(ctx context.Context, d domain.BugDraft) (*domain.Bug, error) {
	if mock.CreateFunc == nil {
		panic("bugServiceMock.CreateFunc: method is nil but bugService.Create was just called")
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

func (mock *bugServiceMock) CreateCalls() []struct {
	Ctx context.Context
	D   domain.BugDraft
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *bugServiceMock) Get(ctx context.Context, rawID string) (*domain.Bug, error) {
	if mock.GetFunc == nil {
		panic("bugServiceMock.GetFunc: method is nil but bugService.Get was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		RawID string
	}{Ctx: ctx, RawID: rawID}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, rawID)
}

func (mock *bugServiceMock) GetCalls() []struct {
	Ctx   context.Context
	RawID string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *bugServiceMock) Update(ctx context.Context, rawID string, d domain.BugDraft) (*domain.Bug, error) {
	if mock.UpdateFunc == nil {
		panic("bugServiceMock.UpdateFunc: method is nil but bugService.Update was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		RawID string
		D     domain.BugDraft
	}{Ctx: ctx, RawID: rawID, D: d}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, rawID, d)
}

func (mock *bugServiceMock) UpdateCalls() []struct {
	Ctx   context.Context
	RawID string
	D     domain.BugDraft
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *bugServiceMock) Delete(ctx context.Context, rawID string) error {
	if mock.DeleteFunc == nil {
		panic("bugServiceMock.DeleteFunc: method is nil but bugService.Delete was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		RawID string
	}{Ctx: ctx, RawID: rawID}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, rawID)
}

func (mock *bugServiceMock) DeleteCalls() []struct {
	Ctx   context.Context
	RawID string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *bugServiceMock) List(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error) {
	if mock.ListFunc == nil {
		panic("bugServiceMock.ListFunc: method is nil but bugService.List was just called")
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

func (mock *bugServiceMock) ListCalls() []struct {
	Ctx context.Context
	F   domain.BugFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
