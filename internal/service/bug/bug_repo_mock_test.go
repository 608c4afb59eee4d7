package bug

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

var _ bugRepo = &bugRepoMock{}

type bugRepoMock struct {
	CreateFunc  func(ctx context.Context, b domain.Bug) (*domain.Bug, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Bug, error)
	UpdateFunc  func(ctx context.Context, id uuid.UUID, params domain.BugUpdateParams) (*domain.Bug, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) error
	ListFunc    func(ctx context.Context, q domain.BugQuery) ([]domain.Bug, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			B   domain.Bug
		}
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		Update []struct {
			Ctx    context.Context
			ID     uuid.UUID
			Params domain.BugUpdateParams
		}
		Delete []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		List []struct {
			Ctx context.Context
			Q   domain.BugQuery
		}
	}
	lockCreate  sync.RWMutex
	lockGetByID sync.RWMutex
	lockUpdate  sync.RWMutex
	lockDelete  sync.RWMutex
	lockList    sync.RWMutex
}

func (mock *bugRepoMock) Create(ctx context.Context, b domain.Bug) (*domain.Bug, error) {
	if mock.CreateFunc == nil {
		panic("bugRepoMock.CreateFunc: method is nil but bugRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		B   domain.Bug
	}{Ctx: ctx, B: b}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, b)
}

func (mock *bugRepoMock) CreateCalls() []struct {
	Ctx context.Context
	B   domain.Bug
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *bugRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bug, error) {
	if mock.GetByIDFunc == nil {
		panic("bugRepoMock.GetByIDFunc: method is nil but bugRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *bugRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *bugRepoMock) Update(ctx context.Context, id uuid.UUID, params domain.BugUpdateParams) (*domain.Bug, error) {
	if mock.UpdateFunc == nil {
		panic("bugRepoMock.UpdateFunc: method is nil but bugRepo.Update was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		Params domain.BugUpdateParams
	}{Ctx: ctx, ID: id, Params: params}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, params)
}

func (mock *bugRepoMock) UpdateCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	Params domain.BugUpdateParams
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *bugRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("bugRepoMock.DeleteFunc: method is nil but bugRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *bugRepoMock) DeleteCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *bugRepoMock) List(ctx context.Context, q domain.BugQuery) ([]domain.Bug, error) {
	if mock.ListFunc == nil {
		panic("bugRepoMock.ListFunc: method is nil but bugRepo.List was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Q   domain.BugQuery
	}{Ctx: ctx, Q: q}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, q)
}

func (mock *bugRepoMock) ListCalls() []struct {
	Ctx context.Context
	Q   domain.BugQuery
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
