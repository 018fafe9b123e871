package event

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	AppendFunc           func(ctx context.Context, e domain.SecurityEvent) (domain.SecurityEvent, error)
	ListInWindowFunc     func(ctx context.Context, start, end time.Time) ([]domain.SecurityEvent, error)
	ListByAccountFunc    func(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.SecurityEvent, error)
	ListFunc             func(ctx context.Context, f domain.EventFilter) ([]domain.SecurityEvent, error)
	CountByKindSinceFunc func(ctx context.Context, accountID uuid.UUID, kind domain.EventKind, since time.Time) (int, error)

	calls struct {
		Append []struct {
			E domain.SecurityEvent
		}
		ListInWindow []struct {
			Start time.Time
			End   time.Time
		}
		ListByAccount []struct {
			AccountID uuid.UUID
			Limit     int
		}
		List []struct {
			F domain.EventFilter
		}
		CountByKindSince []struct {
			AccountID uuid.UUID
			Kind      domain.EventKind
			Since     time.Time
		}
	}
	lockAppend           sync.RWMutex
	lockListInWindow     sync.RWMutex
	lockListByAccount    sync.RWMutex
	lockList             sync.RWMutex
	lockCountByKindSince sync.RWMutex
}

func (mock *eventRepoMock) Append(ctx context.Context, e domain.SecurityEvent) (domain.SecurityEvent, error) {
	if mock.AppendFunc == nil {
		panic("eventRepoMock.AppendFunc: method is nil but eventRepo.Append was just called")
	}
	callInfo := struct {
		E domain.SecurityEvent
	}{E: e}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, e)
}

func (mock *eventRepoMock) AppendCalls() []struct {
	E domain.SecurityEvent
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *eventRepoMock) ListInWindow(ctx context.Context, start, end time.Time) ([]domain.SecurityEvent, error) {
	if mock.ListInWindowFunc == nil {
		panic("eventRepoMock.ListInWindowFunc: method is nil but eventRepo.ListInWindow was just called")
	}
	callInfo := struct {
		Start time.Time
		End   time.Time
	}{Start: start, End: end}
	mock.lockListInWindow.Lock()
	mock.calls.ListInWindow = append(mock.calls.ListInWindow, callInfo)
	mock.lockListInWindow.Unlock()
	return mock.ListInWindowFunc(ctx, start, end)
}

func (mock *eventRepoMock) ListInWindowCalls() []struct {
	Start time.Time
	End   time.Time
} {
	mock.lockListInWindow.RLock()
	calls := mock.calls.ListInWindow
	mock.lockListInWindow.RUnlock()
	return calls
}

func (mock *eventRepoMock) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.SecurityEvent, error) {
	if mock.ListByAccountFunc == nil {
		panic("eventRepoMock.ListByAccountFunc: method is nil but eventRepo.ListByAccount was just called")
	}
	callInfo := struct {
		AccountID uuid.UUID
		Limit     int
	}{AccountID: accountID, Limit: limit}
	mock.lockListByAccount.Lock()
	mock.calls.ListByAccount = append(mock.calls.ListByAccount, callInfo)
	mock.lockListByAccount.Unlock()
	return mock.ListByAccountFunc(ctx, accountID, limit)
}

func (mock *eventRepoMock) ListByAccountCalls() []struct {
	AccountID uuid.UUID
	Limit     int
} {
	mock.lockListByAccount.RLock()
	calls := mock.calls.ListByAccount
	mock.lockListByAccount.RUnlock()
	return calls
}

func (mock *eventRepoMock) List(ctx context.Context, f domain.EventFilter) ([]domain.SecurityEvent, error) {
	if mock.ListFunc == nil {
		panic("eventRepoMock.ListFunc: method is nil but eventRepo.List was just called")
	}
	callInfo := struct {
		F domain.EventFilter
	}{F: f}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *eventRepoMock) ListCalls() []struct {
	F domain.EventFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *eventRepoMock) CountByKindSince(ctx context.Context, accountID uuid.UUID, kind domain.EventKind, since time.Time) (int, error) {
	if mock.CountByKindSinceFunc == nil {
		panic("eventRepoMock.CountByKindSinceFunc: method is nil but eventRepo.CountByKindSince was just called")
	}
	callInfo := struct {
		AccountID uuid.UUID
		Kind      domain.EventKind
		Since     time.Time
	}{AccountID: accountID, Kind: kind, Since: since}
	mock.lockCountByKindSince.Lock()
	mock.calls.CountByKindSince = append(mock.calls.CountByKindSince, callInfo)
	mock.lockCountByKindSince.Unlock()
	return mock.CountByKindSinceFunc(ctx, accountID, kind, since)
}

func (mock *eventRepoMock) CountByKindSinceCalls() []struct {
	AccountID uuid.UUID
	Kind      domain.EventKind
	Since     time.Time
} {
	mock.lockCountByKindSince.RLock()
	calls := mock.calls.CountByKindSince
	mock.lockCountByKindSince.RUnlock()
	return calls
}
