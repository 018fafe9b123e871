package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// securityEventsMock is a hand-written mock implementation of securityEvents.
type securityEventsMock struct {
	EventsInWindowFunc  func(ctx context.Context, start, end time.Time) ([]domain.SecurityEvent, error)
	EventsForAccountFunc func(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.SecurityEvent, error)

	calls struct {
		EventsInWindow []struct {
			Ctx   context.Context
			Start time.Time
			End   time.Time
		}
		EventsForAccount []struct {
			Ctx       context.Context
			AccountID uuid.UUID
			Limit     int
		}
	}
	lock sync.RWMutex
}

func (m *securityEventsMock) EventsInWindow(ctx context.Context, start, end time.Time) ([]domain.SecurityEvent, error) {
	if m.EventsInWindowFunc == nil {
		panic("securityEventsMock.EventsInWindowFunc: method is nil but securityEvents.EventsInWindow was called")
	}
	m.lock.Lock()
	m.calls.EventsInWindow = append(m.calls.EventsInWindow, struct {
		Ctx   context.Context
		Start time.Time
		End   time.Time
	}{ctx, start, end})
	m.lock.Unlock()
	return m.EventsInWindowFunc(ctx, start, end)
}

func (m *securityEventsMock) EventsInWindowCalls() []struct {
	Ctx   context.Context
	Start time.Time
	End   time.Time
} {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.EventsInWindow
}

func (m *securityEventsMock) EventsForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.SecurityEvent, error) {
	if m.EventsForAccountFunc == nil {
		panic("securityEventsMock.EventsForAccountFunc: method is nil but securityEvents.EventsForAccount was called")
	}
	m.lock.Lock()
	m.calls.EventsForAccount = append(m.calls.EventsForAccount, struct {
		Ctx       context.Context
		AccountID uuid.UUID
		Limit     int
	}{ctx, accountID, limit})
	m.lock.Unlock()
	return m.EventsForAccountFunc(ctx, accountID, limit)
}

func (m *securityEventsMock) EventsForAccountCalls() []struct {
	Ctx       context.Context
	AccountID uuid.UUID
	Limit     int
} {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.EventsForAccount
}

// accountRepoMock is a hand-written mock implementation of accountRepo.
type accountRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListFunc          func(ctx context.Context) ([]domain.Account, error)
	CountByActiveFunc func(ctx context.Context, active bool) (int, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		List []struct {
			Ctx context.Context
		}
		CountByActive []struct {
			Ctx    context.Context
			Active bool
		}
	}
	lock sync.RWMutex
}

func (m *accountRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFunc == nil {
		panic("accountRepoMock.GetByIDFunc: method is nil but accountRepo.GetByID was called")
	}
	m.lock.Lock()
	m.calls.GetByID = append(m.calls.GetByID, struct {
		Ctx context.Context
		ID  uuid.UUID
	}{ctx, id})
	m.lock.Unlock()
	return m.GetByIDFunc(ctx, id)
}

func (m *accountRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.GetByID
}

func (m *accountRepoMock) List(ctx context.Context) ([]domain.Account, error) {
	if m.ListFunc == nil {
		panic("accountRepoMock.ListFunc: method is nil but accountRepo.List was called")
	}
	m.lock.Lock()
	m.calls.List = append(m.calls.List, struct{ Ctx context.Context }{ctx})
	m.lock.Unlock()
	return m.ListFunc(ctx)
}

func (m *accountRepoMock) CountByActive(ctx context.Context, active bool) (int, error) {
	if m.CountByActiveFunc == nil {
		panic("accountRepoMock.CountByActiveFunc: method is nil but accountRepo.CountByActive was called")
	}
	m.lock.Lock()
	m.calls.CountByActive = append(m.calls.CountByActive, struct {
		Ctx    context.Context
		Active bool
	}{ctx, active})
	m.lock.Unlock()
	return m.CountByActiveFunc(ctx, active)
}

// actionLedgerMock is a hand-written mock implementation of actionLedger.
type actionLedgerMock struct {
	RecordFunc              func(ctx context.Context, adminID uuid.UUID, kind domain.ActionKind, affectedID *uuid.UUID, description string) (domain.AdminAction, error)
	CountByKindInWindowFunc func(ctx context.Context, kind domain.ActionKind, start, end time.Time) (int, error)

	calls struct {
		Record []struct {
			Ctx         context.Context
			AdminID     uuid.UUID
			Kind        domain.ActionKind
			AffectedID  *uuid.UUID
			Description string
		}
		CountByKindInWindow []struct {
			Ctx   context.Context
			Kind  domain.ActionKind
			Start time.Time
			End   time.Time
		}
	}
	lock sync.RWMutex
}

func (m *actionLedgerMock) Record(ctx context.Context, adminID uuid.UUID, kind domain.ActionKind, affectedID *uuid.UUID, description string) (domain.AdminAction, error) {
	if m.RecordFunc == nil {
		panic("actionLedgerMock.RecordFunc: method is nil but actionLedger.Record was called")
	}
	m.lock.Lock()
	m.calls.Record = append(m.calls.Record, struct {
		Ctx         context.Context
		AdminID     uuid.UUID
		Kind        domain.ActionKind
		AffectedID  *uuid.UUID
		Description string
	}{ctx, adminID, kind, affectedID, description})
	m.lock.Unlock()
	return m.RecordFunc(ctx, adminID, kind, affectedID, description)
}

func (m *actionLedgerMock) RecordCalls() []struct {
	Ctx         context.Context
	AdminID     uuid.UUID
	Kind        domain.ActionKind
	AffectedID  *uuid.UUID
	Description string
} {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.Record
}

func (m *actionLedgerMock) CountByKindInWindow(ctx context.Context, kind domain.ActionKind, start, end time.Time) (int, error) {
	if m.CountByKindInWindowFunc == nil {
		panic("actionLedgerMock.CountByKindInWindowFunc: method is nil but actionLedger.CountByKindInWindow was called")
	}
	m.lock.Lock()
	m.calls.CountByKindInWindow = append(m.calls.CountByKindInWindow, struct {
		Ctx   context.Context
		Kind  domain.ActionKind
		Start time.Time
		End   time.Time
	}{ctx, kind, start, end})
	m.lock.Unlock()
	return m.CountByKindInWindowFunc(ctx, kind, start, end)
}

func (m *actionLedgerMock) CountByKindInWindowCalls() []struct {
	Ctx   context.Context
	Kind  domain.ActionKind
	Start time.Time
	End   time.Time
} {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.CountByKindInWindow
}

// mailerMock is a hand-written mock implementation of mailer.
type mailerMock struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody string) error

	calls struct {
		Send []struct {
			Ctx      context.Context
			To       string
			Subject  string
			HTMLBody string
		}
	}
	lock sync.RWMutex
}

func (m *mailerMock) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendFunc == nil {
		panic("mailerMock.SendFunc: method is nil but mailer.Send was called")
	}
	m.lock.Lock()
	m.calls.Send = append(m.calls.Send, struct {
		Ctx      context.Context
		To       string
		Subject  string
		HTMLBody string
	}{ctx, to, subject, htmlBody})
	m.lock.Unlock()
	return m.SendFunc(ctx, to, subject, htmlBody)
}

func (m *mailerMock) SendCalls() []struct {
	Ctx      context.Context
	To       string
	Subject  string
	HTMLBody string
} {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.Send
}
