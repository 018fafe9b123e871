package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

var _ accountRepo = &accountRepoMock{}

type accountRepoMock struct {
	GetByUsernameFunc     func(ctx context.Context, username string) (*domain.Account, error)
	SetActiveFunc         func(ctx context.Context, id uuid.UUID, active bool) error
	SetRecoveryCodeFunc   func(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
	ClearRecoveryCodeFunc func(ctx context.Context, id uuid.UUID) error

	calls struct {
		GetByUsername []struct {
			Username string
		}
		SetActive []struct {
			ID     uuid.UUID
			Active bool
		}
		SetRecoveryCode []struct {
			ID        uuid.UUID
			Code      string
			ExpiresAt time.Time
		}
		ClearRecoveryCode []struct {
			ID uuid.UUID
		}
	}
	lockGetByUsername     sync.RWMutex
	lockSetActive         sync.RWMutex
	lockSetRecoveryCode   sync.RWMutex
	lockClearRecoveryCode sync.RWMutex
}

func (mock *accountRepoMock) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if mock.GetByUsernameFunc == nil {
		panic("accountRepoMock.GetByUsernameFunc: method is nil but accountRepo.GetByUsername was just called")
	}
	callInfo := struct {
		Username string
	}{Username: username}
	mock.lockGetByUsername.Lock()
	mock.calls.GetByUsername = append(mock.calls.GetByUsername, callInfo)
	mock.lockGetByUsername.Unlock()
	return mock.GetByUsernameFunc(ctx, username)
}

func (mock *accountRepoMock) GetByUsernameCalls() []struct {
	Username string
} {
	mock.lockGetByUsername.RLock()
	calls := mock.calls.GetByUsername
	mock.lockGetByUsername.RUnlock()
	return calls
}

func (mock *accountRepoMock) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if mock.SetActiveFunc == nil {
		panic("accountRepoMock.SetActiveFunc: method is nil but accountRepo.SetActive was just called")
	}
	callInfo := struct {
		ID     uuid.UUID
		Active bool
	}{ID: id, Active: active}
	mock.lockSetActive.Lock()
	mock.calls.SetActive = append(mock.calls.SetActive, callInfo)
	mock.lockSetActive.Unlock()
	return mock.SetActiveFunc(ctx, id, active)
}

func (mock *accountRepoMock) SetActiveCalls() []struct {
	ID     uuid.UUID
	Active bool
} {
	mock.lockSetActive.RLock()
	calls := mock.calls.SetActive
	mock.lockSetActive.RUnlock()
	return calls
}

func (mock *accountRepoMock) SetRecoveryCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	if mock.SetRecoveryCodeFunc == nil {
		panic("accountRepoMock.SetRecoveryCodeFunc: method is nil but accountRepo.SetRecoveryCode was just called")
	}
	callInfo := struct {
		ID        uuid.UUID
		Code      string
		ExpiresAt time.Time
	}{ID: id, Code: code, ExpiresAt: expiresAt}
	mock.lockSetRecoveryCode.Lock()
	mock.calls.SetRecoveryCode = append(mock.calls.SetRecoveryCode, callInfo)
	mock.lockSetRecoveryCode.Unlock()
	return mock.SetRecoveryCodeFunc(ctx, id, code, expiresAt)
}

func (mock *accountRepoMock) SetRecoveryCodeCalls() []struct {
	ID        uuid.UUID
	Code      string
	ExpiresAt time.Time
} {
	mock.lockSetRecoveryCode.RLock()
	calls := mock.calls.SetRecoveryCode
	mock.lockSetRecoveryCode.RUnlock()
	return calls
}

func (mock *accountRepoMock) ClearRecoveryCode(ctx context.Context, id uuid.UUID) error {
	if mock.ClearRecoveryCodeFunc == nil {
		panic("accountRepoMock.ClearRecoveryCodeFunc: method is nil but accountRepo.ClearRecoveryCode was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockClearRecoveryCode.Lock()
	mock.calls.ClearRecoveryCode = append(mock.calls.ClearRecoveryCode, callInfo)
	mock.lockClearRecoveryCode.Unlock()
	return mock.ClearRecoveryCodeFunc(ctx, id)
}

func (mock *accountRepoMock) ClearRecoveryCodeCalls() []struct {
	ID uuid.UUID
} {
	mock.lockClearRecoveryCode.RLock()
	calls := mock.calls.ClearRecoveryCode
	mock.lockClearRecoveryCode.RUnlock()
	return calls
}

// recordedEvent captures one event-log write made through the mock, in
// call order, regardless of which recorder method produced it.
type recordedEvent struct {
	Kind        domain.EventKind
	AccountID   *uuid.UUID
	IP          string
	UserAgent   string
	Description string
	Attempts    int
}

var _ securityEvents = &securityEventsMock{}

// securityEventsMock records every event write in order. CountFunc
// drives CountByKindSince; all recorder methods succeed unless FailWith
// is set.
type securityEventsMock struct {
	CountFunc func(ctx context.Context, accountID uuid.UUID, kind domain.EventKind, since time.Time) (int, error)
	FailWith  error

	mu     sync.Mutex
	events []recordedEvent

	countCalls []struct {
		AccountID uuid.UUID
		Kind      domain.EventKind
		Since     time.Time
	}
}

func (mock *securityEventsMock) record(kind domain.EventKind, accountID *uuid.UUID, ip, ua, desc string, attempts int) (domain.SecurityEvent, error) {
	if mock.FailWith != nil {
		return domain.SecurityEvent{}, mock.FailWith
	}
	mock.mu.Lock()
	mock.events = append(mock.events, recordedEvent{
		Kind: kind, AccountID: accountID, IP: ip, UserAgent: ua, Description: desc, Attempts: attempts,
	})
	mock.mu.Unlock()
	return domain.SecurityEvent{ID: uuid.New(), Kind: kind, AccountID: accountID, IP: ip, UserAgent: ua, Description: desc, OccurredAt: time.Now()}, nil
}

func (mock *securityEventsMock) Record(ctx context.Context, kind domain.EventKind, accountID *uuid.UUID, ip, ua, desc string) (domain.SecurityEvent, error) {
	return mock.record(kind, accountID, ip, ua, desc, 0)
}

func (mock *securityEventsMock) RecordSuccessfulLogin(ctx context.Context, accountID uuid.UUID, ip, ua string) (domain.SecurityEvent, error) {
	return mock.record(domain.EventLoginSuccessful, &accountID, ip, ua, "Successful login", 0)
}

func (mock *securityEventsMock) RecordFailedLogin(ctx context.Context, accountID uuid.UUID, ip, ua string) (domain.SecurityEvent, error) {
	return mock.record(domain.EventLoginFailed, &accountID, ip, ua, "Failed login attempt", 0)
}

func (mock *securityEventsMock) RecordMultipleAttempts(ctx context.Context, accountID uuid.UUID, ip, ua string, attempts int) (domain.SecurityEvent, error) {
	return mock.record(domain.EventMultipleFailedAttempts, &accountID, ip, ua, "Multiple failed attempts", attempts)
}

func (mock *securityEventsMock) RecordBlocked(ctx context.Context, accountID uuid.UUID, ip, ua string) (domain.SecurityEvent, error) {
	return mock.record(domain.EventUserBlocked, &accountID, ip, ua, "Account blocked", 0)
}

func (mock *securityEventsMock) RecordPasswordReset(ctx context.Context, accountID uuid.UUID, ip, ua string) (domain.SecurityEvent, error) {
	return mock.record(domain.EventResetPassword, &accountID, ip, ua, "Password recovery requested", 0)
}

func (mock *securityEventsMock) RecordVerificationFailed(ctx context.Context, accountID uuid.UUID, ip, ua string) (domain.SecurityEvent, error) {
	return mock.record(domain.EventCodeVerificationFailed, &accountID, ip, ua, "Recovery code used incorrectly", 0)
}

func (mock *securityEventsMock) RecordVerificationSucceeded(ctx context.Context, accountID uuid.UUID, ip, ua string) (domain.SecurityEvent, error) {
	return mock.record(domain.EventCodeVerificationSuccessful, &accountID, ip, ua, "Recovery code verified", 0)
}

func (mock *securityEventsMock) CountByKindSince(ctx context.Context, accountID uuid.UUID, kind domain.EventKind, since time.Time) (int, error) {
	mock.mu.Lock()
	mock.countCalls = append(mock.countCalls, struct {
		AccountID uuid.UUID
		Kind      domain.EventKind
		Since     time.Time
	}{AccountID: accountID, Kind: kind, Since: since})
	mock.mu.Unlock()
	if mock.CountFunc == nil {
		panic("securityEventsMock.CountFunc: method is nil but securityEvents.CountByKindSince was just called")
	}
	return mock.CountFunc(ctx, accountID, kind, since)
}

// Events returns the recorded writes in call order.
func (mock *securityEventsMock) Events() []recordedEvent {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]recordedEvent(nil), mock.events...)
}

// Kinds returns just the kinds of the recorded writes, in call order.
func (mock *securityEventsMock) Kinds() []domain.EventKind {
	kinds := []domain.EventKind{}
	for _, e := range mock.Events() {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (mock *securityEventsMock) CountCalls() []struct {
	AccountID uuid.UUID
	Kind      domain.EventKind
	Since     time.Time
} {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.countCalls
}

var _ passwordVerifier = &passwordVerifierMock{}

type passwordVerifierMock struct {
	VerifyFunc func(plain, hash string) bool
}

func (mock *passwordVerifierMock) Verify(plain, hash string) bool {
	if mock.VerifyFunc == nil {
		panic("passwordVerifierMock.VerifyFunc: method is nil but passwordVerifier.Verify was just called")
	}
	return mock.VerifyFunc(plain, hash)
}

var _ tokenIssuer = &tokenIssuerMock{}

type tokenIssuerMock struct {
	IssueFunc func(accountID uuid.UUID, username, role string) (string, error)

	calls struct {
		Issue []struct {
			AccountID uuid.UUID
			Username  string
			Role      string
		}
	}
	lockIssue sync.RWMutex
}

func (mock *tokenIssuerMock) Issue(accountID uuid.UUID, username, role string) (string, error) {
	if mock.IssueFunc == nil {
		panic("tokenIssuerMock.IssueFunc: method is nil but tokenIssuer.Issue was just called")
	}
	callInfo := struct {
		AccountID uuid.UUID
		Username  string
		Role      string
	}{AccountID: accountID, Username: username, Role: role}
	mock.lockIssue.Lock()
	mock.calls.Issue = append(mock.calls.Issue, callInfo)
	mock.lockIssue.Unlock()
	return mock.IssueFunc(accountID, username, role)
}

func (mock *tokenIssuerMock) IssueCalls() []struct {
	AccountID uuid.UUID
	Username  string
	Role      string
} {
	mock.lockIssue.RLock()
	calls := mock.calls.Issue
	mock.lockIssue.RUnlock()
	return calls
}

var _ mailer = &mailerMock{}

type mailerMock struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody string) error

	calls struct {
		Send []struct {
			To       string
			Subject  string
			HTMLBody string
		}
	}
	lockSend sync.RWMutex
}

func (mock *mailerMock) Send(ctx context.Context, to, subject, htmlBody string) error {
	if mock.SendFunc == nil {
		panic("mailerMock.SendFunc: method is nil but mailer.Send was just called")
	}
	callInfo := struct {
		To       string
		Subject  string
		HTMLBody string
	}{To: to, Subject: subject, HTMLBody: htmlBody}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, to, subject, htmlBody)
}

func (mock *mailerMock) SendCalls() []struct {
	To       string
	Subject  string
	HTMLBody string
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
