package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// GenerateDailyReport computes the security summary for the current
// calendar day in the server's local timezone. It is a pure read: no
// events or actions are written.
func (s *Service) GenerateDailyReport(ctx context.Context) (*domain.DailyReport, error) {
	return s.generateFor(ctx, time.Now())
}

func (s *Service) generateFor(ctx context.Context, now time.Time) (*domain.DailyReport, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	events, err := s.events.EventsInWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("report.GenerateDailyReport: %w", err)
	}

	names := &usernameCache{service: s, cache: map[uuid.UUID]*domain.Account{}}

	rep := &domain.DailyReport{
		Date:        start,
		TotalEvents: len(events),
	}

	if err := s.collectLogins(ctx, events, names, rep); err != nil {
		return nil, err
	}
	if err := s.collectVerifications(ctx, events, names, rep); err != nil {
		return nil, err
	}
	if err := s.collectMultipleErrors(ctx, events, names, rep); err != nil {
		return nil, err
	}
	s.collectSuspiciousIPs(events, rep)

	rep.LockedAccounts, err = s.accounts.CountByActive(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("report.GenerateDailyReport count locked: %w", err)
	}
	rep.ActiveAccounts, err = s.accounts.CountByActive(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("report.GenerateDailyReport count active: %w", err)
	}

	rep.AccountsCreated, err = s.ledger.CountByKindInWindow(ctx, domain.ActionCreateUser, start, end)
	if err != nil {
		return nil, fmt.Errorf("report.GenerateDailyReport count created: %w", err)
	}

	s.log.InfoContext(ctx, "daily report generated",
		"date", start.Format("2006-01-02"),
		"total_events", rep.TotalEvents)

	return rep, nil
}

// collectLogins fills SuccessfulLogins and FailedLogins (steps 2 and 3).
// Failed logins are grouped per account in first-seen order, with a
// snapshot of the account's current active flag.
func (s *Service) collectLogins(ctx context.Context, events []domain.SecurityEvent, names *usernameCache, rep *domain.DailyReport) error {
	failed := map[uuid.UUID]*domain.FailedLoginSummary{}
	var failedOrder []uuid.UUID

	for _, e := range events {
		switch e.Kind {
		case domain.EventLoginSuccessful:
			username, err := names.resolve(ctx, e.AccountID)
			if err != nil {
				return err
			}
			rep.SuccessfulLogins = append(rep.SuccessfulLogins, domain.LoginRecord{
				Username:   username,
				IP:         e.IP,
				UserAgent:  e.UserAgent,
				OccurredAt: e.OccurredAt,
			})
		case domain.EventLoginFailed:
			if e.AccountID == nil {
				continue
			}
			id := *e.AccountID
			if sum, ok := failed[id]; ok {
				sum.Attempts++
				continue
			}
			username, err := names.resolve(ctx, e.AccountID)
			if err != nil {
				return err
			}
			active := false
			if a := names.account(id); a != nil {
				active = a.Active
			}
			failed[id] = &domain.FailedLoginSummary{
				AccountID: id,
				Username:  username,
				Attempts:  1,
				Active:    active,
			}
			failedOrder = append(failedOrder, id)
		}
	}

	for _, id := range failedOrder {
		rep.FailedLogins = append(rep.FailedLogins, *failed[id])
	}
	return nil
}

// collectVerifications fills Verifications (step 4): only the latest
// verification event per account counts, so a failure followed by a
// success within the window appears as approved.
func (s *Service) collectVerifications(ctx context.Context, events []domain.SecurityEvent, names *usernameCache, rep *domain.DailyReport) error {
	latest := map[uuid.UUID]domain.SecurityEvent{}
	var order []uuid.UUID

	// Events arrive oldest-first, so the last write per account wins.
	for _, e := range events {
		if e.Kind != domain.EventCodeVerificationSuccessful && e.Kind != domain.EventCodeVerificationFailed {
			continue
		}
		if e.AccountID == nil {
			continue
		}
		id := *e.AccountID
		if _, seen := latest[id]; !seen {
			order = append(order, id)
		}
		latest[id] = e
	}

	for _, id := range order {
		e := latest[id]
		username, err := names.resolve(ctx, e.AccountID)
		if err != nil {
			return err
		}
		rep.Verifications = append(rep.Verifications, domain.VerificationOutcome{
			AccountID:  id,
			Username:   username,
			Approved:   e.Kind == domain.EventCodeVerificationSuccessful,
			OccurredAt: e.OccurredAt,
		})
	}
	return nil
}

// collectMultipleErrors fills MultipleErrorAccounts (step 5): accounts
// whose combined failed logins and failed verifications in the window
// exceed the threshold.
func (s *Service) collectMultipleErrors(ctx context.Context, events []domain.SecurityEvent, names *usernameCache, rep *domain.DailyReport) error {
	counts := map[uuid.UUID]int{}
	var order []uuid.UUID

	for _, e := range events {
		if e.Kind != domain.EventLoginFailed && e.Kind != domain.EventCodeVerificationFailed {
			continue
		}
		if e.AccountID == nil {
			continue
		}
		id := *e.AccountID
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
	}

	for _, id := range order {
		if counts[id] <= multipleErrorThreshold {
			continue
		}
		accountID := id
		username, err := names.resolve(ctx, &accountID)
		if err != nil {
			return err
		}
		rep.MultipleErrorAccounts = append(rep.MultipleErrorAccounts, domain.AccountErrorCount{
			AccountID: id,
			Username:  username,
			Errors:    counts[id],
		})
	}
	return nil
}

// collectSuspiciousIPs fills SuspiciousIPs (step 6): all window events
// grouped by IP, flagged on attempt volume or user-agent diversity.
func (s *Service) collectSuspiciousIPs(events []domain.SecurityEvent, rep *domain.DailyReport) {
	type ipStats struct {
		attempts int
		agents   map[string]struct{}
		order    []string
	}
	byIP := map[string]*ipStats{}
	var order []string

	for _, e := range events {
		if e.IP == "" {
			continue
		}
		st, ok := byIP[e.IP]
		if !ok {
			st = &ipStats{agents: map[string]struct{}{}}
			byIP[e.IP] = st
			order = append(order, e.IP)
		}
		st.attempts++
		if _, seen := st.agents[e.UserAgent]; !seen && e.UserAgent != "" {
			st.agents[e.UserAgent] = struct{}{}
			st.order = append(st.order, e.UserAgent)
		}
	}

	for _, ip := range order {
		st := byIP[ip]
		if st.attempts <= suspiciousAttempts && len(st.agents) <= suspiciousUserAgents {
			continue
		}
		rep.SuspiciousIPs = append(rep.SuspiciousIPs, domain.SuspiciousIP{
			IP:         ip,
			Attempts:   st.attempts,
			UserAgents: st.order,
		})
	}
}

// usernameCache resolves account ids to usernames once per report run,
// falling back to the placeholder for events whose account is gone.
type usernameCache struct {
	service *Service
	cache   map[uuid.UUID]*domain.Account
}

func (c *usernameCache) resolve(ctx context.Context, id *uuid.UUID) (string, error) {
	a, err := c.lookup(ctx, id)
	if err != nil {
		return "", err
	}
	if a == nil {
		return domain.UnknownUser, nil
	}
	return a.Username, nil
}

// account returns the cached row for id, nil if it did not resolve.
// Only valid after a resolve for the same id.
func (c *usernameCache) account(id uuid.UUID) *domain.Account {
	return c.cache[id]
}

func (c *usernameCache) lookup(ctx context.Context, id *uuid.UUID) (*domain.Account, error) {
	if id == nil {
		return nil, nil
	}
	if a, ok := c.cache[*id]; ok {
		return a, nil
	}
	a, err := c.service.accounts.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.cache[*id] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("report: resolve account %s: %w", *id, err)
	}
	c.cache[*id] = a
	return a, nil
}
