package report

import (
	"context"
	"fmt"

	"github.com/nmueses/secaudit/internal/domain"
)

// MonitorAccounts returns every account with its blocked flag and its
// most recent security events, for the admin monitoring view.
func (s *Service) MonitorAccounts(ctx context.Context) ([]domain.AccountActivity, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("report.MonitorAccounts: %w", err)
	}

	activity := make([]domain.AccountActivity, 0, len(accounts))
	for _, a := range accounts {
		events, err := s.events.EventsForAccount(ctx, a.ID, monitorRecentEvents)
		if err != nil {
			return nil, fmt.Errorf("report.MonitorAccounts events for %s: %w", a.ID, err)
		}
		activity = append(activity, domain.AccountActivity{
			AccountID: a.ID,
			Username:  a.Username,
			Blocked:   a.IsLocked(),
			Events:    events,
		})
	}

	return activity, nil
}
