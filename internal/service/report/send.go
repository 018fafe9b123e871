package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

const reportSubject = "Daily security report"

var reportTemplate = template.Must(template.New("daily_report").Parse(`<h1>Daily security report {{.Date.Format "2006-01-02"}}</h1>
<p>Total security events: <b>{{.TotalEvents}}</b></p>

<h2>Successful logins ({{len .SuccessfulLogins}})</h2>
<ul>
{{range .SuccessfulLogins}}<li>{{.Username}} at {{.OccurredAt.Format "15:04:05"}} from {{.IP}} ({{.UserAgent}})</li>
{{else}}<li>None</li>
{{end}}</ul>

<h2>Failed logins</h2>
<ul>
{{range .FailedLogins}}<li>{{.Username}}: {{.Attempts}} attempts (account {{if .Active}}active{{else}}blocked{{end}})</li>
{{else}}<li>None</li>
{{end}}</ul>

<h2>Recovery code verifications</h2>
<ul>
{{range .Verifications}}<li>{{.Username}}: {{if .Approved}}approved{{else}}failed{{end}} at {{.OccurredAt.Format "15:04:05"}}</li>
{{else}}<li>None</li>
{{end}}</ul>

<h2>Accounts with multiple errors</h2>
<ul>
{{range .MultipleErrorAccounts}}<li>{{.Username}}: {{.Errors}} errors</li>
{{else}}<li>None</li>
{{end}}</ul>

<h2>Suspicious IP addresses</h2>
<ul>
{{range .SuspiciousIPs}}<li>{{.IP}}: {{.Attempts}} attempts, {{len .UserAgents}} user agents</li>
{{else}}<li>None</li>
{{end}}</ul>

<h2>Account statistics</h2>
<ul>
<li>Active accounts: {{.ActiveAccounts}}</li>
<li>Blocked accounts: {{.LockedAccounts}}</li>
<li>Accounts created today: {{.AccountsCreated}}</li>
</ul>
`))

// Send generates today's report, mails it to the configured recipient
// and records a SEND_REPORT ledger action attributed to adminID. A mail
// failure is surfaced to the caller, not swallowed: sending the report
// is an explicit admin action that expects a success confirmation.
func (s *Service) Send(ctx context.Context, adminID uuid.UUID) (*domain.DailyReport, error) {
	rep, err := s.GenerateDailyReport(ctx)
	if err != nil {
		return nil, err
	}

	body, err := renderReport(rep)
	if err != nil {
		return nil, fmt.Errorf("report.Send: %w", err)
	}

	subject := fmt.Sprintf("%s %s", reportSubject, rep.Date.Format("2006-01-02"))
	if err := s.mail.Send(ctx, s.recipient, subject, body); err != nil {
		return nil, fmt.Errorf("report.Send: %w", err)
	}

	if _, err := s.ledger.Record(ctx, adminID, domain.ActionSendReport, nil,
		fmt.Sprintf("Daily security report for %s sent to %s", rep.Date.Format("2006-01-02"), s.recipient)); err != nil {
		return nil, fmt.Errorf("report.Send record action: %w", err)
	}

	s.log.InfoContext(ctx, "daily report sent",
		"date", rep.Date.Format("2006-01-02"),
		"recipient", s.recipient)

	return rep, nil
}

func renderReport(rep *domain.DailyReport) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, rep); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}
