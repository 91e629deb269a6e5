package report

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// EmailNotifier delivers reports over SMTP.
type EmailNotifier struct {
	host       string
	port       int
	from       string
	recipients []string
	logger     logger.Interface

	// send is swappable for tests.
	send func(addr, from string, to []string, msg []byte) error
}

// NewEmailNotifier builds an SMTP notifier. Returns nil when no host or
// recipients are configured, which disables notifications.
func NewEmailNotifier(host string, port int, from string, recipients []string, log logger.Interface) *EmailNotifier {
	if host == "" || len(recipients) == 0 {
		return nil
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &EmailNotifier{
		host:       host,
		port:       port,
		from:       from,
		recipients: recipients,
		logger:     log,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// SendReport renders and sends the report summary.
func (n *EmailNotifier) SendReport(_ context.Context, report *domain.AuditReport, diff *Diff) error {
	subject := subjectFor(report)
	body := renderBody(report, diff)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(n.recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	if err := n.send(addr, n.from, n.recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("send report email: %w", err)
	}

	n.logger.Info("report email sent", "report_id", report.ID, "recipients", len(n.recipients))
	return nil
}

func subjectFor(report *domain.AuditReport) string {
	delta := report.ScoreDelta()
	switch {
	case delta > 0:
		return fmt.Sprintf("SEO Score Improved: +%d points", delta)
	case delta < 0:
		return fmt.Sprintf("SEO Score Declined: %d points", delta)
	default:
		return "SEO Audit Report - No Score Change"
	}
}

// maxListedIssues bounds how many new issues the email enumerates.
const maxListedIssues = 20

func renderBody(report *domain.AuditReport, diff *Diff) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SEO audit report %s\n\n", report.ID)
	fmt.Fprintf(&b, "Score: %d -> %d (%+d)\n", report.ScoreBefore, report.ScoreAfter, report.ScoreDelta())
	fmt.Fprintf(&b, "New issues: %d (existing pages: %d, new pages: %d)\n",
		report.IssuesNew, report.IssuesNewOldPages, report.IssuesNewNewPages)
	fmt.Fprintf(&b, "Fixed issues: %d\n", report.IssuesResolved)

	if diff != nil && len(diff.New) > 0 {
		b.WriteString("\nNew issues:\n")
		for i, issue := range diff.New {
			if i == maxListedIssues {
				fmt.Fprintf(&b, "  ... and %d more\n", len(diff.New)-maxListedIssues)
				break
			}
			fmt.Fprintf(&b, "  [%s] %s - %s\n", issue.Severity, issue.PageURL, issue.Description)
		}
	}

	return b.String()
}
