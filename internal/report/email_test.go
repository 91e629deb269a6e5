package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

func TestNewEmailNotifierDisabled(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewEmailNotifier("", 587, "noreply@example.com", []string{"a@example.com"}, nil))
	assert.Nil(t, NewEmailNotifier("smtp.example.com", 587, "noreply@example.com", nil, nil))
}

func TestEmailNotifierSendReport(t *testing.T) {
	t.Parallel()

	notifier := NewEmailNotifier("smtp.example.com", 587, "noreply@example.com",
		[]string{"seo@example.com"}, nil)
	require.NotNil(t, notifier)

	var gotAddr string
	var gotMsg string
	notifier.send = func(addr, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = string(msg)
		return nil
	}

	report := &domain.AuditReport{
		ID:          "rep-1",
		ScoreBefore: 80,
		ScoreAfter:  87,
		IssuesNew:   1,
	}
	diff := &Diff{New: []domain.Issue{
		domain.NewIssue(domain.TitleMissing, "https://example.com/a"),
	}}

	require.NoError(t, notifier.SendReport(context.Background(), report, diff))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Contains(t, gotMsg, "Subject: SEO Score Improved: +7 points")
	assert.Contains(t, gotMsg, "Score: 80 -> 87 (+7)")
	assert.Contains(t, gotMsg, "https://example.com/a")
}

func TestSubjectForDeclineAndFlat(t *testing.T) {
	t.Parallel()

	assert.Contains(t, subjectFor(&domain.AuditReport{ScoreBefore: 90, ScoreAfter: 84}), "Declined: -6")
	assert.Equal(t, "SEO Audit Report - No Score Change", subjectFor(&domain.AuditReport{ScoreBefore: 90, ScoreAfter: 90}))
}
