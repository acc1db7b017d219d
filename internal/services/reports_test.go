package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siwes-backend-go/internal/models"
)

func draftReport() models.WeeklyReport {
	return models.WeeklyReport{
		ID:         "report-1",
		StudentID:  "student-1",
		WeekNumber: 3,
		StartDate:  time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC),
		Content:    "Configured the staging database and documented the deployment runbook for the team.",
		Status:     models.StatusDraft,
	}
}

func TestApplyReportUpdateDraftFields(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	week := 4
	content := "Rewrote the ingestion job after profiling showed the nightly run exceeded its window."

	updated, err := ApplyReportUpdate(draftReport(), ReportUpdate{
		WeekNumber: &week,
		Content:    &content,
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.WeekNumber)
	assert.Equal(t, content, updated.Content)
	assert.Equal(t, models.StatusDraft, updated.Status)
	assert.Nil(t, updated.SubmittedAt)
	assert.Equal(t, now, updated.UpdatedAt)
}

func TestApplyReportUpdateSubmissionStampsTime(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	status := models.StatusSubmitted

	updated, err := ApplyReportUpdate(draftReport(), ReportUpdate{Status: &status}, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, updated.Status)
	require.NotNil(t, updated.SubmittedAt)
	assert.Equal(t, now, *updated.SubmittedAt)
}

func TestApplyReportUpdateResubmitKeepsWorking(t *testing.T) {
	report := draftReport()
	report.Status = models.StatusSubmitted
	submitted := time.Date(2026, 2, 6, 9, 0, 0, 0, time.UTC)
	report.SubmittedAt = &submitted
	content := "Expanded the report with the results of the load test against the staging cluster."

	updated, err := ApplyReportUpdate(report, ReportUpdate{Content: &content}, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, content, updated.Content)
	assert.Equal(t, submitted, *updated.SubmittedAt)
}

func TestApplyReportUpdateLockedStatuses(t *testing.T) {
	for _, status := range []models.ReportStatus{models.StatusReviewed, models.StatusApproved, models.StatusRejected} {
		report := draftReport()
		report.Status = status
		content := "This change should never land because the report is already reviewed upstream."

		_, err := ApplyReportUpdate(report, ReportUpdate{Content: &content}, time.Now().UTC())
		assert.Equal(t, ErrReportLocked, err, "status %s", status)
	}
}

func TestApplyReportUpdateRejectsReviewedTarget(t *testing.T) {
	status := models.StatusReviewed

	_, err := ApplyReportUpdate(draftReport(), ReportUpdate{Status: &status}, time.Now().UTC())
	assert.Equal(t, ErrReportLocked, err)
}

func TestApplyReportUpdateRejectsInvertedDates(t *testing.T) {
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := ApplyReportUpdate(draftReport(), ReportUpdate{EndDate: &end}, time.Now().UTC())
	serr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)
}

func TestSubmitReport(t *testing.T) {
	now := time.Date(2026, 2, 7, 8, 0, 0, 0, time.UTC)

	submitted, err := SubmitReport(draftReport(), now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, now, *submitted.SubmittedAt)

	_, err = SubmitReport(submitted, now)
	serr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, 409, serr.Status)
}

func TestApplyAcademicReviewWithoutGrade(t *testing.T) {
	report := draftReport()
	report.Status = models.StatusSubmitted
	now := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)

	reviewed, err := ApplyAcademicReview(report, "Good coverage of the week, add more detail on blockers.", nil, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewed, reviewed.Status)
	require.NotNil(t, reviewed.AcademicFeedback)
	assert.Equal(t, *reviewed.AcademicFeedback, *reviewed.SupervisorFeedback)
	assert.Equal(t, now, *reviewed.AcademicCommentDate)
	assert.Equal(t, now, *reviewed.ReviewedAt)
	assert.Nil(t, reviewed.Grade)
}

func TestApplyAcademicReviewWithGradeApproves(t *testing.T) {
	report := draftReport()
	report.Status = models.StatusSubmitted
	grade := "A"

	reviewed, err := ApplyAcademicReview(report, "Excellent week, approved.", &grade, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.Grade)
	assert.Equal(t, "A", *reviewed.Grade)
}

func TestApplyIndustrialCommentPreservesStatus(t *testing.T) {
	report := draftReport()
	report.Status = models.StatusReviewed
	now := time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)

	commented, err := ApplyIndustrialComment(report, "Handled the production incident calmly and escalated correctly.", "sup-ind-1", now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewed, commented.Status)
	require.NotNil(t, commented.IndustrialSupervisorFeedback)
	assert.Equal(t, "sup-ind-1", *commented.IndustrialSupervisorID)
	assert.Equal(t, now, *commented.IndustrialCommentDate)
}

func TestCanDeleteReport(t *testing.T) {
	tests := []struct {
		name      string
		status    models.ReportStatus
		actorID   string
		actorRole models.Role
		wantErr   error
	}{
		{"owner deletes own draft", models.StatusDraft, "student-1", models.RoleStudent, nil},
		{"owner cannot delete submitted", models.StatusSubmitted, "student-1", models.RoleStudent, ErrDeleteNonDraft},
		{"owner cannot delete reviewed", models.StatusReviewed, "student-1", models.RoleStudent, ErrDeleteNonDraft},
		{"other student denied", models.StatusDraft, "student-2", models.RoleStudent, ErrNotReportOwner},
		{"supervisor denied", models.StatusDraft, "sup-1", models.RoleAcademicSupervisor, ErrNotReportOwner},
		{"admin deletes anything", models.StatusApproved, "admin-1", models.RoleAdmin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := draftReport()
			report.Status = tt.status

			err := CanDeleteReport(report, tt.actorID, tt.actorRole)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantErr, err)
			}
		})
	}
}
