package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siwes-backend-go/internal/validation"
)

func TestCreateReportRequestValid(t *testing.T) {
	req := CreateReportRequest{
		WeekNumber: 5,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
		Content:    "Worked through the onboarding checklist and paired on the billing reconciliation job.",
	}
	assert.Nil(t, validation.Check(req))
}

func TestCreateReportRequestDateOrder(t *testing.T) {
	req := CreateReportRequest{
		WeekNumber: 5,
		StartDate:  "2026-03-06",
		EndDate:    "2026-03-02",
		Content:    "Worked through the onboarding checklist and paired on the billing reconciliation job.",
	}
	fields := validation.Check(req)
	require.Len(t, fields, 1)
	assert.Equal(t, "endDate", fields[0].Field)
	assert.Equal(t, "afterstart", fields[0].Rule)
}

func TestCreateReportRequestBounds(t *testing.T) {
	req := CreateReportRequest{
		WeekNumber: 53,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
		Content:    "too short",
	}
	fields := validation.Check(req)
	rules := map[string]string{}
	for _, fe := range fields {
		rules[fe.Field] = fe.Rule
	}
	assert.Equal(t, "lte", rules["weekNumber"])
	assert.Equal(t, "min", rules["content"])
}

func TestUpdateReportRequestPartialSkipsDateRule(t *testing.T) {
	content := "Replaced the ad hoc shell scripts with a scheduled job and documented the rollout."
	assert.Nil(t, validation.Check(UpdateReportRequest{Content: &content}))
}

func TestCreateLogEntryRequestRejectsFutureDate(t *testing.T) {
	future := time.Now().AddDate(0, 0, 7).Format(dateLayout)
	req := CreateLogEntryRequest{
		Date:    future,
		Content: "Shadowed the network team during the switch migration.",
	}
	fields := validation.Check(req)
	require.Len(t, fields, 1)
	assert.Equal(t, "date", fields[0].Field)
	assert.Equal(t, "notfuture", fields[0].Rule)
}

func TestCreateLogEntryRequestContentBounds(t *testing.T) {
	req := CreateLogEntryRequest{Date: "2026-03-02", Content: "short"}
	fields := validation.Check(req)
	require.Len(t, fields, 1)
	assert.Equal(t, "content", fields[0].Field)
	assert.Equal(t, "min", fields[0].Rule)
}

func TestCreateUserRequestStudentFields(t *testing.T) {
	req := CreateUserRequest{
		Name:  "Ada Obi",
		Email: "ada@example.com",
		Role:  "student",
	}
	fields := validation.Check(req)
	required := map[string]bool{}
	for _, fe := range fields {
		if fe.Rule == "required_if" {
			required[fe.Field] = true
		}
	}
	assert.True(t, required["matricNumber"])
	assert.True(t, required["startDate"])
	assert.True(t, required["endDate"])
}

func TestCreateUserRequestSupervisorSkipsStudentFields(t *testing.T) {
	req := CreateUserRequest{
		Name:  "Dr. Bello",
		Email: "bello@example.com",
		Role:  "academic_supervisor",
	}
	assert.Nil(t, validation.Check(req))
}

func TestReviewRequestFeedbackBounds(t *testing.T) {
	fields := validation.Check(ReviewRequest{SupervisorFeedback: "too short"})
	require.Len(t, fields, 1)
	assert.Equal(t, "supervisorFeedback", fields[0].Field)

	grade := "E"
	fields = validation.Check(ReviewRequest{
		SupervisorFeedback: "Clear write-up of the week, keep tracking blockers explicitly.",
		Grade:              &grade,
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "grade", fields[0].Field)
	assert.Equal(t, "oneof", fields[0].Rule)
}

func TestPaginationRoundsUp(t *testing.T) {
	assert.Equal(t, 3, newPagination(25, 1, 10).TotalPages)
	assert.Equal(t, 2, newPagination(20, 1, 10).TotalPages)
	assert.Equal(t, 0, newPagination(0, 1, 10).TotalPages)
}
