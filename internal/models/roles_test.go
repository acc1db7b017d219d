package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		role         Role
		valid        bool
		student      bool
		admin        bool
		supervisor   bool
		adminOrSuper bool
	}{
		{RoleStudent, true, true, false, false, false},
		{RoleAcademicSupervisor, true, false, false, true, true},
		{RoleIndustrialSupervisor, true, false, false, true, true},
		{RoleAdmin, true, false, true, false, true},
		{Role("lecturer"), false, false, false, false, false},
		{Role(""), false, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.student, tt.role.IsStudent())
			assert.Equal(t, tt.admin, tt.role.IsAdmin())
			assert.Equal(t, tt.supervisor, tt.role.IsSupervisor())
			assert.Equal(t, tt.adminOrSuper, tt.role.IsAdminOrSupervisor())
		})
	}
}

func TestSupervisorProfileColumn(t *testing.T) {
	assert.Equal(t, "academic_supervisor_id", RoleAcademicSupervisor.SupervisorProfileColumn())
	assert.Equal(t, "industrial_supervisor_id", RoleIndustrialSupervisor.SupervisorProfileColumn())
	assert.Empty(t, RoleStudent.SupervisorProfileColumn())
	assert.Empty(t, RoleAdmin.SupervisorProfileColumn())
}

func TestReportStatusEditable(t *testing.T) {
	assert.True(t, StatusDraft.Editable())
	assert.True(t, StatusSubmitted.Editable())
	assert.False(t, StatusReviewed.Editable())
	assert.False(t, StatusApproved.Editable())
	assert.False(t, StatusRejected.Editable())
}
