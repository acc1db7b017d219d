package services

import (
	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/models"
)

// Supervisor assignment is round-robin per supervisor role: each new student
// takes the next supervisor in a stable id-ordered list. The cursor is a
// per-role counter incremented atomically inside the create-student
// transaction, so concurrent creations cannot hand out the same slot twice.

// PickSupervisor selects the supervisor for the nth assignment (0-based)
// from a stable list. Empty list yields no assignment.
func PickSupervisor(supervisorIDs []string, n int64) *string {
	if len(supervisorIDs) == 0 {
		return nil
	}
	id := supervisorIDs[int(n%int64(len(supervisorIDs)))]
	return &id
}

// ActiveSupervisorIDs lists active supervisors of one role ordered by id.
func ActiveSupervisorIDs(db sqlx.Queryer, role models.Role) ([]string, error) {
	ids := []string{}
	err := sqlx.Select(db, &ids, `
SELECT id FROM users
WHERE role = $1 AND is_active = TRUE
ORDER BY id`, role)
	return ids, err
}

// NextAssignmentIndex increments and returns the 0-based round-robin cursor
// for a supervisor role. Runs inside the caller's transaction.
func NextAssignmentIndex(tx *sqlx.Tx, role models.Role) (int64, error) {
	var next int64
	err := tx.Get(&next, `
INSERT INTO assignment_counters (role, next_index)
VALUES ($1, 1)
ON CONFLICT (role) DO UPDATE SET next_index = assignment_counters.next_index + 1
RETURNING next_index`, role)
	if err != nil {
		return 0, err
	}
	return next - 1, nil
}

// AssignSupervisor picks the round-robin supervisor of the given role for a
// new student. Returns nil when no active supervisor of that role exists;
// the counter is only advanced when an assignment is actually made.
func AssignSupervisor(tx *sqlx.Tx, role models.Role) (*string, error) {
	ids, err := ActiveSupervisorIDs(tx, role)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	index, err := NextAssignmentIndex(tx, role)
	if err != nil {
		return nil, err
	}
	return PickSupervisor(ids, index), nil
}
