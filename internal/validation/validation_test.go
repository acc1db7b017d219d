package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Week  int    `json:"weekNumber" validate:"required,gte=1,lte=52"`
}

func TestCheckValidPayload(t *testing.T) {
	assert.Nil(t, Check(samplePayload{Name: "Ada Obi", Email: "ada@example.com", Week: 12}))
}

func TestCheckCollectsAllViolations(t *testing.T) {
	fields := Check(samplePayload{Name: "A", Email: "not-an-email", Week: 99})
	require.Len(t, fields, 3)

	byField := map[string]FieldError{}
	for _, fe := range fields {
		byField[fe.Field] = fe
	}
	assert.Equal(t, "min", byField["name"].Rule)
	assert.Equal(t, "email", byField["email"].Rule)
	assert.Equal(t, "lte", byField["weekNumber"].Rule)
}

func TestCheckUsesJSONFieldNames(t *testing.T) {
	fields := Check(samplePayload{Email: "ada@example.com", Week: 1})
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].Field)
	assert.NotEmpty(t, fields[0].Message)
}

func TestDateOrdered(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	assert.True(t, DateOrdered(monday, friday))
	assert.False(t, DateOrdered(friday, monday))
	assert.False(t, DateOrdered(monday, monday))
}
