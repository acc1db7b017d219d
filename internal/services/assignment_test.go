package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickSupervisorEmptyList(t *testing.T) {
	assert.Nil(t, PickSupervisor(nil, 0))
	assert.Nil(t, PickSupervisor([]string{}, 7))
}

func TestPickSupervisorCycles(t *testing.T) {
	ids := []string{"sup-a", "sup-b", "sup-c"}

	got := []string{}
	for n := int64(0); n < 6; n++ {
		picked := PickSupervisor(ids, n)
		require.NotNil(t, picked)
		got = append(got, *picked)
	}
	assert.Equal(t, []string{"sup-a", "sup-b", "sup-c", "sup-a", "sup-b", "sup-c"}, got)
}

// With k supervisors, any run of k*m consecutive assignments lands exactly m
// students on each supervisor.
func TestPickSupervisorEvenDistribution(t *testing.T) {
	ids := []string{"sup-a", "sup-b", "sup-c", "sup-d"}
	counts := map[string]int{}

	for n := int64(0); n < int64(len(ids))*25; n++ {
		counts[*PickSupervisor(ids, n)]++
	}
	for _, id := range ids {
		assert.Equal(t, 25, counts[id], "supervisor %s", id)
	}
}

func TestPickSupervisorSingle(t *testing.T) {
	ids := []string{"only-one"}
	for n := int64(0); n < 5; n++ {
		picked := PickSupervisor(ids, n)
		require.NotNil(t, picked)
		assert.Equal(t, "only-one", *picked)
	}
}
