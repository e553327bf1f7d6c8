package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhasesOrder(t *testing.T) {
	names := make([]string, 0, 4)
	for _, p := range Phases() {
		names = append(names, p.String())
	}
	assert.Equal(t, []string{"movement", "collision", "late_update", "entities"}, names)
	assert.Equal(t, "unknown", ExecutionPhase(42).String())
}

func TestMetricsRecord(t *testing.T) {
	var pm PhaseMetrics
	pm.Record(PhaseCollision, 2*time.Millisecond)
	pm.Record(PhaseCollision, 4*time.Millisecond)
	pm.Record(ExecutionPhase(99), time.Second)

	m := pm.Of(PhaseCollision)
	assert.Equal(t, uint64(2), m.ExecutionCount)
	assert.Equal(t, 6*time.Millisecond, m.TotalExecutionTime)
	assert.Equal(t, 3*time.Millisecond, m.AverageExecutionTime)
	assert.Equal(t, 4*time.Millisecond, m.MaxExecutionTime)
	assert.Equal(t, 4*time.Millisecond, m.LastExecutionTime)
	assert.Zero(t, pm.Of(PhaseMovement).ExecutionCount)
	assert.Equal(t, Metrics{}, pm.Of(ExecutionPhase(99)))
}
