package priorityFee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageOverSlotsStrategy(t *testing.T) {
	strategy := &AverageOverSlotsStrategy{}
	assert.Equal(t, uint64(0), strategy.Calculate(nil))
	assert.Equal(t, uint64(200), strategy.Calculate([]SolanaPriorityFeeResponse{
		{Slot: 1, PrioritizationFee: 100},
		{Slot: 2, PrioritizationFee: 300},
	}))
}

func TestMaxOverSlotsStrategy(t *testing.T) {
	strategy := &MaxOverSlotsStrategy{}
	assert.Equal(t, uint64(0), strategy.Calculate(nil))
	assert.Equal(t, uint64(300), strategy.Calculate([]SolanaPriorityFeeResponse{
		{Slot: 1, PrioritizationFee: 100},
		{Slot: 2, PrioritizationFee: 300},
		{Slot: 3, PrioritizationFee: 50},
	}))
}
