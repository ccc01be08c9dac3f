package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogsim/resource"
	"fogsim/task"
)

func newTask(remaining, cost int) *task.Task {
	return task.New("t1", "v1", resource.Resource{CPU: 1, RAM: 1, Storage: 1}, remaining, cost, nil, 0.5)
}

func TestBandwidthChargeFixedAtBirth(t *testing.T) {
	tk := newTask(10, 1)
	assert.Equal(t, 5, tk.BandwidthCharge())
	tk.Progress(4)
	assert.Equal(t, 5, tk.BandwidthCharge(), "bandwidth charge must stay derived from the initial remaining time")
}

func TestProgressTransitions(t *testing.T) {
	tk := newTask(3, 1)
	require.Equal(t, task.Pending, tk.State)

	tk.Progress(0)
	assert.Equal(t, task.InProgress, tk.State)

	tk.Progress(1)
	assert.Equal(t, task.InProgress, tk.State)
	assert.Equal(t, 2, tk.RemainingTime)

	tk.Progress(1)
	tk.Progress(1)
	assert.Equal(t, task.Completed, tk.State)
}

func TestLedgerPartitionsAndMoves(t *testing.T) {
	ledger := task.NewLedger()
	tk := newTask(2, 1)
	ledger.Track(tk)
	assert.Equal(t, 1, ledger.Count(task.Pending))
	assert.Equal(t, 1, ledger.Total())

	ledger.Accept(tk)
	assert.Equal(t, task.InProgress, tk.State)
	assert.Equal(t, 0, ledger.Count(task.Pending))
	assert.Equal(t, 1, ledger.Count(task.InProgress))

	ledger.Progress(tk, 5)
	assert.Equal(t, task.Completed, tk.State)
	assert.Equal(t, 0, ledger.Count(task.InProgress))
	assert.Equal(t, 1, ledger.Count(task.Completed))
	assert.Equal(t, 1, ledger.Total())
}

func TestLedgerFail(t *testing.T) {
	ledger := task.NewLedger()
	tk := newTask(2, 1)
	ledger.Track(tk)
	ledger.Fail(tk)
	assert.Equal(t, task.Failed, tk.State)
	assert.Equal(t, 1, ledger.Count(task.Failed))
}
