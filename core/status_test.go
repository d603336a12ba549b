package core

import (
	"testing"
	"time"

	"artisan-dex/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusBoard_Initial(t *testing.T) {
	b := NewStatusBoard(time.Second, time.Second)
	assert.False(t, b.Current().Visible)
	assert.Equal(t, model.TxPhasePending, b.Current().Phase)
}

func TestStatusBoard_PendingStays(t *testing.T) {
	b := NewStatusBoard(10*time.Millisecond, 10*time.Millisecond)
	b.Show(model.TxPhasePending, "working")
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, model.TxStatus{Visible: true, Phase: model.TxPhasePending, Message: "working"}, b.Current())
}

func TestStatusBoard_AutoDismiss(t *testing.T) {
	b := NewStatusBoard(10*time.Millisecond, 20*time.Millisecond)

	b.Show(model.TxPhaseSuccess, "done")
	assert.True(t, b.Current().Visible)
	assert.Eventually(t, func() bool { return !b.Current().Visible }, time.Second, 5*time.Millisecond)

	b.Show(model.TxPhaseError, "failed")
	assert.Equal(t, "failed", b.Current().Message)
	assert.Eventually(t, func() bool { return !b.Current().Visible }, time.Second, 5*time.Millisecond)
}

func TestStatusBoard_ShowCancelsDismiss(t *testing.T) {
	b := NewStatusBoard(20*time.Millisecond, time.Hour)

	b.Show(model.TxPhaseSuccess, "first")
	b.Show(model.TxPhasePending, "second")
	time.Sleep(60 * time.Millisecond)

	cur := b.Current()
	assert.True(t, cur.Visible)
	assert.Equal(t, "second", cur.Message)
}

func TestStatusBoard_Subscribe(t *testing.T) {
	b := NewStatusBoard(time.Hour, time.Hour)
	ch, cancel := b.Subscribe()

	first := <-ch
	assert.False(t, first.Visible)

	b.Show(model.TxPhasePending, "p")
	b.Hide()

	next := <-ch
	assert.Equal(t, "p", next.Message)
	hidden := <-ch
	assert.False(t, hidden.Visible)

	cancel()
	_, ok := <-ch
	require.False(t, ok)

	// cancelling twice is harmless
	cancel()
}
