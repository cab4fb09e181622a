package mockbehavior

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-caldav/sync/model"
)

func TestNewAlwaysSucceeds(t *testing.T) {
	b := New()
	for i := 0; i < 5; i++ {
		assert.NoError(t, b.CanAddItem())
		assert.NoError(t, b.CanGetItemsByURL())
	}
}

func TestFailNowFailsThenRecovers(t *testing.T) {
	b := FailNow(2)

	err := b.CanAddItem()
	assert.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindMock))

	err = b.CanAddItem()
	assert.Error(t, err)

	assert.NoError(t, b.CanAddItem())
	assert.NoError(t, b.CanAddItem())
}

func TestSuccessesBeforeFailures(t *testing.T) {
	b := New()
	b.AddItem = Counter{RemainingSuccesses: 2, RemainingFailures: 1}

	assert.NoError(t, b.CanAddItem())
	assert.NoError(t, b.CanAddItem())
	assert.Error(t, b.CanAddItem())
	assert.NoError(t, b.CanAddItem())
}

func TestSuspendBypassesFailures(t *testing.T) {
	b := FailNow(3)
	b.Suspend()

	for i := 0; i < 5; i++ {
		assert.NoError(t, b.CanAddItem())
	}

	b.Resume()
	assert.Error(t, b.CanAddItem())
}

func TestCountersAreIndependentPerOperation(t *testing.T) {
	b := New()
	b.AddItem = Counter{RemainingFailures: 1}

	assert.Error(t, b.CanAddItem())
	assert.NoError(t, b.CanUpdateItem())
	assert.NoError(t, b.CanDeleteItem())
}
