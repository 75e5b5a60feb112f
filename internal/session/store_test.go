package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	store.Put(1, &State{Session: &Session{Step: StepAge, Who: "мама", Age: intPtr(40)}})

	got := store.Get(1)
	require.NotNil(t, got.Session)
	got.Session.Who = "папа"
	*got.Session.Age = 99

	again := store.Get(1)
	assert.Equal(t, "мама", again.Session.Who)
	assert.Equal(t, 40, *again.Session.Age)
}

func TestStore_MissingChatIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	store.Put(1, &State{Session: &Session{Step: StepWho, PendingName: "A"}})

	assert.True(t, store.Get(2).Empty())

	store.Remove(1)
	assert.True(t, store.Get(1).Empty())
}

func TestStore_PutEmptyRemoves(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	store.Put(1, &State{Edit: &EditIntent{FormName: "A", Field: "age"}})
	require.Equal(t, 1, store.count())

	store.Put(1, &State{})
	assert.Equal(t, 0, store.count())
}

func TestStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	store.Put(1, &State{Session: New()})
	store.Put(2, &State{Session: New()})
	require.Equal(t, 2, store.count())

	time.Sleep(30 * time.Millisecond)

	assert.True(t, store.Get(1).Empty(), "expired states are not returned")

	before, after := store.DeleteExpired()
	assert.Equal(t, 2, before)
	assert.Equal(t, 0, after)
}

func TestStore_LockSerializesSameChat(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	counter := 0

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := store.Lock(7)
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.locks, "released locks are dropped")
}

func TestStore_LockDifferentChatsIndependent(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	unlockA := store.Lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := store.Lock(2)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another chat blocked")
	}
}

func TestStep_Next(t *testing.T) {
	t.Parallel()

	order := []Step{StepAwaitingName, StepWho, StepOccasion, StepAge, StepInterests, StepBudget, StepDone}
	for i := 0; i < len(order)-1; i++ {
		assert.Equal(t, order[i+1], order[i].Next(), order[i].String())
	}
	assert.Equal(t, StepDone, StepDone.Next())
}

func TestState_Clone(t *testing.T) {
	t.Parallel()

	var nilState *State
	assert.True(t, nilState.Clone().Empty())

	orig := &State{
		Session: &Session{Budget: intPtr(100)},
		Edit:    &EditIntent{FormName: "A", Field: "age"},
	}
	c := orig.Clone()
	c.Edit.Field = "budget"
	*c.Session.Budget = 5

	assert.Equal(t, "age", orig.Edit.Field)
	assert.Equal(t, 100, *orig.Session.Budget)
}
