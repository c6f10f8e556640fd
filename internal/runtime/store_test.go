package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tourguide/internal/runtime"
	"github.com/aretw0/tourguide/internal/testutils"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = domain.DefaultTourKey

func newStore(t *testing.T, opts ...runtime.StoreOption) (*runtime.Store, *testutils.ManualScheduler) {
	t.Helper()
	sched := testutils.NewManualScheduler()
	store := runtime.NewStore(append([]runtime.StoreOption{runtime.WithScheduler(sched)}, opts...)...)
	t.Cleanup(store.Close)
	return store, sched
}

func record(store *runtime.Store, k string) *[]domain.Event {
	var got []domain.Event
	store.Bus(k).OnAny(func(e domain.Event) { got = append(got, e) })
	return &got
}

func types(evs []domain.Event) []domain.EventType {
	out := make([]domain.EventType, len(evs))
	for i, e := range evs {
		out[i] = e.Type
	}
	return out
}

func TestStore_DefaultScenario(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	evs := record(store, key)

	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0})
	store.RegisterStep(ctx, key, domain.Step{Name: "b", Order: 1})
	require.True(t, store.CanStart(key))

	store.Start(ctx, key, "", nil)
	assert.Equal(t, "a", store.CurrentStep(key).Name)
	assert.True(t, store.IsVisible(key))
	assert.True(t, store.IsFirstStep(key))

	store.Next(ctx, key)
	assert.Equal(t, "b", store.CurrentStep(key).Name)
	assert.True(t, store.IsLastStep(key))

	gen := store.Generation(key)
	store.Next(ctx, key)
	store.Next(ctx, key)
	assert.Equal(t, "b", store.CurrentStep(key).Name, "next on the last step is a no-op")
	assert.Equal(t, gen, store.Generation(key))

	store.Stop(ctx, key)
	assert.Nil(t, store.CurrentStep(key))
	assert.False(t, store.IsVisible(key))

	assert.Equal(t, []domain.EventType{
		domain.EventStart,
		domain.EventStepChange,
		domain.EventVisible,
		domain.EventStepChange,
		domain.EventStepChange,
		domain.EventStop,
	}, types(*evs))
	assert.Nil(t, (*evs)[4].Step, "stop clears the step")
}

func TestStore_PrevClampsAtFirst(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0})
	store.RegisterStep(ctx, key, domain.Step{Name: "b", Order: 1})

	store.Start(ctx, key, "b", nil)
	store.Prev(ctx, key)
	assert.Equal(t, "a", store.CurrentStep(key).Name)
	store.Prev(ctx, key)
	store.Prev(ctx, key)
	assert.Equal(t, "a", store.CurrentStep(key).Name)
	assert.True(t, store.IsVisible(key))
}

func TestStore_RegisterReplacesByName(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0, Hints: domain.Hints{Text: "old"}})
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 5, Hints: domain.Hints{Text: "new"}})

	list := store.Steps(key)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].Hints.Text)
	assert.Equal(t, 5.0, list[0].Order)
}

func TestStore_HotReloadKeepsCurrentFresh(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Hints: domain.Hints{Text: "v1"}})
	store.Start(ctx, key, "", nil)

	store.RegisterStep(ctx, key, domain.Step{Name: "a", Hints: domain.Hints{Text: "v2"}})
	assert.Equal(t, "v2", store.CurrentStep(key).Hints.Text)
}

func TestStore_Gating(t *testing.T) {
	tests := []struct {
		name    string
		outcome domain.Outcome
		current string
		visible bool
	}{
		{"continue", domain.Continue, "b", true},
		{"abort", domain.Abort, "a", true},
		{"stop", domain.Stop, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, _ := newStore(t)

			var seen [2]string
			store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0, OnNext: func(cur, cand *domain.Step) domain.Outcome {
				seen = [2]string{cur.Name, cand.Name}
				return tt.outcome
			}})
			store.RegisterStep(ctx, key, domain.Step{Name: "b", Order: 1})
			store.Start(ctx, key, "", nil)

			store.Next(ctx, key)
			assert.Equal(t, [2]string{"a", "b"}, seen)
			assert.Equal(t, tt.current, domain.StepName(store.CurrentStep(key)))
			assert.Equal(t, tt.visible, store.IsVisible(key))
		})
	}
}

func TestStore_PreviousGate(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	calls := 0
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0})
	store.RegisterStep(ctx, key, domain.Step{Name: "b", Order: 1, OnPrevious: func(cur, cand *domain.Step) domain.Outcome {
		calls++
		return domain.Abort
	}})

	store.Start(ctx, key, "b", nil)
	store.Prev(ctx, key)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "b", store.CurrentStep(key).Name)
}

func TestStore_GateNotCalledAtBoundary(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	calls := 0
	store.RegisterStep(ctx, key, domain.Step{Name: "only", OnNext: func(_, _ *domain.Step) domain.Outcome {
		calls++
		return domain.Stop
	}})
	store.Start(ctx, key, "", nil)
	store.Next(ctx, key)

	assert.Zero(t, calls)
	assert.True(t, store.IsVisible(key))
}

func TestStore_StartRetriesUntilRegistered(t *testing.T) {
	ctx := context.Background()
	store, sched := newStore(t)

	store.Start(ctx, key, "", nil)
	assert.False(t, store.IsVisible(key))
	sched.Frames(10)
	assert.False(t, store.IsVisible(key))

	store.RegisterStep(ctx, key, domain.Step{Name: "late"})
	sched.Frame()
	assert.True(t, store.IsVisible(key))
	assert.Equal(t, "late", store.CurrentStep(key).Name)
	assert.Zero(t, sched.PendingFrames())
}

func TestStore_StartRetryCap(t *testing.T) {
	ctx := context.Background()
	abandoned := 0
	var tries int
	store, sched := newStore(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStartAbandoned: func(_ context.Context, k string, n int) {
			abandoned++
			tries = n
		},
	}))

	assert.NotPanics(t, func() {
		store.Start(ctx, "late-tour", "", nil)
		sched.Frames(domain.MaxStartTries + 10)
	})
	assert.Equal(t, 1, abandoned)
	assert.Equal(t, domain.MaxStartTries, tries)
	assert.Zero(t, sched.PendingFrames())

	store.RegisterStep(ctx, "late-tour", domain.Step{Name: "a"})
	sched.Frames(5)
	assert.False(t, store.IsVisible("late-tour"))
	assert.Nil(t, store.CurrentStep("late-tour"))

	// The counter was reset, so a new start succeeds.
	store.Start(ctx, "late-tour", "", nil)
	assert.True(t, store.IsVisible("late-tour"))
}

func TestStore_StartCanceledContextStopsRetrying(t *testing.T) {
	store, sched := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	store.Start(ctx, key, "", nil)
	cancel()
	sched.Frames(3)
	assert.Zero(t, sched.PendingFrames())
}

func TestStore_StartFromUnknownStepIsNoop(t *testing.T) {
	ctx := context.Background()
	store, sched := newStore(t)
	evs := record(store, key)
	store.RegisterStep(ctx, key, domain.Step{Name: "a"})

	store.Start(ctx, key, "missing", nil)
	assert.False(t, store.IsVisible(key))
	assert.Zero(t, sched.PendingFrames())
	assert.Empty(t, *evs)
}

func TestStore_StopCancelsPendingStart(t *testing.T) {
	ctx := context.Background()
	store, sched := newStore(t)

	store.Start(ctx, key, "", nil)
	store.Stop(ctx, key)
	store.RegisterStep(ctx, key, domain.Step{Name: "a"})
	sched.Frames(3)
	assert.False(t, store.IsVisible(key))
}

func TestStore_ToursAreIndependent(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	evsA := record(store, "a")
	evsB := record(store, "b")

	store.RegisterStep(ctx, "a", domain.Step{Name: "x", Order: 0})
	store.RegisterStep(ctx, "a", domain.Step{Name: "y", Order: 1})
	store.RegisterStep(ctx, "b", domain.Step{Name: "x", Order: 0})

	store.Start(ctx, "a", "", nil)
	store.Next(ctx, "a")

	assert.Equal(t, "y", store.CurrentStep("a").Name)
	assert.Nil(t, store.CurrentStep("b"))
	assert.False(t, store.IsVisible("b"))
	assert.NotEmpty(t, *evsA)
	assert.Empty(t, *evsB)
	assert.Equal(t, []string{domain.DefaultTourKey, "a", "b"}, store.Tours())
}

func TestStore_UnregisterCurrentStops(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0})
	store.RegisterStep(ctx, key, domain.Step{Name: "b", Order: 1})
	store.Start(ctx, key, "", nil)

	store.UnregisterStep(ctx, key, "b")
	assert.True(t, store.IsVisible(key), "removing another step keeps the tour")
	assert.True(t, store.IsLastStep(key))

	store.UnregisterStep(ctx, key, "a")
	assert.False(t, store.IsVisible(key))
	assert.Nil(t, store.CurrentStep(key))
	assert.False(t, store.CanStart(key))
}

func TestStore_UnregisterAfterClose(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.RegisterStep(ctx, key, domain.Step{Name: "a"})
	store.Close()

	store.UnregisterStep(ctx, key, "a")
	store.RegisterStep(ctx, key, domain.Step{Name: "b"})
	assert.Len(t, store.Steps(key), 1)
	assert.Equal(t, "a", store.Steps(key)[0].Name)
}

func TestStore_ScrollIntoViewBeforeCommit(t *testing.T) {
	ctx := context.Background()
	store, sched := newStore(t)
	scroller := &testutils.Scroller{}
	store.SetScrollView(scroller, 100)

	evs := record(store, key)
	wrapper := &testutils.Wrapper{Y: 500, Height: 50}
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Wrapper: wrapper})

	store.Start(ctx, key, "", nil)
	require.Len(t, scroller.Calls, 1)
	assert.Equal(t, 350.0, scroller.Calls[0].Offset)
	assert.Equal(t, []any{scroller}, wrapper.Ancestors)

	assert.Nil(t, store.CurrentStep(key), "commit waits for the settle delay")
	assert.Equal(t, []domain.EventType{domain.EventStart}, types(*evs))

	sched.Advance(domain.SettleDelay - time.Millisecond)
	assert.Nil(t, store.CurrentStep(key))
	sched.Advance(time.Millisecond)
	assert.Equal(t, "a", store.CurrentStep(key).Name)
	assert.True(t, store.IsVisible(key))
}

func TestStore_ScrollRefPassedToStart(t *testing.T) {
	ctx := context.Background()
	store, sched := newStore(t)
	list := &testutils.OffsetScroller{}
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Wrapper: &testutils.Wrapper{Y: 300, Height: 100}})

	store.Start(ctx, key, "", list)
	sched.Advance(domain.SettleDelay)

	require.Len(t, list.Calls, 1)
	assert.Equal(t, 200.0, list.Calls[0].Offset)
	assert.Equal(t, "a", store.CurrentStep(key).Name)
}

func TestStore_StaleCommitsDiscarded(t *testing.T) {
	ctx := context.Background()
	stale := 0
	store, sched := newStore(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStaleDiscarded: func(context.Context, string, uint64) { stale++ },
	}))
	store.SetScrollView(&testutils.Scroller{}, 0)
	for i, name := range []string{"a", "b", "c"} {
		store.RegisterStep(ctx, key, domain.Step{Name: name, Order: float64(i), Wrapper: &testutils.Wrapper{Y: 10}})
	}
	store.Start(ctx, key, "", nil)
	sched.Advance(domain.SettleDelay)
	require.Equal(t, "a", store.CurrentStep(key).Name)

	var changes []string
	store.Bus(key).On(domain.EventStepChange, func(e domain.Event) {
		changes = append(changes, domain.StepName(e.Step))
	})

	store.Start(ctx, key, "b", nil)
	store.Start(ctx, key, "c", nil)
	sched.Advance(domain.SettleDelay)

	assert.Equal(t, "c", store.CurrentStep(key).Name)
	assert.Equal(t, []string{"c"}, changes)
	assert.Equal(t, 1, stale)
}

func TestStore_StopDiscardsPendingCommit(t *testing.T) {
	ctx := context.Background()
	store, sched := newStore(t)
	store.SetScrollView(&testutils.Scroller{}, 0)
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Wrapper: &testutils.Wrapper{Y: 10}})

	store.Start(ctx, key, "", nil)
	store.Stop(ctx, key)
	sched.Advance(domain.SettleDelay)

	assert.Nil(t, store.CurrentStep(key))
	assert.False(t, store.IsVisible(key))
}

func TestStore_StartAtMount(t *testing.T) {
	ctx := context.Background()
	store, sched := newStore(t, runtime.WithStartAtMount("onboarding"))

	store.RegisterStep(ctx, "onboarding", domain.Step{Name: "second", Order: 2})
	store.RegisterStep(ctx, "onboarding", domain.Step{Name: "first", Order: 1})
	assert.False(t, store.IsVisible("onboarding"))

	sched.Frame()
	assert.True(t, store.IsVisible("onboarding"))
	assert.Equal(t, "first", store.CurrentStep("onboarding").Name)

	store.Stop(ctx, "onboarding")
	store.RegisterStep(ctx, "onboarding", domain.Step{Name: "third", Order: 3})
	sched.Frame()
	assert.False(t, store.IsVisible("onboarding"), "start at mount fires once")
}

func TestStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.RegisterStep(ctx, key, domain.Step{Name: "b", Order: 1, Hints: domain.Hints{Pressable: true}})
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0})
	store.Start(ctx, key, "", nil)

	snap, ok := store.Snapshot(key)
	require.True(t, ok)
	assert.Equal(t, "a", snap.Current)
	assert.True(t, snap.Visible)
	assert.True(t, snap.CanStart)
	assert.True(t, snap.IsFirst)
	assert.False(t, snap.IsLast)
	require.Len(t, snap.Steps, 2)
	assert.Equal(t, "a", snap.Steps[0].Name)
	assert.True(t, snap.Steps[1].Hints.Pressable)

	_, ok = store.Snapshot("unknown")
	assert.False(t, ok)
}

func TestStore_TourKey(t *testing.T) {
	store, _ := newStore(t)
	assert.Equal(t, domain.DefaultTourKey, store.TourKey())
	store.SetTourKey("settings")
	assert.Equal(t, "settings", store.TourKey())
	assert.Contains(t, store.Tours(), "settings")
}

func TestStore_GateMayCallBackIntoStore(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0, OnNext: func(_, _ *domain.Step) domain.Outcome {
		store.Stop(ctx, key)
		return domain.Abort
	}})
	store.RegisterStep(ctx, key, domain.Step{Name: "b", Order: 1})
	store.Start(ctx, key, "", nil)

	assert.NotPanics(t, func() { store.Next(ctx, key) })
	assert.False(t, store.IsVisible(key))
}

func TestStore_StopInsideGateWinsOverContinue(t *testing.T) {
	ctx := context.Background()
	stale := 0
	store, sched := newStore(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStaleDiscarded: func(context.Context, string, uint64) { stale++ },
	}))
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0, OnNext: func(_, _ *domain.Step) domain.Outcome {
		store.Stop(ctx, key)
		return domain.Continue
	}})
	store.RegisterStep(ctx, key, domain.Step{Name: "b", Order: 1})
	store.Start(ctx, key, "", nil)
	require.True(t, store.IsVisible(key))
	evs := record(store, key)

	store.Next(ctx, key)
	sched.Advance(domain.SettleDelay)

	assert.False(t, store.IsVisible(key))
	assert.Nil(t, store.CurrentStep(key))
	assert.Equal(t, 1, stale)
	assert.Equal(t, []domain.EventType{domain.EventStepChange, domain.EventStop}, types(*evs))
}

func TestStore_StopFromStartListenerDropsFirstStep(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.RegisterStep(ctx, key, domain.Step{Name: "a", Order: 0})
	store.Bus(key).On(domain.EventStart, func(domain.Event) {
		store.Stop(ctx, key)
	})

	store.Start(ctx, key, "", nil)

	assert.False(t, store.IsVisible(key))
	assert.Nil(t, store.CurrentStep(key))
}
