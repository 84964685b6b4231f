package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestStability_AnchorsOnFirstGoodTick(t *testing.T) {
	s := Stability{}.Update(true, t0)

	assert.Equal(t, t0, s.Anchor)
	assert.Zero(t, s.Elapsed)
}

func TestStability_SumsNonUniformSpacing(t *testing.T) {
	gaps := []time.Duration{
		16 * time.Millisecond,
		250 * time.Millisecond,
		33 * time.Millisecond,
		1200 * time.Millisecond,
		5 * time.Millisecond,
		700 * time.Millisecond,
	}

	now := t0
	s := Stability{}.Update(true, now)
	var total time.Duration
	prev := s.Elapsed

	for _, gap := range gaps {
		now = now.Add(gap)
		total += gap
		s = s.Update(true, now)
		assert.GreaterOrEqual(t, s.Elapsed, prev, "elapsed never decreases while good")
		prev = s.Elapsed
	}

	assert.Equal(t, total, s.Elapsed)
	assert.InDelta(t, 2.204, s.Seconds(), 1e-9)
}

func TestStability_SameTickCountDifferentRates(t *testing.T) {
	run := func(gap time.Duration) Stability {
		now := t0
		s := Stability{}.Update(true, now)
		for i := 0; i < 10; i++ {
			now = now.Add(gap)
			s = s.Update(true, now)
		}
		return s
	}

	slow := run(200 * time.Millisecond)
	fast := run(20 * time.Millisecond)

	assert.InDelta(t, 2.0, slow.Seconds(), 1e-9)
	assert.InDelta(t, 0.2, fast.Seconds(), 1e-9)
}

func TestStability_SingleBadTickResets(t *testing.T) {
	s := Stability{}.Update(true, t0)
	s = s.Update(true, t0.Add(42*time.Second))
	assert.Equal(t, 42*time.Second, s.Elapsed)

	s = s.Update(false, t0.Add(43*time.Second))
	assert.Equal(t, Stability{}, s)

	s = s.Update(true, t0.Add(44*time.Second))
	assert.Equal(t, t0.Add(44*time.Second), s.Anchor)
	assert.Zero(t, s.Elapsed)
}

func TestStability_ClockStepBackHoldsValue(t *testing.T) {
	s := Stability{}.Update(true, t0)
	s = s.Update(true, t0.Add(3*time.Second))
	s = s.Update(true, t0.Add(time.Second))

	assert.Equal(t, 3*time.Second, s.Elapsed)
}

func TestStability_Completion(t *testing.T) {
	target := 8 * time.Second

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{2 * time.Second, 25},
		{4 * time.Second, 50},
		{3 * time.Second, 38},
		{8 * time.Second, 100},
		{40 * time.Second, 100},
	}

	for _, tt := range tests {
		s := Stability{Anchor: t0, Elapsed: tt.elapsed}
		assert.Equal(t, tt.want, s.Completion(target), "elapsed %v", tt.elapsed)
	}

	assert.Zero(t, Stability{Elapsed: time.Second}.Completion(0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(-0.5))
	assert.Equal(t, 50, Percent(0.499))
	assert.Equal(t, 100, Percent(5))
}

func TestReps_CountsOneCycle(t *testing.T) {
	th := Thresholds{Down: 130, Up: 160, Target: 10}
	angles := []float64{170, 150, 110, 90, 150, 170}

	var r Reps
	var completedAt []int
	for i, a := range angles {
		var done bool
		r, done = r.Update(a, th)
		if done {
			completedAt = append(completedAt, i)
		}
	}

	assert.Equal(t, 1, r.Count)
	assert.Equal(t, []int{5}, completedAt, "counted when the angle first exceeds 160")
	assert.Equal(t, WaitingForDown, r.Phase)
}

func TestReps_Transitions(t *testing.T) {
	th := Thresholds{Down: 130, Up: 160, Target: 10}

	r, done := Reps{}.Update(130, th)
	assert.False(t, done)
	assert.Equal(t, WaitingForDown, r.Phase, "boundary is exclusive")

	r, _ = r.Update(129, th)
	assert.Equal(t, WaitingForUp, r.Phase)

	r, done = r.Update(160, th)
	assert.False(t, done, "boundary is exclusive")
	assert.Equal(t, WaitingForUp, r.Phase)

	r, done = r.Update(161, th)
	assert.True(t, done)
	assert.Equal(t, 1, r.Count)
}

func TestReps_NoDoubleCountOnChatter(t *testing.T) {
	th := Thresholds{Down: 130, Up: 160, Target: 10}

	var r Reps
	for _, a := range []float64{100, 165, 159, 161, 158, 162, 170, 140, 125, 161} {
		r, _ = r.Update(a, th)
	}

	assert.Equal(t, 2, r.Count)
}

func TestReps_RearmKeepsCount(t *testing.T) {
	r := Reps{Phase: WaitingForUp, Count: 4}.Rearm()

	assert.Equal(t, Reps{Phase: WaitingForDown, Count: 4}, r)
}

func TestReps_Completion(t *testing.T) {
	assert.Equal(t, 30, Reps{Count: 3}.Completion(10))
	assert.Equal(t, 100, Reps{Count: 25}.Completion(10))
	assert.Zero(t, Reps{Count: 3}.Completion(0))
}

func TestScore_TimeBased(t *testing.T) {
	rates := Rates{PerSecond: 5}

	before := Stability{}
	after := before.Update(true, t0)
	s := Score{}.Add(ScoreTimeBased, rates, Tick{Good: true, Before: before, After: after})
	assert.Zero(t, s.Value, "first good tick only anchors")

	before, after = after, after.Update(true, t0.Add(1500*time.Millisecond))
	s = s.Add(ScoreTimeBased, rates, Tick{Good: true, Before: before, After: after})
	assert.InDelta(t, 7.5, s.Value, 1e-9)
	assert.Equal(t, 7, s.Display())

	before, after = after, after.Update(false, t0.Add(2*time.Second))
	s = s.Add(ScoreTimeBased, rates, Tick{Good: false, Before: before, After: after})
	assert.InDelta(t, 7.5, s.Value, 1e-9, "score never drops")
}

func TestScore_TimeBasedIndependentOfRate(t *testing.T) {
	rates := Rates{PerSecond: 2}

	run := func(gap time.Duration, ticks int) Score {
		var s Score
		st := Stability{}
		now := t0
		for i := 0; i <= ticks; i++ {
			next := st.Update(true, now)
			s = s.Add(ScoreTimeBased, rates, Tick{Good: true, Before: st, After: next})
			st = next
			now = now.Add(gap)
		}
		return s
	}

	assert.InDelta(t, run(100*time.Millisecond, 30).Value, run(10*time.Millisecond, 300).Value, 1e-6)
}

func TestScore_PerRep(t *testing.T) {
	rates := Rates{PerRep: 10}

	s := Score{}.Add(ScorePerRep, rates, Tick{Good: true})
	assert.Zero(t, s.Value)

	s = s.Add(ScorePerRep, rates, Tick{RepCompleted: true})
	s = s.Add(ScorePerRep, rates, Tick{RepCompleted: true})
	assert.Equal(t, 20, s.Display())
}

func TestScore_PerTick(t *testing.T) {
	rates := Rates{PerTick: 0.2}

	var s Score
	for i := 0; i < 12; i++ {
		s = s.Add(ScorePerTick, rates, Tick{Good: i%2 == 0})
	}

	assert.InDelta(t, 1.2, s.Value, 1e-9)
	assert.Equal(t, 1, s.Display())
}
