package corr

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"

	"fastCurate/infra/errorx"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestAutoCorrelogramUnits_MatchesSequential(t *testing.T) {
	p := mustResolve(t, 500, 5, 30000)
	r := rand.New(rand.NewPCG(3, 4))
	units := make(map[int][]int64)
	for id := 0; id < 16; id++ {
		units[id] = randomTrain(r, r.IntN(400), 2000)
	}
	units[16] = nil

	got, err := AutoCorrelogramUnits(context.Background(), units, p, WithWorkers(3), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(units) {
		t.Fatalf("len(result) = %d, want %d", len(got), len(units))
	}
	for id, spikes := range units {
		want, err := AutoCorrelogram(spikes, p)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(got[id].Counts, want.Counts) {
			t.Errorf("unit %d: counts differ from sequential run", id)
		}
		if got[id].NumSpikes != len(spikes) {
			t.Errorf("unit %d: NumSpikes = %d, want %d", id, got[id].NumSpikes, len(spikes))
		}
	}
}

func TestAutoCorrelogramUnits_UnsortedUnit(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	units := map[string][]int64{
		"good": {0, 10, 20},
		"bad":  {30, 10},
	}
	_, err := AutoCorrelogramUnits(context.Background(), units, p, WithLogger(quietLogger()))
	if !errors.Is(err, errorx.ErrPreconditionViolated) {
		t.Fatalf("err = %v, want PRECONDITION_VIOLATED", err)
	}
}

func TestAutoCorrelogramUnits_Cancelled(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AutoCorrelogramUnits(ctx, map[int][]int64{1: {0, 1}}, p, WithWorkers(0), WithLogger(quietLogger()))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAutoCorrelogramUnits_Empty(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	got, err := AutoCorrelogramUnits(context.Background(), map[int][]int64{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("len(result) = %d, want 0", len(got))
	}
}
