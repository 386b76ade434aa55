package storage

import (
	"testing"

	"github.com/cookiew/ilqgames/internal/solver"
)

func syntheticLog() *solver.Log {
	const steps = 5
	op := solver.NewOperatingPoint(steps, 2, []int{1}, 0, 0.1)
	for k := 0; k < steps; k++ {
		op.Xs[k].SetVec(0, float64(k))
		op.Xs[k].SetVec(1, -float64(k))
	}
	strategies := []solver.Strategy{solver.NewStrategy(steps-1, 2, 1)}

	log := solver.NewLog(0, 0.1, steps)
	log.Add(op, strategies, []float64{10}, 0)
	log.Add(op, strategies, []float64{4}, 1)
	log.Termination = solver.Converged
	return log
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runID, err := st.Save("pointmass", syntheticLog())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Scenario != "pointmass" || meta.Steps != 5 || meta.Iterations != 2 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Termination != string(solver.Converged) {
		t.Errorf("termination = %s, want converged", meta.Termination)
	}
	if len(meta.FinalCosts) != 1 || meta.FinalCosts[0] != 4 {
		t.Errorf("final costs = %v, want [4]", meta.FinalCosts)
	}

	times, states, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("LoadTrajectory: %v", err)
	}
	if len(times) != 5 || len(states) != 5 {
		t.Fatalf("trajectory has %d/%d rows, want 5", len(times), len(states))
	}
	if states[3][0] != 3 || states[3][1] != -3 {
		t.Errorf("state row 3 = %v", states[3])
	}
	if times[2] != 0.2 {
		t.Errorf("time row 2 = %f, want 0.2", times[2])
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, err := st.Save("a", syntheticLog()); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save("b", syntheticLog()); err != nil {
		t.Fatal(err)
	}

	metas, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(metas))
	}
}

func TestListEmptyDir(t *testing.T) {
	st := New(t.TempDir() + "/nonexistent")
	metas, err := st.List()
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("expected no runs, got %d", len(metas))
	}
}
