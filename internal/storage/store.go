// Package storage persists solver runs: metadata as json, trajectories and
// per-iterate costs as csv. The on-disk layout is a convenience, not a wire
// contract.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cookiew/ilqgames/internal/solver"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Scenario    string    `json:"scenario"`
	Timestamp   time.Time `json:"timestamp"`
	Dt          float64   `json:"dt"`
	Steps       int       `json:"steps"`
	Iterations  int       `json:"iterations"`
	Termination string    `json:"termination"`
	Warnings    int       `json:"warnings"`
	FinalCosts  []float64 `json:"final_costs"`
}

// Save writes one solve's log under a fresh run directory and returns the
// run ID.
func (s *Store) Save(scenario string, log *solver.Log) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	final := log.Final()
	meta := RunMetadata{
		ID:          runID,
		Scenario:    scenario,
		Timestamp:   time.Now(),
		Dt:          log.Dt,
		Steps:       log.Steps,
		Iterations:  len(log.Iterates),
		Termination: string(log.Termination),
		Warnings:    log.Warnings,
		FinalCosts:  final.Costs,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeTrajectory(runDir, log); err != nil {
		return "", err
	}
	if err := s.writeCosts(runDir, log); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeTrajectory(runDir string, log *solver.Log) error {
	f, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	final := log.Final()
	op := final.Op
	n := op.Xs[0].Len()

	header := []string{"t"}
	for d := 0; d < n; d++ {
		header = append(header, "x"+strconv.Itoa(d))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k := 0; k < op.Steps(); k++ {
		row := []string{strconv.FormatFloat(op.TimeAt(k), 'g', -1, 64)}
		for d := 0; d < n; d++ {
			row = append(row, strconv.FormatFloat(op.Xs[k].AtVec(d), 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeCosts(runDir string, log *solver.Log) error {
	f, err := os.Create(filepath.Join(runDir, "costs.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"iterate"}
	for i := range log.Iterates[0].Costs {
		header = append(header, "player"+strconv.Itoa(i+1))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for idx, it := range log.Iterates {
		row := []string{strconv.Itoa(idx)}
		for _, c := range it.Costs {
			row = append(row, strconv.FormatFloat(c, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads a run's final trajectory: times and state rows.
func (s *Store) LoadTrajectory(runID string) ([]float64, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("trajectory for %s is empty", runID)
	}

	times := make([]float64, 0, len(rows)-1)
	states := make([][]float64, 0, len(rows)-1)
	for _, row := range rows[1:] {
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, nil, err
		}
		x := make([]float64, len(row)-1)
		for d := range x {
			if x[d], err = strconv.ParseFloat(row[d+1], 64); err != nil {
				return nil, nil, err
			}
		}
		times = append(times, t)
		states = append(states, x)
	}
	return times, states, nil
}

// List returns metadata for all stored runs, newest first.
func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	metas := make([]*RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Timestamp.After(metas[j].Timestamp)
	})
	return metas, nil
}
