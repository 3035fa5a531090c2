package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

var (
	ErrUnknownShell = errors.New("unknown shell")
	ErrShellFull    = errors.New("shell at capacity")
	ErrShellsFull   = errors.New("all shells at capacity")
	ErrBadShell     = errors.New("invalid shell definition")
)

// DefaultShellSet returns the canonical orbital shell configuration.
// One altitude table is kept on purpose; see DESIGN.md for the choice.
func DefaultShellSet() []model.Shell {
	return []model.Shell{
		{
			ID: model.ShellLEO, Name: "Low Earth Orbit",
			LatBandDeg: 60, AltMinKm: 500, AltMaxKm: 1200,
			MinSeparationDeg: 2.0, Capacity: 2000, Priority: 0,
		},
		{
			ID: model.ShellSSO, Name: "Sun-Synchronous",
			LatBandDeg: 90, AltMinKm: 600, AltMaxKm: 800,
			MinSeparationDeg: 3.0, InclinationDeg: 97.6, SunSynchronous: true,
			Capacity: 400, Priority: 1,
		},
		{
			ID: model.ShellMEO, Name: "Medium Earth Orbit",
			LatBandDeg: 55, AltMinKm: 8000, AltMaxKm: 20000,
			MinSeparationDeg: 5.0, Capacity: 600, Priority: 2,
		},
		{
			ID: model.ShellGEO, Name: "Geostationary",
			LatBandDeg: 5, AltMinKm: 35786, AltMaxKm: 35786,
			MinSeparationDeg: 1.0, Capacity: 180, Priority: 3,
		},
	}
}

// ShellAssigner selects the orbital shell for the next satellite by
// minimizing a weighted blend of normalized congestion and occupancy
// relative to capacity. Ties break on the fixed shell priority order,
// so identical inputs always produce identical assignments.
type ShellAssigner struct {
	shells []model.Shell // sorted by Priority

	CongestionWeight float64
	OccupancyWeight  float64
}

// NewShellAssigner validates the shell set and builds an assigner with
// the default 60/40 congestion/occupancy weighting.
func NewShellAssigner(shells []model.Shell) (*ShellAssigner, error) {
	if len(shells) == 0 {
		return nil, fmt.Errorf("%w: empty shell set", ErrBadShell)
	}
	seen := make(map[model.ShellID]bool, len(shells))
	for _, s := range shells {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: empty shell ID", ErrBadShell)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: duplicate shell %q", ErrBadShell, s.ID)
		}
		seen[s.ID] = true
		if s.Capacity <= 0 {
			return nil, fmt.Errorf("%w: shell %q capacity %d", ErrBadShell, s.ID, s.Capacity)
		}
		if s.MinSeparationDeg < 0 {
			return nil, fmt.Errorf("%w: shell %q separation %v", ErrBadShell, s.ID, s.MinSeparationDeg)
		}
		if s.AltMinKm > s.AltMaxKm || s.AltMinKm < 0 {
			return nil, fmt.Errorf("%w: shell %q altitude range [%v, %v]", ErrBadShell, s.ID, s.AltMinKm, s.AltMaxKm)
		}
		if s.LatBandDeg <= 0 || s.LatBandDeg > 90 {
			return nil, fmt.Errorf("%w: shell %q latitude band %v", ErrBadShell, s.ID, s.LatBandDeg)
		}
	}

	sorted := make([]model.Shell, len(shells))
	copy(sorted, shells)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	return &ShellAssigner{
		shells:           sorted,
		CongestionWeight: 0.6,
		OccupancyWeight:  0.4,
	}, nil
}

// Shells returns a copy of the shell set in priority order.
func (a *ShellAssigner) Shells() []model.Shell {
	out := make([]model.Shell, len(a.shells))
	copy(out, a.shells)
	return out
}

// Shell looks up a shell definition by ID.
func (a *ShellAssigner) Shell(id model.ShellID) (model.Shell, error) {
	for _, s := range a.shells {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Shell{}, fmt.Errorf("%w: %q", ErrUnknownShell, id)
}

// Assign picks the shell with the lowest weighted score. Shells already
// at capacity are not considered. A non-empty forced ID bypasses the
// scoring entirely but is still checked against that shell's capacity
// before committing.
func (a *ShellAssigner) Assign(congestion map[model.ShellID]float64, occupancy map[model.ShellID]int, forced model.ShellID) (model.Shell, error) {
	if forced != "" {
		s, err := a.Shell(forced)
		if err != nil {
			return model.Shell{}, err
		}
		if occupancy[s.ID] >= s.Capacity {
			return model.Shell{}, fmt.Errorf("%w: forced shell %q has %d/%d", ErrShellFull, s.ID, occupancy[s.ID], s.Capacity)
		}
		return s, nil
	}

	// Normalize congestion against the worst shell so the two score
	// terms live on comparable [0, 1] scales.
	maxCong := 0.0
	for _, s := range a.shells {
		if c := congestion[s.ID]; c > maxCong {
			maxCong = c
		}
	}

	best := -1
	bestScore := 0.0
	for i, s := range a.shells {
		occ := occupancy[s.ID]
		if occ >= s.Capacity {
			continue
		}

		normCong := 0.0
		if maxCong > 0 {
			normCong = congestion[s.ID] / maxCong
		}
		occFrac := float64(occ) / float64(s.Capacity)

		score := a.CongestionWeight*normCong + a.OccupancyWeight*occFrac
		// Strict less keeps the earliest (highest-priority) shell on ties.
		if best == -1 || score < bestScore {
			best = i
			bestScore = score
		}
	}
	if best == -1 {
		return model.Shell{}, ErrShellsFull
	}
	return a.shells[best], nil
}
