package settlement

import "fmt"

// Strategy identifies the algorithm used for a solve.
type Strategy int

const (
	// StrategyNone means there was nothing to settle.
	StrategyNone Strategy = iota
	// StrategyExact is direct matching followed by extreme pairing (small groups).
	StrategyExact
	// StrategyClustering solves magnitude clusters, then their residual (medium groups).
	StrategyClustering
	// StrategyHeuristic is the exact-match plus two-pointer sweep (large groups).
	StrategyHeuristic
	// StrategyOptimal is the bitmask subset search (small groups, opt-in).
	StrategyOptimal
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyExact:
		return "exact"
	case StrategyClustering:
		return "clustering"
	case StrategyHeuristic:
		return "heuristic"
	case StrategyOptimal:
		return "optimal"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Config tunes strategy selection.
type Config struct {
	// SmallGroupMax is the largest participant count handled by the small-group strategy.
	SmallGroupMax int

	// MediumGroupMax is the largest participant count handled by clustering.
	// Anything larger goes to the heuristic.
	MediumGroupMax int

	// ClusterCount is how many magnitude clusters medium groups are cut into.
	// Three keeps each cluster at four members or fewer across the default 7-12 range.
	ClusterCount int

	// ParallelClusters solves clusters concurrently.
	ParallelClusters bool

	// OptimalSmallGroups replaces the greedy small-group strategy with the
	// minimum-transaction subset search.
	OptimalSmallGroups bool
}

// DefaultConfig returns the standard thresholds: 2-6 exact, 7-12 clustering, 13+ heuristic.
func DefaultConfig() Config {
	return Config{
		SmallGroupMax:  6,
		MediumGroupMax: 12,
		ClusterCount:   3,
	}
}

// Validate checks that the thresholds are usable.
func (c Config) Validate() error {
	if c.SmallGroupMax < 2 {
		return fmt.Errorf("small group max must be at least 2, got %d", c.SmallGroupMax)
	}
	if c.MediumGroupMax < c.SmallGroupMax {
		return fmt.Errorf("medium group max %d is below small group max %d", c.MediumGroupMax, c.SmallGroupMax)
	}
	if c.ClusterCount < 1 {
		return fmt.Errorf("cluster count must be at least 1, got %d", c.ClusterCount)
	}
	if c.OptimalSmallGroups && c.SmallGroupMax > MaxOptimalParticipants {
		return fmt.Errorf("optimal small groups supports at most %d participants, small group max is %d",
			MaxOptimalParticipants, c.SmallGroupMax)
	}
	return nil
}

// Result is the outcome of one solve.
type Result struct {
	Strategy     Strategy
	Participants int // Non-dust balances considered
	Settlements  []Settlement
}

// Solver dispatches balances to a strategy by participant count.
// It holds only configuration and is safe for concurrent use.
type Solver struct {
	cfg Config
}

// New creates a Solver with the given configuration.
func New(cfg Config) *Solver {
	return &Solver{cfg: cfg}
}

// Select returns the strategy used for n non-dust balances.
func (s *Solver) Select(n int) Strategy {
	switch {
	case n < 2:
		return StrategyNone
	case n <= s.cfg.SmallGroupMax:
		if s.cfg.OptimalSmallGroups {
			return StrategyOptimal
		}
		return StrategyExact
	case n <= s.cfg.MediumGroupMax:
		return StrategyClustering
	default:
		return StrategyHeuristic
	}
}

// Solve computes the settlements that clear the given balances.
//
// Dust balances are ignored. Fewer than two remaining balances produce no
// settlements; a lone balance means the ledger was unbalanced upstream, which is
// not treated as an error. Invalid input returns an error wrapping ErrInvalidInput.
func (s *Solver) Solve(balances []Balance) (Result, error) {
	if err := Validate(balances); err != nil {
		return Result{}, err
	}

	active := make([]Balance, 0, len(balances))
	for _, b := range balances {
		if !IsDust(b.Amount) {
			active = append(active, b)
		}
	}

	result := Result{
		Strategy:     s.Select(len(active)),
		Participants: len(active),
	}

	switch result.Strategy {
	case StrategyExact:
		result.Settlements = solveExact(active)
	case StrategyOptimal:
		result.Settlements = solveOptimal(active)
	case StrategyClustering:
		result.Settlements = solveClustered(active, s.cfg.ClusterCount, s.cfg.ParallelClusters)
	case StrategyHeuristic:
		result.Settlements = solveHeuristic(active)
	}

	if result.Settlements == nil {
		result.Settlements = []Settlement{}
	}
	return result, nil
}

var defaultSolver = New(DefaultConfig())

// ComputeSettlements settles balances with the default configuration.
func ComputeSettlements(balances []Balance) ([]Settlement, error) {
	result, err := defaultSolver.Solve(balances)
	if err != nil {
		return nil, err
	}
	return result.Settlements, nil
}
