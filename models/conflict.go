package models

import "fmt"

// Strategy selects how the engine resolves divergence reported by the remote
// authority. All strategies are deterministic except StrategyManual.
type Strategy string

const (
	// StrategyClientWins force-resends the local payload through the
	// override path until the remote authority acknowledges it.
	StrategyClientWins Strategy = "client_wins"

	// StrategyServerWins discards the local payload and accepts the remote
	// state as authoritative.
	StrategyServerWins Strategy = "server_wins"

	// StrategyMerge attempts a shallow field-level merge of the two
	// payloads and falls back to StrategyManual when they are not
	// mergeable.
	StrategyMerge Strategy = "merge"

	// StrategyManual suspends the item until an external actor supplies a
	// terminal decision via the status surface.
	StrategyManual Strategy = "manual"
)

// Validate reports whether s is one of the recognized strategies.
func (s Strategy) Validate() error {
	switch s {
	case StrategyClientWins, StrategyServerWins, StrategyMerge, StrategyManual:
		return nil
	}
	return fmt.Errorf("unknown conflict resolution strategy %q", s)
}

// Decision is the terminal choice an external actor makes for a suspended
// conflict.
type Decision string

const (
	DecisionUseLocal    Decision = "use_local"
	DecisionUseRemote   Decision = "use_remote"
	DecisionMergeResult Decision = "merge_result"
)

// Validate reports whether d is one of the recognized decisions.
func (d Decision) Validate() error {
	switch d {
	case DecisionUseLocal, DecisionUseRemote, DecisionMergeResult:
		return nil
	}
	return fmt.Errorf("unknown conflict decision %q", d)
}

// Resolution carries an external decision for one suspended conflict.
// MergedPayload is required only for DecisionMergeResult.
type Resolution struct {
	Decision      Decision `json:"decision"`
	MergedPayload Payload  `json:"merged_payload,omitempty"`
}
