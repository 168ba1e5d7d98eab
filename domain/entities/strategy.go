package entities

// StrategyName tags an interaction strategy
type StrategyName string

const (
	StrategyStandard   StrategyName = "standard-invoke"
	StrategyForce      StrategyName = "force-invoke"
	StrategyHover      StrategyName = "hover-then-invoke"
	StrategyScript     StrategyName = "script-invoke"
	StrategySynthetic  StrategyName = "synthetic-event-sequence"
	StrategyCoordinate StrategyName = "coordinate-invoke"
	StrategyDropdown   StrategyName = "dropdown-event-sequence"
	StrategyNone       StrategyName = "none"
)
