package domain

// Unit is the native unit a factor is published in.
type Unit string

const (
	UnitPercent Unit = "percent" // rates and growth, percentage points
	UnitIndex   Unit = "index"   // price or level index
	UnitBps     Unit = "bps"     // basis points
	UnitLevel   Unit = "level"   // raw level (e.g. VIX)
)

// BaselineKind describes how a factor's T0 relates to its path.
type BaselineKind string

const (
	BaselineLevel  BaselineKind = "level"  // absolute level
	BaselineSpread BaselineKind = "spread" // already a spread between two series
)

// Factor is a canonical macro-financial variable.
type Factor struct {
	ID           string       // canonical identifier, e.g. "bbb_corp_spread"
	Name         string       // display name, e.g. "BBB Corp Spread"
	Unit         Unit         // native unit
	BaselineKind BaselineKind // level vs spread
}
