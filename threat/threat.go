package threat

// Level is the coarse severity assigned to a honeypot trigger.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Known trap identifiers. Trap types not listed here classify as low.
const (
	TrapAdmin      = "admin"
	TrapEnv        = "env"
	TrapSQL        = "sql"
	TrapAPI        = "api"
	TrapHiddenLink = "hidden-link"
)

// Classify maps a trap identifier to a threat level. The mapping is
// deterministic and total: unknown trap types are low, not an error.
func Classify(trapType string) Level {
	switch trapType {
	case TrapAdmin, TrapEnv, TrapSQL:
		return LevelHigh
	case TrapAPI, TrapHiddenLink:
		return LevelMedium
	default:
		return LevelLow
	}
}
