package bootstrapper

// State is a step of the bootstrap state machine.
type State string

// States in the order an invocation visits them. Exactly one of StateReuse
// and StateBuild is visited.
const (
	StateStart        State = "START"
	StateLocateConfig State = "LOCATE_CONFIG"
	StateParseConfig  State = "PARSE_CONFIG"
	StateFingerprint  State = "FINGERPRINT"
	StateCacheLookup  State = "CACHE_LOOKUP"
	StateReuse        State = "REUSE"
	StateBuild        State = "BUILD"
	StateReady        State = "READY"
)

// stageName is the span name of a state.
func (s State) stageName() string {
	switch s {
	case StateLocateConfig:
		return "locate config"
	case StateParseConfig:
		return "parse config"
	case StateFingerprint:
		return "fingerprint"
	case StateCacheLookup:
		return "cache lookup"
	case StateReuse:
		return "reuse environment"
	case StateBuild:
		return "build environment"
	default:
		return string(s)
	}
}
