package sim

import "fmt"

// NewEngine constructs the engine named by kind: "process" for an external
// simulator binary (bin required) or "demo" for the built-in synthetic
// world.
func NewEngine(kind, bin string) (Engine, error) {
	switch kind {
	case "process":
		if bin == "" {
			return nil, fmt.Errorf("process engine requires a simulator binary")
		}
		return &ProcessEngine{Bin: bin}, nil
	case "demo":
		return DemoEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown engine kind %q (want \"process\" or \"demo\")", kind)
	}
}
