package andersen

import (
	"time"

	"github.com/irssa/ptranalysis/ir"
)

// TimeFunction runs Intra-style analysis of fn runCount times, discarding
// the results, and returns the total elapsed time. It exists to support the
// CSV timing mode, which times each function independently of whatever
// mode's results are being printed.
func TimeFunction(mod *ir.Module, fn *ir.Function, runCount int) time.Duration {
	reg := buildRegistry(mod)
	start := time.Now()
	for i := 0; i < runCount; i++ {
		analyzeFunction(mod, reg, fn)
	}
	return time.Since(start)
}
