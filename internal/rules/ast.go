package rules

import (
	"fmt"

	"github.com/watchkeep/watchkeep/internal/store"
)

// Expr is one parsed predicate.
type Expr interface {
	fmt.Stringer
	expr()
}

// CompareOp is a numeric comparison operator.
type CompareOp string

const (
	OpGT  CompareOp = ">"
	OpGTE CompareOp = ">="
	OpLT  CompareOp = "<"
	OpLTE CompareOp = "<="
	OpEQ  CompareOp = "=="
)

// MetricThreshold matches when the most recent metric point with the given
// name in the window compares true against the threshold. Earlier points
// are ignored even if they would also match.
type MetricThreshold struct {
	Metric    string
	Op        CompareOp
	Threshold float64
}

func (MetricThreshold) expr() {}

func (m MetricThreshold) String() string {
	return fmt.Sprintf("metric:%s %s %g", m.Metric, m.Op, m.Threshold)
}

// LogLevelIs matches when any log record in the window has the given level.
// This is an existence check, not a count or recency check.
type LogLevelIs struct {
	Level store.Level
}

func (LogLevelIs) expr() {}

func (l LogLevelIs) String() string {
	return fmt.Sprintf("log.level == '%s'", l.Level)
}
