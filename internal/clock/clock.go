package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts the wall clock so run timestamps can be pinned in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

func New() Clock {
	return RealClock{}
}

var Module = fx.Module("clock",
	fx.Provide(New),
)
