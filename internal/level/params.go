package level

import (
	"fmt"
	"time"
)

const (
	MinSize = 3
	MaxSize = 256
)

type Params struct {
	Width, Height int
}

func (p Params) Unpack() (w int, h int) {
	return p.Width, p.Height
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

func ParseParams(s string) (*Params, error) {
	p := &Params{}
	n, err := fmt.Sscanf(s, "%dx%d", &p.Width, &p.Height)
	if n != 2 || err != nil {
		return nil, fmt.Errorf(
			`invalid level params (s = "%s", n = %d, err = %w)`, s, n, err,
		)
	}
	return p, nil
}

// Validate rejects sizes a caller should never ask for. Generate itself does
// not call it: a grid too small for any feature just keeps failing attempts.
func (p Params) Validate() error {
	if p.Width < MinSize || p.Width > MaxSize {
		return fmt.Errorf("width must be in [%d, %d], got %d", MinSize, MaxSize, p.Width)
	}
	if p.Height < MinSize || p.Height > MaxSize {
		return fmt.Errorf("height must be in [%d, %d], got %d", MinSize, MaxSize, p.Height)
	}
	return nil
}

type Options struct {
	// Passes is the number of vault/depot placements tried per attempt.
	Passes int
	// MaxAttempts caps build-and-verify cycles; <= 0 retries forever.
	MaxAttempts int
	// Timeout bounds a single Generate call; 0 means no limit.
	Timeout time.Duration

	DepotBlockChance float64
	DepotWallChance  float64

	// OnAttempt, when set, is called after every attempt.
	OnAttempt func(AttemptResult)
}

func DefaultOptions() Options {
	return Options{
		Passes:           5,
		MaxAttempts:      1000,
		Timeout:          0,
		DepotBlockChance: 0.7,
		DepotWallChance:  0.3,
	}
}

type AttemptResult struct {
	Params   Params
	Attempt  int
	Crystals int
	Blocks   int
	// Err is nil for the accepted attempt.
	Err error
}
