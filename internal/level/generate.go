package level

import (
	"context"
	"errors"
	"hash/maphash"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// NewRand returns a PCG source fully determined by seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func RandomSeed() uint64 {
	return new(maphash.Hash).Sum64()
}

type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

func (gen *Generator) Options() Options {
	return gen.opts
}

// Generate builds and verifies levels until one is solvable, the attempt
// budget runs out or ctx is done. Rejected attempts are thrown away whole.
func (gen *Generator) Generate(ctx context.Context, params Params, r *rand.Rand) (lvl *Level, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			var ae AssertionError
			if e, ok := rec.(error); ok && errors.As(e, &ae) {
				lvl, err = nil, ae
				return
			}
			panic(rec)
		}
	}()

	if gen.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, gen.opts.Timeout)
		defer cancel()
	}

	var last error
	attempt := 0
	for gen.opts.MaxAttempts <= 0 || attempt < gen.opts.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, &GenerationError{Params: params, Attempts: attempt, Last: err}
		}
		attempt++

		var res AttemptResult
		lvl, res = gen.attempt(params, r)
		res.Attempt = attempt
		if gen.opts.OnAttempt != nil {
			gen.opts.OnAttempt(res)
		}
		if res.Err == nil {
			lvl.Attempts = attempt
			Log.WithFields(logrus.Fields{
				"params":   params.String(),
				"attempts": attempt,
				"crystals": lvl.RequiredCrystals,
			}).Debug("level accepted")
			return lvl, nil
		}
		last = res.Err
		Log.WithFields(logrus.Fields{
			"params":  params.String(),
			"attempt": attempt,
		}).WithError(res.Err).Trace("attempt rejected")
	}

	return nil, &GenerationError{Params: params, Attempts: attempt, Last: last}
}

// GenerateSeed is Generate with a source built from seed; the seed is kept
// on the level so it can be rebuilt.
func (gen *Generator) GenerateSeed(ctx context.Context, params Params, seed uint64) (*Level, error) {
	lvl, err := gen.Generate(ctx, params, NewRand(seed))
	if err != nil {
		return nil, err
	}
	lvl.Seed = seed
	return lvl, nil
}

func (gen *Generator) attempt(params Params, r *rand.Rand) (*Level, AttemptResult) {
	res := AttemptResult{Params: params}

	g := NewGrid(params.Unpack())
	g.FillInterior(Floor)

	p := NewPlacer(r, gen.opts)
	for range gen.opts.Passes {
		p.Pass(g)
	}
	res.Crystals, res.Blocks = p.Crystals, p.Blocks

	player, exit, err := p.PlayerAndExit(g)
	if err != nil {
		res.Err = err
		return nil, res
	}

	if !NewAnalyzer(g, player, p.Blocks).Solvable(p.Crystals, exit) {
		res.Err = ErrUnsolvable
		return nil, res
	}

	return &Level{
		Grid:             g,
		RequiredCrystals: p.Crystals,
		Player:           player,
		Exit:             exit,
	}, res
}

// Generate runs a generator with [DefaultOptions].
func Generate(ctx context.Context, params Params, r *rand.Rand) (*Level, error) {
	return NewGenerator(DefaultOptions()).Generate(ctx, params, r)
}
