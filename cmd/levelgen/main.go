package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/crystal-levels/internal/archive"
	"github.com/vancomm/crystal-levels/internal/config"
	"github.com/vancomm/crystal-levels/internal/level"
)

var log = logrus.New()

type options struct {
	params  level.Params
	seed    string
	profile string
	archive string
	load    string
	report  bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("levelgen", flag.ContinueOnError)
	fs.IntVar(&opts.params.Width, "width", 22, "level width including the outer wall")
	fs.IntVar(&opts.params.Height, "height", 16, "level height including the outer wall")
	fs.Func("size", "width and height as WxH, e.g. 22x16", func(s string) error {
		params, err := level.ParseParams(s)
		if err != nil {
			return err
		}
		opts.params = *params
		return nil
	})
	fs.StringVar(&opts.seed, "seed", "", "seed for a reproducible level (random when empty)")
	fs.StringVar(&opts.profile, "profile", "", "generator profile YAML")
	fs.StringVar(&opts.archive, "archive", "", "sqlite file to keep levels in")
	fs.StringVar(&opts.load, "load", "", "print the archived level with this key instead of generating")
	fs.BoolVar(&opts.report, "report", false, "print the reachability report instead of the level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.load != "" && opts.archive == "" {
		return nil, errors.New("-load needs -archive")
	}
	return opts, nil
}

func loadProfile(path string) (*config.Profile, error) {
	if path == "" {
		return config.NewGenerator()
	}
	return config.LoadProfile(path)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	var arc *archive.Archive
	if opts.archive != "" {
		if arc, err = archive.Open(opts.archive); err != nil {
			return err
		}
		defer arc.Close()
	}

	var lvl *level.Level
	if opts.load != "" {
		if lvl, err = arc.Level(opts.load); err != nil {
			return fmt.Errorf("unable to load %q: %w", opts.load, err)
		}
	} else {
		if err := opts.params.Validate(); err != nil {
			return err
		}
		profile, err := loadProfile(opts.profile)
		if err != nil {
			return err
		}

		seed := level.RandomSeed()
		if opts.seed != "" {
			if seed, err = strconv.ParseUint(opts.seed, 10, 64); err != nil {
				return fmt.Errorf("invalid seed: %w", err)
			}
		}

		lvl, err = level.NewGenerator(profile.Options()).GenerateSeed(ctx, opts.params, seed)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"params":   opts.params.String(),
			"seed":     seed,
			"attempts": lvl.Attempts,
		}).Info("level generated")

		if arc != nil {
			key, err := arc.PutLevel(lvl)
			if err != nil {
				return fmt.Errorf("unable to archive level: %w", err)
			}
			log.WithField("key", key).Info("level archived")
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if opts.report {
		return enc.Encode(lvl.Analyzer().Report(lvl.RequiredCrystals, lvl.Exit))
	}
	return enc.Encode(lvl)
}

func main() {
	logger, err := config.NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	log = logger
	level.Log = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error(err)
		os.Exit(1)
	}
}
