package main

import (
	"context"
	"errors"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout"
	logpkg "github.com/kailas-cloud/cityscout/internal/logger"
	"github.com/kailas-cloud/cityscout/internal/version"
)

// app is the state shared by the subcommands once the dataset is loaded.
type app struct {
	out      io.Writer
	dataPath string
	logLevel string
	seed     uint64
	compact  bool

	engine *cityscout.Engine
	table  *cityscout.Table
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "cityctl",
		Short:         "Analyze and rank travel destinations from a city CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.String(),
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.dataPath, "data", "", "path to the city CSV")
	pf.StringVar(&a.logLevel, "log-level", "", "log level on stderr (debug, info, warn, error)")
	pf.Uint64Var(&a.seed, "seed", 0, "seed for the randomized stages (default 42)")
	pf.BoolVar(&a.compact, "compact", false, "print JSON on one line")

	root.AddCommand(
		newPCACmd(a),
		newClusterCmd(a),
		newElbowCmd(a),
		newSimilarCmd(a),
		newRecommendCmd(a),
	)
	return root
}

// load builds the engine and reads the dataset. Subcommands call it first.
func (a *app) load(ctx context.Context) (context.Context, error) {
	if a.dataPath == "" {
		return ctx, errors.New("--data is required")
	}
	log, err := logpkg.NewCLI(a.logLevel)
	if err != nil {
		return ctx, err
	}
	ctx = logpkg.ContextWithLogger(ctx, log)

	opts := []cityscout.Option{cityscout.WithLogger(log)}
	if a.seed != 0 {
		opts = append(opts, cityscout.WithSeed(a.seed))
	}
	a.engine = cityscout.New(opts...)

	a.table, err = a.engine.LoadFile(ctx, a.dataPath)
	if err != nil {
		return ctx, err
	}
	log.Debug("Dataset ready", zap.Int("rows", a.table.Len()))
	return ctx, nil
}

func (a *app) print(v any) error {
	var (
		data []byte
		err  error
	)
	if a.compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = a.out.Write(data)
	return err
}
