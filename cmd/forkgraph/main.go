// forkgraph renders a validator set's competing chain forks, with
// stake-weighted vote summaries, as a graphviz dot document.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/legioNpk/forkgraph/banks"
	"github.com/legioNpk/forkgraph/graph"
	"github.com/legioNpk/forkgraph/monitoring/tracing"
	"github.com/legioNpk/forkgraph/render"
	"github.com/legioNpk/forkgraph/runtime/version"
)

var log = logrus.WithField("prefix", "forkgraph")

var appFlags = struct {
	Snapshot            string
	Output              string
	VoteAccountMode     string
	IncludeAllVotes     bool
	Verbosity           string
	EnableTracing       bool
	TracingProcessName  string
	TracingEndpoint     string
	TraceSampleFraction float64
}{}

func main() {
	app := &cli.App{
		Name:    "forkgraph",
		Usage:   "render a fork snapshot as a graphviz dot document",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "snapshot",
				Usage:       "path to the fork snapshot file (json, yaml)",
				Destination: &appFlags.Snapshot,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "output",
				Usage:       "output path; .pdf and .png are rendered through graphviz dot, anything else is written as raw dot text, empty writes to stdout",
				Destination: &appFlags.Output,
			},
			&cli.StringFlag{
				Name:        "vote-account-mode",
				Usage:       fmt.Sprintf("how to annotate validator vote accounts, one of: %s", strings.Join(graph.VoteAccountModeStrings, ", ")),
				Destination: &appFlags.VoteAccountMode,
				Value:       graph.VoteAccountsDisabled.String(),
			},
			&cli.BoolFlag{
				Name:        "include-all-votes",
				Usage:       "annotate every historical vote, not just each validator's latest",
				Destination: &appFlags.IncludeAllVotes,
			},
			&cli.StringFlag{
				Name:        "verbosity",
				Usage:       "logging verbosity (trace, debug, info, warn, error, fatal, panic)",
				Destination: &appFlags.Verbosity,
				Value:       "info",
			},
			&cli.BoolFlag{
				Name:        "enable-tracing",
				Usage:       "enable request tracing",
				Destination: &appFlags.EnableTracing,
			},
			&cli.StringFlag{
				Name:        "tracing-process-name",
				Usage:       "name to apply to tracing tag process_name",
				Destination: &appFlags.TracingProcessName,
				Value:       "forkgraph",
			},
			&cli.StringFlag{
				Name:        "tracing-endpoint",
				Usage:       "tracing endpoint defines where forkgraph sends traces",
				Destination: &appFlags.TracingEndpoint,
				Value:       "http://127.0.0.1:14268/api/traces",
			},
			&cli.Float64Flag{
				Name:        "trace-sample-fraction",
				Usage:       "indicate what fraction of pipeline runs are sampled for tracing",
				Destination: &appFlags.TraceSampleFraction,
				Value:       0.20,
			},
		},
		Before: func(_ *cli.Context) error {
			level, err := logrus.ParseLevel(appFlags.Verbosity)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return tracing.Setup(
				appFlags.TracingProcessName,
				appFlags.TracingEndpoint,
				appFlags.TraceSampleFraction,
				appFlags.EnableTracing,
			)
		},
		Action: cliActionGraph,
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Could not render fork graph")
	}
}

func cliActionGraph(_ *cli.Context) error {
	mode, err := graph.ParseVoteAccountMode(appFlags.VoteAccountMode)
	if err != nil {
		return err
	}
	forks, err := banks.Load(appFlags.Snapshot)
	if err != nil {
		return err
	}
	log.WithField("banks", humanize.Comma(int64(forks.Len()))).Info("Loaded fork snapshot")

	doc, err := graph.Build(context.Background(), forks, &graph.Config{
		IncludeAllVotes: appFlags.IncludeAllVotes,
		VoteAccountMode: mode,
	})
	if err != nil {
		return err
	}

	if err := render.Output(doc, appFlags.Output); err != nil {
		// The document survives a sink failure and can be retried
		// against a different output.
		log.WithError(err).WithField("output", appFlags.Output).Error("Could not write fork graph")
		return err
	}
	if appFlags.Output != "" {
		log.WithField("output", appFlags.Output).Info("Wrote fork graph")
	}
	return nil
}
