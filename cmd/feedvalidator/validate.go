package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/wpss-validators/internal/cliexit"
	"github.com/jonathan/wpss-validators/internal/config"
	"github.com/jonathan/wpss-validators/internal/feed"
	"github.com/jonathan/wpss-validators/internal/fetch"
	"github.com/jonathan/wpss-validators/internal/logging"
	"github.com/jonathan/wpss-validators/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// executable locates the running binary; local mode applies to links under
// its directory.
var executable = os.Executable

type feedFlags struct {
	configPath string
	verbose    bool
	timeout    string
	userAgent  string
}

func newRootCmd() *cobra.Command {
	flags := &feedFlags{}

	cmd := &cobra.Command{
		Use:   "feedvalidator [url-or-path] [A|AA|AAA]",
		Short: "Validate an RSS, Atom or JSON feed",
		Long: `Validates the web feed at the given URL or path and prints the problems found.

The optional compatibility level selects what is reported:
  A    errors only
  AA   errors and warnings (default, mimics the online validator)
  AAA  everything, including informational hints`,
		Args:          usageArgs(cobra.MaximumNArgs(2)),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeedValidator(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to JSON config file")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log diagnostics and a run summary to stderr")
	cmd.Flags().StringVar(&flags.timeout, "timeout", "", "Remote fetch timeout, e.g. 30s")
	cmd.Flags().StringVar(&flags.userAgent, "user-agent", "", "User-Agent header for remote fetches")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &cliexit.Error{Code: cliexit.Usage, Err: err}
	})

	return cmd
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &cliexit.Error{Code: cliexit.Usage, Err: err}
		}
		return nil
	}
}

func runFeedValidator(cmd *cobra.Command, args []string, flags *feedFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if flags.userAgent != "" {
		cfg.UserAgent = flags.userAgent
	}
	if err := cfg.Validate(); err != nil {
		return &cliexit.Error{Code: cliexit.Usage, Err: err}
	}
	verbose := flags.verbose || cfg.Verbose

	logger := logging.New(cmd.ErrOrStderr(), verbose)
	defer func() { _ = logger.Sync() }()

	level := cfg.Level
	if len(args) > 1 {
		level = args[1]
	}
	filter, err := feed.LookupFilter(level)
	if err != nil {
		return &cliexit.Error{Code: cliexit.Usage, Err: err}
	}

	arg := cfg.FeedURL
	if len(args) > 0 {
		arg = args[0]
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	link := TryEncodeIDNA(ResolveLink(arg, cwd))

	baseDir := ""
	if exe, err := executable(); err == nil {
		baseDir = BaseDir(exe)
	} else {
		logger.Warn("cannot locate executable, local mode disabled", zap.Error(err))
	}

	timeout, _ := cfg.TimeoutDuration()
	opts := feed.Options{
		FirstOccurrenceOnly: true,
		Fetch: &fetch.Options{
			Timeout:   timeout,
			UserAgent: cfg.UserAgent,
		},
	}

	local := IsLocal(link, baseDir)
	logger.Debug("validating feed",
		zap.String("link", link),
		zap.Bool("local", local),
		zap.String("level", level),
	)

	result, err := validateLink(cmd.Context(), link, baseDir, local, opts)
	if err != nil {
		return err
	}

	events := filter(result.events)
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintFeedRun(&observability.FeedRun{
			Link:     link,
			Local:    local,
			FeedType: result.feedType,
			Level:    level,
			Events:   result.events,
			Reported: len(events),
		})
	}

	if printEvents(cmd.OutOrStdout(), feed.FormatText(events)) {
		return cliexit.Silent(cliexit.Failure)
	}
	return nil
}

type validation struct {
	events   []feed.Event
	feedType string
}

// validateLink runs the engine on link. A fatal failure becomes the only
// event of the result.
func validateLink(ctx context.Context, link, baseDir string, local bool, opts feed.Options) (*validation, error) {
	var (
		result *feed.Result
		err    error
	)
	if local {
		res, fetchErr := fetch.URL(ctx, link, opts.Fetch)
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to open %s: %w", link, fetchErr)
		}
		result, err = feed.ValidateStream(bytes.NewReader(res.Body), opts, ReportingBase(link, baseDir))
	} else {
		result, err = feed.ValidateURL(ctx, link, opts)
	}

	if err != nil {
		var vf *feed.ValidationFailure
		if errors.As(err, &vf) {
			return &validation{events: []feed.Event{vf.Event}}, nil
		}
		return nil, err
	}
	return &validation{
		events:   result.LoggedEvents,
		feedType: feed.FeedTypeName(result.FeedType),
	}, nil
}

// printEvents writes the formatted report and reports whether anything
// was found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func printEvents(out io.Writer, lines []string) bool {
	if len(lines) == 0 {
		fmt.Fprintln(out, "No errors or warnings")
		return false
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
	fmt.Fprintln(out, "\nValidation failed")
	return true
}
