package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jonathan/wpss-validators/internal/cliexit"
	"github.com/jonathan/wpss-validators/internal/config"
	"github.com/jonathan/wpss-validators/internal/logging"
	"github.com/jonathan/wpss-validators/internal/observability"
	"github.com/jonathan/wpss-validators/internal/schemas"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const usageText = `Error, missing command line arguments
Usage: json_schema_validator <schema> <data> [ <max errors> ]

 Where: <schema> is the path to the JSON schema file
        <data> is the path to the JSON data file
        <max errors> an optional parameter to indicate the maximum number
        of errors to report. The default is to report all errors.
`

type schemaFlags struct {
	configPath string
	engine     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &schemaFlags{}

	cmd := &cobra.Command{
		Use:   "json_schema_validator <schema> <data> [max-errors]",
		Short: "Validate a JSON document against a Draft-4 JSON Schema",
		Long: `Validates the JSON (or YAML) data file against the JSON Schema file and prints
one report block per validation error. A positive max-errors aborts the run with
status 1 once that many errors were reported and another one is found.`,
		Args:          usageArgs(cobra.MaximumNArgs(3)),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaValidator(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to JSON config file")
	cmd.Flags().StringVar(&flags.engine, "engine", "", "Schema engine: santhosh or gojsonschema (default santhosh)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log diagnostics and a run summary to stderr")

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

//nolint:errcheck // writing to stdout; errors are not recoverable
func printUsage(out io.Writer) {
	fmt.Fprint(out, usageText)
}

// parseMaxErrors reads the optional error cap; zero means unlimited.
func parseMaxErrors(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, cliexit.UsageError("max errors must be a non-negative integer: %q", s)
	}
	return n, nil
}

func runSchemaValidator(cmd *cobra.Command, args []string, flags *schemaFlags) error {
	if len(args) < 2 {
		printUsage(cmd.OutOrStdout())
		return cliexit.Silent(cliexit.Usage)
	}
	schemaFile, dataFile := args[0], args[1]

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.engine != "" {
		cfg.Engine = flags.engine
	}
	maxErrors := cfg.MaxErrors
	if len(args) > 2 {
		if maxErrors, err = parseMaxErrors(args[2]); err != nil {
			return err
		}
	}
	verbose := flags.verbose || cfg.Verbose

	logger := logging.New(cmd.ErrOrStderr(), verbose)
	defer func() { _ = logger.Sync() }()

	engine, err := schemas.LookupEngine(cfg.Engine)
	if err != nil {
		return &cliexit.Error{Code: cliexit.Usage, Err: err}
	}

	start := time.Now()
	schemaDoc, err := schemas.LoadDocument(schemaFile)
	if err != nil {
		return err
	}
	data, err := schemas.LoadDocument(dataFile)
	if err != nil {
		return err
	}

	validator, err := engine.Compile(schemaFile, schemaDoc)
	if err != nil {
		return err
	}
	logger.Debug("schema compiled",
		zap.String("schema", schemaFile),
		zap.String("engine", cfg.Engine),
		zap.Duration("elapsed", time.Since(start)),
	)

	findings, err := validator.Validate(data)
	if err != nil {
		return fmt.Errorf("failed to validate %s: %w", dataFile, err)
	}
	logger.Debug("validation finished",
		zap.String("data", dataFile),
		zap.Int("findings", len(findings)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintSchemaRun(&observability.SchemaRun{
			SchemaFile: schemaFile,
			DataFile:   dataFile,
			Engine:     cfg.Engine,
			MaxErrors:  maxErrors,
			Findings:   findings,
		})
	}

	report := &schemas.Report{Out: cmd.OutOrStdout(), MaxErrors: maxErrors}
	if err := report.Write(data, findings); err != nil {
		if errors.Is(err, schemas.ErrTooManyErrors) {
			return cliexit.Silent(cliexit.Failure)
		}
		return err
	}
	return nil
}
