package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cybertec-postgresql/sqlpreparse/internal/cli"
	"github.com/cybertec-postgresql/sqlpreparse/internal/logger"
	urfavecli "github.com/urfave/cli/v3"
)

const version = "1.0.0"

// configFlags are shared by every command that needs a configuration
func configFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file",
		},
		&urfavecli.BoolFlag{
			Name:  "delimited-identifiers",
			Usage: `Treat "..." as an identifier instead of a string`,
		},
		&urfavecli.BoolFlag{
			Name:  "bracket-substitution",
			Usage: "Scan [name] as a delimited identifier",
		},
		&urfavecli.IntFlag{
			Name:  "add-row-id",
			Usage: "Inject row-ID projections (0 off, 1 after SELECT, 2 also after ORDER BY)",
		},
		&urfavecli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug output",
		},
	}
}

func workloadFileFlag() urfavecli.Flag {
	return &urfavecli.StringFlag{
		Name:  "workload-file",
		Usage: "Workload summary path",
	}
}

func connectionFlag() urfavecli.Flag {
	return &urfavecli.StringFlag{
		Name:    "connection",
		Aliases: []string{"c"},
		Usage:   "PostgreSQL connection string (URI or key=value format). Supports standard PG* environment variables.",
	}
}

func main() {
	app := &urfavecli.Command{
		Name:    "preparse",
		Usage:   "Client-side SQL pre-parser and workload checker",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "rewrite",
				Usage:     "Pre-parse one statement and show the result",
				ArgsUsage: "<sql | ->",
				Action:    rewriteCommand,
				Flags: append(configFlags(),
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (text or json)",
						Value: "text",
					},
				),
			},
			{
				Name:      "check",
				Usage:     "Pre-parse every statement of a workload",
				ArgsUsage: "[path]",
				Action:    checkCommand,
				Flags: append(configFlags(),
					workloadFileFlag(),
					&urfavecli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum concurrent workers (1 = sequential)",
					},
					&urfavecli.IntFlag{
						Name:  "cache-size",
						Usage: "Statements kept by the shared cache (0 = no cache)",
					},
				),
			},
			{
				Name:   "report",
				Usage:  "Generate a workload report",
				Action: reportCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (json or text)",
						Value: "text",
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (use - for stdout)",
						Value:   "-",
					},
					&urfavecli.StringFlag{
						Name:  "workload-file",
						Usage: "Workload summary input path",
						Value: ".preparse/workload.json",
					},
				},
			},
			{
				Name:   "catalog",
				Usage:  "Store the workload's statement shapes in PostgreSQL",
				Action: catalogCommand,
				Flags: append(configFlags(),
					workloadFileFlag(),
					connectionFlag(),
					&urfavecli.BoolFlag{
						Name:  "list",
						Usage: "Print the catalog instead of updating it",
					},
				),
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file and the flags of cmd
func loadConfig(cmd *urfavecli.Command) (*cli.Config, error) {
	flags := cli.Flags{
		Connection:   cmd.String("connection"),
		Parallel:     int(cmd.Int("parallel")),
		WorkloadFile: cmd.String("workload-file"),
		Verbose:      cmd.Bool("verbose"),
	}
	if cmd.IsSet("cache-size") {
		v := int(cmd.Int("cache-size"))
		flags.CacheSize = &v
	}
	if cmd.IsSet("delimited-identifiers") {
		v := cmd.Bool("delimited-identifiers")
		flags.DelimitedIdentifiers = &v
	}
	if cmd.IsSet("bracket-substitution") {
		v := cmd.Bool("bracket-substitution")
		flags.BracketSubstitution = &v
	}
	if cmd.IsSet("add-row-id") {
		v := int(cmd.Int("add-row-id"))
		flags.AddRowID = &v
	}

	config, err := cli.LoadConfig(cmd.String("config"), flags)
	if err != nil {
		return nil, err
	}
	logger.SetVerbose(config.Verbose)
	return config, nil
}

// exitOnConfigError exits with status 2 like other usage errors
func exitOnConfigError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(2)
}

// rewriteCommand handles the 'preparse rewrite' command
func rewriteCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		exitOnConfigError(err)
	}

	query := strings.Join(cmd.Args().Slice(), " ")
	if query == "-" || query == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read statement from stdin: %w", err)
		}
		query = strings.TrimSpace(string(data))
	}

	return cli.Rewrite(os.Stdout, config, query, cmd.String("format"))
}

// checkCommand handles the 'preparse check' command
func checkCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		exitOnConfigError(err)
	}

	// Get search path (first non-flag argument, default to current directory)
	searchPath := cmd.Args().First()
	if searchPath == "" {
		searchPath = "."
	}

	exitCode, err := cli.Check(ctx, os.Stdout, config, searchPath)
	if err != nil {
		return err
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}

	return nil
}

// reportCommand handles the 'preparse report' command
func reportCommand(ctx context.Context, cmd *urfavecli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")
	workloadFile := cmd.String("workload-file")

	return cli.Report(os.Stdout, workloadFile, format, output)
}

// catalogCommand handles the 'preparse catalog' command
func catalogCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		exitOnConfigError(err)
	}

	return cli.Catalog(ctx, os.Stdout, config, cmd.Bool("list"))
}
