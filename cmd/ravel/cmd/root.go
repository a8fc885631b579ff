// Package cmd implements the Ravel CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (init, render, elements, status).
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-drift/ravel/cmd/ravel/internal/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(ctx context.Context, args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "ravel",
	Short: "Ravel - declarative DOM views for Go",
	Long: `Ravel builds a DOM tree from a declarative view description and keeps
it up to date in place as the application model changes.

This tool scaffolds new projects, renders the bundled demo apps against
an in-memory document and inspects the element, attribute and event
registry.

Use "ravel <command> --help" for more information about a command.`,
	Usage: "ravel <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// levelFromFlag is set when --log-level was given; it wins over LOG_LEVEL
// and ravel.yaml.
var levelFromFlag bool

// Execute runs the CLI with the given arguments.
func Execute(ctx context.Context, args []string) error {
	// Handle no arguments
	if len(args) == 0 {
		printHelp(os.Stdout, rootCmd)
		return nil
	}

	// Handle global flags and extract --log-level
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(os.Stdout, rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Printf("Ravel CLI version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--log-level":
			if i+1 >= len(args) {
				return fmt.Errorf("--log-level requires a level")
			}
			if err := setLogLevel(args[i+1]); err != nil {
				return err
			}
			levelFromFlag = true
			i++
		default:
			if level, ok := strings.CutPrefix(arg, "--log-level="); ok {
				if err := setLogLevel(level); err != nil {
					return err
				}
				levelFromFlag = true
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(os.Stdout, rootCmd)
		return nil
	}

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(os.Stderr, rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(os.Stdout, cmd)
			return nil
		}
	}

	return cmd.Run(ctx, cmdArgs)
}

// SetupLogging configures the global zerolog logger for the terminal. The
// level comes from LOG_LEVEL and defaults to info.
func SetupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func setLogLevel(level string) error {
	level = strings.ToLower(level)
	if err := config.ValidateLogLevel(level); err != nil {
		return err
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

// resolveConfig loads the project configuration, falling back to defaults
// outside a Go module. The configured log level applies unless LOG_LEVEL or
// --log-level chose one.
func resolveConfig() (*config.Resolved, error) {
	cfg := config.Defaults()
	if root, err := config.FindProjectRoot(); err == nil {
		cfg, err = config.Resolve(root)
		if err != nil {
			return nil, err
		}
	} else {
		log.Debug().Err(err).Msg("using default configuration")
	}
	if !levelFromFlag && os.Getenv("LOG_LEVEL") == "" {
		if err := setLogLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func printHelp(w io.Writer, cmd *Command) {
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(w, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -h, --help           Show help for a command")
	fmt.Fprintln(w, "  -v, --version        Show version information")
	fmt.Fprintln(w, "  --log-level LEVEL    Log level: debug, info, warn, error")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  LOG_LEVEL            Log level (lower priority than --log-level)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  ravel render counter          Render the counter demo")
	fmt.Fprintln(w, "  ravel render todo --steps 3   Add three todos and print the page")
	fmt.Fprintln(w, "  ravel elements --events       List supported events")
}

func printCommandHelp(w io.Writer, cmd *Command) {
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
}
