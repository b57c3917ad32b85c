package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/debug"
	"github.com/helpscout/helpscout-cli/internal/iocontext"
	"github.com/helpscout/helpscout-cli/internal/outfmt"
	"github.com/helpscout/helpscout-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Compact         bool
	Plain           bool
	IncludeMetadata bool
	Fields          string
	Query           string
	Debug           bool
	Timeout         time.Duration
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = rootFlags{Timeout: api.DefaultTimeout}

// loadDotEnv loads ./.env when present. Variables already set in the
// environment are not overwritten, so explicit exports always take
// precedence.
func loadDotEnv() {
	_ = godotenv.Load()
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	loadDotEnv()

	// Reset flags to defaults for each execution. This is critical for test
	// isolation; see the invariant comment on the flags declaration above.
	flags = rootFlags{Timeout: api.DefaultTimeout}

	root := &cobra.Command{
		Use:                "helpscout",
		Short:              "CLI for the Help Scout Mailbox API",
		Long:               "Work with Help Scout conversations, customers, tags, workflows and mailboxes from the command line.\nResults are printed as JSON on stdout; failures print a JSON error envelope.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // We provide our own did-you-mean via enhanceUnknownError
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.Timeout < 0 {
				return reportError(cmd, api.NewValidationError("--timeout must be >= 0"))
			}
			if raw := strings.TrimSpace(os.Getenv(api.EnvBaseURL)); raw != "" {
				if err := validation.BaseURL(raw); err != nil {
					return reportError(cmd, api.NewValidationError("Invalid %s: %v", api.EnvBaseURL, err))
				}
			}

			ctx = outfmt.WithOptions(ctx, outfmt.Options{
				Compact: flags.Compact,
				Slim:    !flags.IncludeMetadata,
				Plain:   flags.Plain,
				Fields:  outfmt.ParseFields(flags.Fields),
				Query:   strings.TrimSpace(flags.Query),
			})

			ioStreams := iocontext.DefaultIO()
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			debug.SetupLogger(flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	root.PersistentFlags().BoolVarP(&flags.Compact, "compact", "c", false, "Single-line JSON output")
	root.PersistentFlags().BoolVarP(&flags.Plain, "plain", "p", false, "Convert HTML message bodies to plain text")
	root.PersistentFlags().BoolVar(&flags.IncludeMetadata, "include-metadata", false, "Keep _links and _embedded in output")
	root.PersistentFlags().StringVarP(&flags.Fields, "fields", "f", "", "Comma-separated fields to keep in output")
	root.PersistentFlags().StringVar(&flags.Query, "jq", "", "jq expression applied to the processed output")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")

	// Short aliases for persistent flags
	flagAlias(root.PersistentFlags(), "compact", "compact-json")
	flagAlias(root.PersistentFlags(), "jq", "filter")
	flagAlias(root.PersistentFlags(), "debug", "dbg")
	flagAlias(root.PersistentFlags(), "timeout", "to")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newConversationsCmd())
	root.AddCommand(newCustomersCmd())
	root.AddCommand(newTagsCmd())
	root.AddCommand(newWorkflowsCmd())
	root.AddCommand(newMailboxesCmd())
	root.AddCommand(newMCPCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			enhanced := enhanceUnknownError(err, root, targetCmd)
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanced) //nolint:errcheck
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()
	parent := root
	if targetCmd != nil {
		parent = targetCmd
	}

	// Unknown command: `unknown command "foo" for "helpscout conversations"`
	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
		return msg
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			var flagNames []string
			addFlags := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Hidden {
						return
					}
					flagNames = append(flagNames, "--"+f.Name)
				})
			}
			addFlags(parent.Flags())
			addFlags(parent.InheritedFlags())
			helpCmd := strings.TrimSpace(parent.CommandPath()) + " --help"
			if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexAny(rest, " ="); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}
