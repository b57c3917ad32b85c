package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/config"
	"github.com/helpscout/helpscout-cli/internal/iocontext"
	"github.com/helpscout/helpscout-cli/internal/outfmt"
	"github.com/helpscout/helpscout-cli/internal/urlparse"
)

// version is set at build time via ldflags
var version = "dev"

// newClient is replaced in tests that need a client without a keyring.
var newClient = func() *api.Client {
	return api.New(config.NewKeyringStore())
}

// getClient returns an API client configured from the global flags.
func getClient() *api.Client {
	client := newClient()
	if flags.Timeout > 0 {
		client.HTTP.Timeout = flags.Timeout
	}
	client.UserAgent = "helpscout-cli/" + version
	return client
}

// printJSON writes v to stdout through the output pipeline.
func printJSON(cmd *cobra.Command, v any) error {
	ctx := cmd.Context()
	return outfmt.NewFormatter(ctx, iocontext.GetIO(ctx).Out).Output(v)
}

// printMessage writes a {"message": ...} confirmation to stdout.
func printMessage(cmd *cobra.Command, format string, args ...any) error {
	ctx := cmd.Context()
	return outfmt.NewFormatter(ctx, iocontext.GetIO(ctx).Out).Message(fmt.Sprintf(format, args...))
}

// errAlreadyHandled is a sentinel error indicating the error was already
// written as an envelope. Commands using RunE return this to signal Cobra
// that an error occurred (for exit code) without Cobra printing it again
// (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// reportError prints the classified envelope for err on stdout, so failures
// are still valid JSON, and returns the handled form.
func reportError(cmd *cobra.Command, err error) error {
	env := api.Classify(err)
	out := iocontext.GetIO(cmd.Context()).Out
	_ = outfmt.WriteJSONMaybeCompact(out, env, flags.Compact) //nolint:errcheck
	return &handledError{err: err, exitCode: exitCodeForEnvelope(env, err)}
}

// RunE wraps a command function with envelope error reporting
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return reportError(cmd, err)
		}
		return nil
	}
}

// parseIDArg parses a positive integer id argument. Conversation and
// customer IDs may also be given as Help Scout app URLs.
func parseIDArg(value, kind string) (int, error) {
	if urlparse.IsURL(value) {
		parsed, err := urlparse.Parse(value)
		if err != nil {
			return 0, api.NewValidationError("%s", err.Error())
		}
		if parsed.ResourceType != kind || parsed.ID == 0 {
			return 0, api.NewValidationError("URL points to a %s, expected a %s", parsed.ResourceType, kind)
		}
		return parsed.ID, nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, api.NewValidationError("Invalid %s ID: %q", kind, value)
	}
	return id, nil
}

// parseIDList parses a comma-separated list of positive ids.
func parseIDList(value, kind string) ([]int, error) {
	parts := splitCommaList(value)
	if len(parts) == 0 {
		return nil, api.NewValidationError("at least one %s ID is required", kind)
	}
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := parseIDArg(p, kind)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// requireYes guards destructive commands.
func requireYes(yes bool, kind string) error {
	if !yes {
		return api.NewValidationError("Deleting %s requires --yes flag to confirm", kind)
	}
	return nil
}

// normalizeEnum normalizes and validates a flag value against a list of valid enum values.
// It lowercases and trims the input, then tries exact match followed by unique prefix match.
// An empty input is returned unchanged.
func normalizeEnum(flagName, input string, valid []string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", nil
	}

	for _, v := range valid {
		if input == v {
			return v, nil
		}
	}

	var matches []string
	for _, v := range valid {
		if strings.HasPrefix(v, input) {
			matches = append(matches, v)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", api.NewValidationError("invalid --%s %q: must be one of %s", flagName, input, strings.Join(valid, ", "))
	default:
		return "", api.NewValidationError("ambiguous --%s %q: matches %s", flagName, input, strings.Join(matches, ", "))
	}
}

var sortOrders = []string{"asc", "desc"}

// registerStaticCompletions wires shell completion for a fixed value set.
func registerStaticCompletions(cmd *cobra.Command, flagName string, values []string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	var out []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed. This lets aliases satisfy Cobra's
// MarkFlagRequired check transparently.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagAlias registers a hidden alias for an existing flag.
// Both flags share the same underlying Value, so setting either one sets both.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasBridgeValue{Value: f.Value, canonical: f}
	ann := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		ann[k] = v
	}
	a.Annotations = ann
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}
	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}
	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}
