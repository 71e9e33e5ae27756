package commands

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/gapi-client/internal/constants"
	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
	"github.com/spf13/cobra"
)

var knownMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// overrideFlags are shared by the override and request commands.
type overrideFlags struct {
	methods []string
	noPatch bool
	noHead  bool
}

func (f *overrideFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.methods, "override", nil, "always tunnel these methods through POST (repeatable or comma separated)")
	cmd.Flags().BoolVar(&f.noPatch, "no-patch", false, "treat the transport as unable to send PATCH")
	cmd.Flags().BoolVar(&f.noHead, "no-head", false, "treat the transport as unable to send HEAD")
}

// apply merges the flags into config.
func (f *overrideFlags) apply(config *Config) error {
	methods, err := parseMethods(f.methods)
	if err != nil {
		return err
	}

	config.OverrideMethods = append(config.OverrideMethods, methods...)

	if f.noPatch {
		unsupported := false
		config.TransportSupportsPatch = &unsupported
	}

	if f.noHead {
		unsupported := false
		config.TransportSupportsHead = &unsupported
	}

	return nil
}

func parseMethods(methods []string) ([]string, error) {
	out := make([]string, 0, len(methods))

	for _, method := range methods {
		method = strings.ToUpper(strings.TrimSpace(method))
		if method == "" {
			continue
		}

		if !isToken(method) {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidMethod, method)
		}

		out = append(out, method)
	}

	return out, nil
}

// isToken reports whether method is a valid HTTP method token.
func isToken(method string) bool {
	for _, r := range method {
		if r < 'A' || r > 'Z' {
			return false
		}
	}

	return method != ""
}

// OverrideDecision is one row of the override check.
type OverrideDecision struct {
	Method     string `json:"method"      yaml:"method"`
	Overridden bool   `json:"overridden"  yaml:"overridden"`
	SentAs     string `json:"sent_as"     yaml:"sent_as"`
	Reason     string `json:"reason"      yaml:"reason"`
}

// NewOverrideCommand creates the override command group.
func NewOverrideCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Inspect method override decisions",
	}

	cmd.AddCommand(newOverrideCheckCommand())

	return cmd
}

func newOverrideCheckCommand() *cobra.Command {
	var flags overrideFlags

	cmd := &cobra.Command{
		Use:   "check [METHOD...]",
		Short: "Show which methods would be tunnelled through POST",
		Long: `Show, for each method, whether a request would be sent as POST with the
X-HTTP-Method-Override header under the configured override set and
transport capabilities. Without arguments every common method is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			err = flags.apply(config)
			if err != nil {
				return err
			}

			methods := knownMethods
			if len(args) > 0 {
				methods, err = parseMethods(args)
				if err != nil {
					return err
				}
			}

			decisions := checkOverrides(config.GapiConfig(), methods)

			rows := make([][]string, 0, len(decisions))
			for _, d := range decisions {
				rows = append(rows, []string{d.Method, yesNo(d.Overridden), d.SentAs, d.Reason})
			}

			return render(cmd, decisions, []string{"Method", "Overridden", "Sent As", "Reason"}, rows)
		},
	}

	flags.register(cmd)

	return cmd
}

func checkOverrides(config *gapi.Config, methods []string) []OverrideDecision {
	override := config.MethodOverride()
	caps := config.Capabilities()
	configured := make(map[string]bool)

	for _, m := range override.Methods() {
		configured[m] = true
	}

	decisions := make([]OverrideDecision, 0, len(methods))

	for _, method := range methods {
		req := &gapi.Request{Method: method, Transport: caps}
		overridden := override.ShouldOverride(req)

		decision := OverrideDecision{
			Method:     method,
			Overridden: overridden,
			SentAs:     method,
			Reason:     overrideReason(method, overridden, configured[method], caps),
		}

		if overridden {
			decision.SentAs = http.MethodPost
		}

		decisions = append(decisions, decision)
	}

	return decisions
}

func overrideReason(method string, overridden, configured bool, caps gapi.TransportCapabilities) string {
	switch {
	case method == http.MethodGet || method == http.MethodPost:
		return "never overridden"
	case overridden && configured:
		return "configured"
	case overridden && method == http.MethodPatch && !caps.SupportsPatch():
		return "transport cannot send PATCH"
	case overridden && method == http.MethodHead && !caps.SupportsHead():
		return "transport cannot send HEAD"
	default:
		return constants.None
	}
}
