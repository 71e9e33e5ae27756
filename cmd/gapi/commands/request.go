package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fivetwenty-io/gapi-client/internal/auth"
	"github.com/fivetwenty-io/gapi-client/internal/client"
	"github.com/fivetwenty-io/gapi-client/internal/constants"
	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
	"github.com/fivetwenty-io/gapi-client/pkg/gapiclient"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/google"
	"golang.org/x/term"
)

// RequestResult is the rendered outcome of a request.
type RequestResult struct {
	Method     string      `json:"method"      yaml:"method"`
	SentAs     string      `json:"sent_as"     yaml:"sent_as"`
	StatusCode int         `json:"status_code" yaml:"status_code"`
	Body       interface{} `json:"body"        yaml:"body"`
}

// tokenReader reads a token from the terminal. Replaced in tests.
var tokenReader = func(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Access token: ")

	token, err := term.ReadPassword(int(syscall.Stdin))

	fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return string(token), nil
}

// NewRequestCommand creates the request command.
func NewRequestCommand() *cobra.Command {
	var (
		flags       overrideFlags
		data        string
		headers     []string
		promptToken bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send a request through the method override client",
		Long: `Send a request to the configured endpoint. PATH is relative to the
endpoint unless it is an absolute URL. Methods in the override set, and
PATCH or HEAD when --no-patch or --no-head is given, are sent as POST with
the X-HTTP-Method-Override header.

--data takes a JSON document, or @FILE to read one from a file.`,
		Example: `  gapi request DELETE /storage/v1/b/my-bucket --override DELETE
  gapi request PATCH /drive/v3/files/abc --data '{"name":"x"}' --no-patch`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := parseMethods(args[:1])
			if err != nil {
				return err
			}

			config, err := effectiveConfig()
			if err != nil {
				return err
			}

			err = flags.apply(config)
			if err != nil {
				return err
			}

			if promptToken {
				token, err := tokenReader(cmd)
				if err != nil {
					return err
				}

				if token == "" {
					return constants.ErrNoTokenEntered
				}

				config.Token = token
				config.TokenExpiresAt = nil
				config.RefreshToken = ""
				config.ClientID = ""
			}

			body, err := parseData(data)
			if err != nil {
				return err
			}

			extraHeaders, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runRequest(ctx, cmd, config, method[0], args[1], body, extraHeaders)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body, or @FILE")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header as 'Name: value' (repeatable)")
	cmd.Flags().BoolVar(&promptToken, "prompt-token", false, "read an access token from the terminal")
	cmd.Flags().DurationVar(&timeout, "timeout", constants.DefaultHTTPTimeout, "overall request timeout")

	return cmd
}

func runRequest(ctx context.Context, cmd *cobra.Command, config *Config, method, path string, body interface{}, headers map[string]string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	apiClient, err := newClient(ctx, config, logger, headers)
	if err != nil {
		return err
	}

	resp, reqErr := apiClient.Do(ctx, method, path, body)
	if resp == nil {
		return fmt.Errorf("request failed: %w", reqErr)
	}

	gapiConfig := config.GapiConfig()
	sentAs := method

	if gapiConfig.MethodOverride().ShouldOverride(&gapi.Request{Method: method, Transport: gapiConfig.Capabilities()}) {
		sentAs = http.MethodPost
	}

	result := RequestResult{
		Method:     method,
		SentAs:     sentAs,
		StatusCode: resp.StatusCode,
		Body:       decodeBody(resp.Body),
	}

	rows := [][]string{
		{"Method", method},
		{"Sent As", sentAs},
		{"Status", strconv.Itoa(resp.StatusCode)},
	}

	err = render(cmd, result, []string{"Property", "Value"}, rows)
	if err != nil {
		return err
	}

	if outputFormat(cmd) == constants.FormatTable && len(resp.Body) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), prettyBody(resp.Body))
	}

	if reqErr != nil {
		if gapi.IsMethodNotAllowed(reqErr) {
			return fmt.Errorf("%w (retry with --override %s)", reqErr, method)
		}

		return reqErr
	}

	return nil
}

// newClient builds a client from the CLI config. Refreshable credentials go
// through a token manager that writes new tokens back to the config file.
func newClient(ctx context.Context, config *Config, logger gapi.Logger, headers map[string]string) (gapi.Client, error) {
	if config.Endpoint == "" {
		return nil, constants.ErrNoEndpointConfigured
	}

	gapiConfig := config.GapiConfig()
	gapiConfig.Logger = logger
	gapiConfig.Debug = true
	gapiConfig.Headers = headers

	if config.RefreshToken == "" && (config.ClientID == "" || config.ClientSecret == "") {
		return gapiclient.New(ctx, gapiConfig)
	}

	gapiConfig.Endpoint = gapiclient.NormalizeEndpoint(gapiConfig.Endpoint)

	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = google.Endpoint.TokenURL
	}

	var expiry time.Time
	if config.TokenExpiresAt != nil {
		expiry = *config.TokenExpiresAt
	}

	tokenManager := auth.NewConfigTokenManager(&auth.OAuth2Config{
		TokenURL:     tokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RefreshToken: config.RefreshToken,
		Scopes:       config.Scopes,
	}, NewConfigPersister(), config.Token, expiry)

	tokenManager.OnPersistError = func(err error) {
		logger.Warn("Failed to persist refreshed token", map[string]interface{}{"error": err.Error()})
	}

	c, err := client.NewWithTokenManager(gapiConfig, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return c, nil
}

func parseData(data string) (interface{}, error) {
	if data == "" {
		return nil, nil
	}

	raw := []byte(data)

	if strings.HasPrefix(data, "@") {
		content, err := readLocalFile(data[1:])
		if err != nil {
			return nil, err
		}

		raw = content
	}

	var body interface{}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	err := decoder.Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	return body, nil
}

func parseHeaders(headers []string) (map[string]string, error) {
	out := make(map[string]string, len(headers))

	for _, header := range headers {
		name, value, ok := strings.Cut(header, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: header %q must be 'Name: value'", errInvalidHeader, header)
		}

		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return out, nil
}

var errInvalidHeader = errors.New("invalid header")

// readLocalFile reads a regular file, rejecting paths that climb out of the
// working directory.
func readLocalFile(path string) ([]byte, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) && strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("%w: %s", constants.ErrDirectoryTraversalDetected, path)
	}

	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", constants.ErrNotRegularFile, path)
	}

	// #nosec G304 -- path is cleaned and checked above
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

func decodeBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}

	var decoded interface{}
	if json.Unmarshal(body, &decoded) == nil {
		return decoded
	}

	return string(body)
}

func prettyBody(body []byte) string {
	var buf bytes.Buffer
	if json.Indent(&buf, body, "", strings.Repeat(" ", constants.JSONIndentSize)) == nil {
		return buf.String()
	}

	return string(body)
}
