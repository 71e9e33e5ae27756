package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 5

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Request headers.
const (
	// HeaderAuthorization carries the bearer token.
	HeaderAuthorization = "Authorization"

	// HeaderUserAgent identifies the client.
	HeaderUserAgent = "User-Agent"

	// HeaderContentType describes the request body.
	HeaderContentType = "Content-Type"

	// HeaderRequestID correlates a request across client and server logs.
	HeaderRequestID = "X-Request-Id"

	// DefaultUserAgent is sent when the configuration names none.
	DefaultUserAgent = "gapi-client/1.0"
)

// Content types.
const (
	// ContentTypeJSON is used for encoded JSON bodies.
	ContentTypeJSON = "application/json; charset=UTF-8"

	// ContentTypeText is used for plain string bodies.
	ContentTypeText = "text/plain; charset=UTF-8"
)

// Metadata keys set on intercepted requests.
const (
	// MetadataStartTime is the time the request entered the interceptor chain.
	MetadataStartTime = "start_time"

	// MetadataOverriddenMethod is the verb replaced by a method override.
	MetadataOverriddenMethod = "overridden_method"
)

// Mathematical and calculation constants.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// MaxErrorBodyLength bounds the response body quoted in debug logs.
	MaxErrorBodyLength = 512
)

// Command argument counts.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2
)

// UI and display constants.
const (
	// CheckMarkSymbol marks an applied override.
	CheckMarkSymbol = "✓"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)

// BooleanTrue is shown for unset capability flags, which default to true.
const BooleanTrue = "true"

// Format constants.
const (
	// FormatTable for tabular output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)
