package domain

import "time"

// CredentialKind identifies how an access token is obtained for an API.
type CredentialKind string

const (
	// CredentialJSONKey signs JWT assertions with a service account JSON key file.
	CredentialJSONKey CredentialKind = "json_key"
	// CredentialPrivateKey signs JWT assertions with a PKCS8 PEM key and a
	// separately configured service account email.
	CredentialPrivateKey CredentialKind = "private_key"
	// CredentialAppIdentity uses the ambient identity of the runtime
	// (metadata server, GOOGLE_APPLICATION_CREDENTIALS, gcloud user).
	CredentialAppIdentity CredentialKind = "app_identity"
	// CredentialNone sends requests without an Authorization header.
	CredentialNone CredentialKind = "none"
)

// SubstituteMode controls whether an API is served by its local substitute.
type SubstituteMode string

const (
	// SubstituteOff always talks to the remote API.
	SubstituteOff SubstituteMode = "off"
	// SubstituteOn always serves the API from the local substitute store.
	SubstituteOn SubstituteMode = "on"
	// SubstituteAuto serves locally only when no credentials resolve.
	SubstituteAuto SubstituteMode = "auto"
)

// Valid returns true for the known substitute modes.
func (m SubstituteMode) Valid() bool {
	switch m {
	case SubstituteOff, SubstituteOn, SubstituteAuto:
		return true
	default:
		return false
	}
}

// Property keys looked up under an API prefix, e.g. "drive.project_id".
const (
	PropProjectID       = "project_id"
	PropServiceAccount  = "service_account"
	PropPrivateKeyFile  = "private_key_file"
	PropJSONKeyFile     = "json_key_file"
	PropAppIdentity     = "app_identity"
	PropSubject         = "subject"
	PropScopes          = "scopes"
	PropRetries         = "retries"
	PropConnectTimeout  = "connect_timeout"
	PropReadTimeout     = "read_timeout"
	PropApplicationName = "application_name"
	PropEndpoint        = "endpoint"
	PropSubstitute      = "substitute"
	PropRateLimit       = "rate_limit"
	PropBurst           = "burst"
)

// CredentialSettings is the fully resolved configuration for one API prefix.
// Every field has already had default-prefix fallback and built-in defaults
// applied.
type CredentialSettings struct {
	// Prefix is the configuration prefix these settings were resolved for.
	Prefix string `json:"prefix" validate:"required"`
	// ProjectID is the Google Cloud project used to qualify resource names.
	ProjectID string `json:"project_id,omitempty"`
	// ServiceAccount is the service account email used with PrivateKeyFile.
	ServiceAccount string `json:"service_account,omitempty" validate:"omitempty,email"`
	// PrivateKeyFile is a PEM file holding a PKCS8 (or PKCS1) RSA key.
	PrivateKeyFile string `json:"private_key_file,omitempty"`
	// JSONKeyFile is a service account JSON key file.
	JSONKeyFile string `json:"json_key_file,omitempty"`
	// AppIdentity enables ambient credentials when no key is configured.
	AppIdentity bool `json:"app_identity,omitempty"`
	// Subject is the user impersonated through domain-wide delegation.
	Subject string `json:"subject,omitempty" validate:"omitempty,email"`
	// Scopes are the OAuth2 scopes requested for the access token.
	Scopes []string `json:"scopes,omitempty"`
	// Retries is the number of extra attempts for retryable failures.
	Retries int `json:"retries" validate:"gte=0,lte=10"`
	// ConnectTimeout bounds dialling the remote host.
	ConnectTimeout time.Duration `json:"connect_timeout" validate:"gte=0"`
	// ReadTimeout bounds waiting for response headers.
	ReadTimeout time.Duration `json:"read_timeout" validate:"gte=0"`
	// ApplicationName is sent as the User-Agent.
	ApplicationName string `json:"application_name,omitempty"`
	// Endpoint overrides the API base URL.
	Endpoint string `json:"endpoint,omitempty" validate:"omitempty,url"`
	// Substitute selects local-vs-remote resolution.
	Substitute SubstituteMode `json:"substitute" validate:"required"`
	// RateLimit is the sustained requests per second, 0 disables limiting.
	RateLimit float64 `json:"rate_limit" validate:"gte=0"`
	// Burst is the rate limiter bucket size.
	Burst int `json:"burst" validate:"gte=0"`
}

// Kind returns how the access token is obtained. A JSON key wins over a
// private key, which wins over ambient app identity.
func (s *CredentialSettings) Kind() CredentialKind {
	switch {
	case s.JSONKeyFile != "":
		return CredentialJSONKey
	case s.PrivateKeyFile != "" && s.ServiceAccount != "":
		return CredentialPrivateKey
	case s.AppIdentity:
		return CredentialAppIdentity
	default:
		return CredentialNone
	}
}

// UseSubstitute reports whether the API should be served locally.
func (s *CredentialSettings) UseSubstitute() bool {
	switch s.Substitute {
	case SubstituteOn:
		return true
	case SubstituteAuto:
		return s.Kind() == CredentialNone
	default:
		return false
	}
}

// Masked returns a copy safe for display, with key file paths reduced to
// their presence.
func (s CredentialSettings) Masked() CredentialSettings {
	if s.PrivateKeyFile != "" {
		s.PrivateKeyFile = "(set)"
	}
	if s.JSONKeyFile != "" {
		s.JSONKeyFile = "(set)"
	}
	return s
}
