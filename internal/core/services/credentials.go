package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
	"github.com/custodia-labs/gfacade/internal/logger"
)

// Ensure CredentialsService implements the interface.
var _ driving.CredentialsService = (*CredentialsService)(nil)

// Built-in defaults applied after prefix and default-prefix lookups miss.
// Rate and burst defaults come from APIName.DefaultRateLimit.
const (
	DefaultRetries        = 3
	DefaultConnectTimeout = 20 * time.Second
	DefaultReadTimeout    = 60 * time.Second
	DefaultApplication    = "gfacade"
)

// CredentialsService resolves per-prefix credential settings from the
// config store. Each property is read from "<prefix>.<key>", then from
// "google.<key>", then from the built-in default.
type CredentialsService struct {
	config   driven.ConfigStore
	validate *validator.Validate
}

// NewCredentialsService creates a resolver over a config store.
func NewCredentialsService(config driven.ConfigStore) *CredentialsService {
	return &CredentialsService{
		config:   config,
		validate: validator.New(),
	}
}

// Resolve returns the settings for a prefix. A prefix naming a wrapped API
// gets that API's default scopes.
func (s *CredentialsService) Resolve(prefix string) (*domain.CredentialSettings, error) {
	if prefix == "" {
		prefix = domain.DefaultPrefix
	}
	return s.ResolveFor(domain.APIName(prefix), prefix)
}

// ResolveFor resolves a prefix on behalf of an API, taking default scopes
// from the API rather than the prefix name.
func (s *CredentialsService) ResolveFor(api domain.APIName, prefix string) (*domain.CredentialSettings, error) {
	if s.config == nil {
		return nil, fmt.Errorf("%w: no config store", domain.ErrMissingProperty)
	}
	if prefix == "" {
		prefix = domain.DefaultPrefix
	}

	r := lookup{store: s.config, prefix: prefix}
	settings := &domain.CredentialSettings{
		Prefix:          prefix,
		ProjectID:       r.str(domain.PropProjectID),
		ServiceAccount:  r.str(domain.PropServiceAccount),
		PrivateKeyFile:  r.str(domain.PropPrivateKeyFile),
		JSONKeyFile:     r.str(domain.PropJSONKeyFile),
		AppIdentity:     r.boolean(domain.PropAppIdentity),
		Subject:         r.str(domain.PropSubject),
		Scopes:          r.list(domain.PropScopes),
		ApplicationName: r.str(domain.PropApplicationName),
		Endpoint:        r.str(domain.PropEndpoint),
		Substitute:      domain.SubstituteMode(r.str(domain.PropSubstitute)),
	}

	rate, burst := api.DefaultRateLimit()
	var err error
	if settings.Retries, err = r.integer(domain.PropRetries, DefaultRetries); err != nil {
		return nil, err
	}
	if settings.Burst, err = r.integer(domain.PropBurst, burst); err != nil {
		return nil, err
	}
	if settings.RateLimit, err = r.float(domain.PropRateLimit, rate); err != nil {
		return nil, err
	}
	if settings.ConnectTimeout, err = r.duration(domain.PropConnectTimeout, DefaultConnectTimeout); err != nil {
		return nil, err
	}
	if settings.ReadTimeout, err = r.duration(domain.PropReadTimeout, DefaultReadTimeout); err != nil {
		return nil, err
	}

	if len(settings.Scopes) == 0 {
		settings.Scopes = api.DefaultScopes()
	}
	if settings.ApplicationName == "" {
		settings.ApplicationName = DefaultApplication
	}
	if settings.Substitute == "" {
		settings.Substitute = domain.SubstituteAuto
	}

	if err := s.check(settings); err != nil {
		return nil, err
	}

	logger.Debug("resolved credentials for %s: kind=%s substitute=%t", prefix, settings.Kind(), settings.UseSubstitute())
	return settings, nil
}

// check enforces the cross-field rules the struct tags cannot express.
func (s *CredentialsService) check(settings *domain.CredentialSettings) error {
	if !settings.Substitute.Valid() {
		return fmt.Errorf("%w: %s.%s: unknown mode %q",
			domain.ErrInvalidInput, settings.Prefix, domain.PropSubstitute, settings.Substitute)
	}
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, settings.Prefix, err)
	}
	if settings.JSONKeyFile != "" {
		return nil
	}
	if settings.ServiceAccount != "" && settings.PrivateKeyFile == "" {
		return fmt.Errorf("%w: %s.%s is required with %s",
			domain.ErrMissingProperty, settings.Prefix, domain.PropPrivateKeyFile, domain.PropServiceAccount)
	}
	if settings.PrivateKeyFile != "" && settings.ServiceAccount == "" {
		return fmt.Errorf("%w: %s.%s is required with %s",
			domain.ErrMissingProperty, settings.Prefix, domain.PropServiceAccount, domain.PropPrivateKeyFile)
	}
	return nil
}

// Prefixes returns the top-level keys of the config store.
func (s *CredentialsService) Prefixes() []string {
	if s.config == nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, key := range s.config.Keys() {
		prefix, _, ok := strings.Cut(key, ".")
		if ok && prefix != "" {
			seen[prefix] = true
		}
	}
	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// lookup reads one prefix with fallback to the default prefix.
type lookup struct {
	store  driven.ConfigStore
	prefix string
}

func (l lookup) get(key string) (any, bool) {
	if v, ok := l.store.Get(l.prefix + "." + key); ok {
		return v, true
	}
	if l.prefix == domain.DefaultPrefix {
		return nil, false
	}
	return l.store.Get(domain.DefaultPrefix + "." + key)
}

func (l lookup) str(key string) string {
	v, ok := l.get(key)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func (l lookup) boolean(key string) bool {
	v, ok := l.get(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	default:
		return false
	}
}

func (l lookup) list(key string) []string {
	v, ok := l.get(key)
	if !ok {
		return nil
	}
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			if str, ok := item.(string); ok {
				raw = append(raw, str)
			}
		}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (l lookup) integer(key string, def int) (int, error) {
	v, ok := l.get(key)
	if !ok {
		return def, nil
	}
	n, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidInput, l.prefix, key, err)
	}
	return int(n), nil
}

func (l lookup) float(key string, def float64) (float64, error) {
	v, ok := l.get(key)
	if !ok {
		return def, nil
	}
	n, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidInput, l.prefix, key, err)
	}
	return n, nil
}

// duration accepts "30s"-style strings or a number of seconds.
func (l lookup) duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := l.get(key)
	if !ok {
		return def, nil
	}
	if str, ok := v.(string); ok {
		str = strings.TrimSpace(str)
		if d, err := time.ParseDuration(str); err == nil {
			return d, nil
		}
	}
	n, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidInput, l.prefix, key, err)
	}
	return time.Duration(n * float64(time.Second)), nil
}

// toFloat converts the numeric shapes TOML, YAML and callers produce.
func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
