package domain

// DefaultPrefix is the configuration prefix consulted when an API-specific
// property is absent.
const DefaultPrefix = "google"

// APIName identifies a wrapped Google API. It doubles as the default
// configuration prefix for that API.
type APIName string

const (
	// APIDrive is the Google Drive v3 API.
	APIDrive APIName = "drive"
	// APIAnalytics is the Google Analytics v3 management API.
	APIAnalytics APIName = "analytics"
	// APIPubSub is the Cloud Pub/Sub v1 REST API.
	APIPubSub APIName = "pubsub"
	// APISheets is the Google Sheets v4 API.
	APISheets APIName = "sheets"
	// APIIdentityToolkit is the Identity Toolkit v3 relying party API.
	APIIdentityToolkit APIName = "identitytoolkit"
	// APIFirebase is the Firebase Auth admin API.
	APIFirebase APIName = "firebase"
	// APIAgent is the migration agent API.
	APIAgent APIName = "agent"
)

// OAuth2 scopes used as defaults when no scopes are configured.
const (
	ScopeDrive           = "https://www.googleapis.com/auth/drive"
	ScopeAnalytics       = "https://www.googleapis.com/auth/analytics.edit"
	ScopePubSub          = "https://www.googleapis.com/auth/pubsub"
	ScopeSheets          = "https://www.googleapis.com/auth/spreadsheets"
	ScopeCloudPlatform   = "https://www.googleapis.com/auth/cloud-platform"
	ScopeFirebase        = "https://www.googleapis.com/auth/firebase"
	ScopeIdentityToolkit = "https://www.googleapis.com/auth/identitytoolkit"
	ScopeUserInfoEmail   = "https://www.googleapis.com/auth/userinfo.email"
)

// AllAPIs lists every API the facade wraps, in registration order.
var AllAPIs = []APIName{
	APIDrive, APIAnalytics, APIPubSub, APISheets, APIIdentityToolkit, APIFirebase, APIAgent,
}

// Valid returns true if the API is one the facade wraps.
func (a APIName) Valid() bool {
	for _, api := range AllAPIs {
		if a == api {
			return true
		}
	}
	return false
}

// DefaultScopes returns the scopes requested when none are configured.
func (a APIName) DefaultScopes() []string {
	switch a {
	case APIDrive:
		return []string{ScopeDrive}
	case APIAnalytics:
		return []string{ScopeAnalytics}
	case APIPubSub:
		return []string{ScopePubSub}
	case APISheets:
		return []string{ScopeSheets}
	case APIIdentityToolkit:
		return []string{ScopeIdentityToolkit}
	case APIFirebase:
		return []string{ScopeFirebase, ScopeIdentityToolkit, ScopeUserInfoEmail}
	default:
		return []string{ScopeCloudPlatform}
	}
}

// DefaultRateLimit returns the requests per second and burst used when
// rate_limit and burst are not configured. They sit well below the
// published quotas.
func (a APIName) DefaultRateLimit() (float64, int) {
	switch a {
	case APIDrive:
		return 8, 10
	case APIAnalytics, APISheets:
		return 1, 5
	default:
		return 10, 20
	}
}

// String returns the API name.
func (a APIName) String() string {
	return string(a)
}
