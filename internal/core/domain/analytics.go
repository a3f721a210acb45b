package domain

import "time"

// AnalyticsAccount is the local model of a Google Analytics account.
type AnalyticsAccount struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created,omitzero"`
	Updated time.Time `json:"updated,omitzero"`
}

// WebProperty is the local model of an Analytics web property.
type WebProperty struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"account_id"`
	Name             string    `json:"name"`
	WebsiteURL       string    `json:"website_url,omitempty"`
	IndustryVertical string    `json:"industry_vertical,omitempty"`
	Created          time.Time `json:"created,omitzero"`
	Updated          time.Time `json:"updated,omitzero"`
}
