package google

import (
	"context"
	"fmt"

	"google.golang.org/api/analytics/v3"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/pubsub/v1"
	"google.golang.org/api/sheets/v4"
)

// NewDriveService creates a Google Drive API service.
func NewDriveService(ctx context.Context, deps Deps) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, deps.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}

// NewSheetsService creates a Google Sheets API service.
func NewSheetsService(ctx context.Context, deps Deps) (*sheets.Service, error) {
	svc, err := sheets.NewService(ctx, deps.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// NewAnalyticsService creates a Google Analytics management API service.
func NewAnalyticsService(ctx context.Context, deps Deps) (*analytics.Service, error) {
	svc, err := analytics.NewService(ctx, deps.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create analytics service: %w", err)
	}
	return svc, nil
}

// NewPubSubService creates a Cloud Pub/Sub REST service.
func NewPubSubService(ctx context.Context, deps Deps) (*pubsub.Service, error) {
	svc, err := pubsub.NewService(ctx, deps.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub service: %w", err)
	}
	return svc, nil
}

// NewIdentityToolkitService creates an Identity Toolkit relying party service.
func NewIdentityToolkitService(ctx context.Context, deps Deps) (*identitytoolkit.Service, error) {
	svc, err := identitytoolkit.NewService(ctx, deps.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create identitytoolkit service: %w", err)
	}
	return svc, nil
}
