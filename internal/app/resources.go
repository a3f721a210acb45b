package app

import (
	"context"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/connectors/google/agent"
	"github.com/custodia-labs/gfacade/internal/connectors/google/analytics"
	"github.com/custodia-labs/gfacade/internal/connectors/google/drive"
	"github.com/custodia-labs/gfacade/internal/connectors/google/firebase"
	"github.com/custodia-labs/gfacade/internal/connectors/google/identitytoolkit"
	"github.com/custodia-labs/gfacade/internal/connectors/google/pubsub"
	"github.com/custodia-labs/gfacade/internal/connectors/google/sheets"
	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// Drive returns the Drive facade.
func (a *App) Drive(ctx context.Context) (*drive.Facade, error) {
	return facade(ctx, a, domain.APIDrive, drive.New)
}

// Sheets returns the Sheets facade.
func (a *App) Sheets(ctx context.Context) (*sheets.Facade, error) {
	return facade(ctx, a, domain.APISheets, sheets.New)
}

// Analytics returns the Analytics management facade.
func (a *App) Analytics(ctx context.Context) (*analytics.Facade, error) {
	return facade(ctx, a, domain.APIAnalytics, analytics.New)
}

// PubSub returns the Pub/Sub facade.
func (a *App) PubSub(ctx context.Context) (*pubsub.Facade, error) {
	return facade(ctx, a, domain.APIPubSub, pubsub.New)
}

// IdentityToolkit returns the Identity Toolkit facade.
func (a *App) IdentityToolkit(ctx context.Context) (*identitytoolkit.Facade, error) {
	return facade(ctx, a, domain.APIIdentityToolkit, identitytoolkit.New)
}

// Firebase returns the Firebase Auth facade.
func (a *App) Firebase(ctx context.Context) (*firebase.Facade, error) {
	return facade(ctx, a, domain.APIFirebase, firebase.New)
}

// Agent returns the migration agent facade.
func (a *App) Agent(ctx context.Context) (*agent.Facade, error) {
	return facade(ctx, a, domain.APIAgent, agent.New)
}

// registerResources registers every collection the facades expose.
func (a *App) registerResources() {
	a.registerDrive()
	a.registerSheets()
	a.registerAnalytics()
	a.registerPubSub()
	a.registerIdentityToolkit()
	a.registerFirebase()
	a.registerAgent()
}

// opener adapts a facade accessor and a collection selector to a
// driven.ResourceOpener.
func opener[F, T any](get func(context.Context) (F, error), pick func(F, string) google.Resource[T]) driven.ResourceOpener {
	return func(ctx context.Context, parent string) (driven.DynamicResource, error) {
		f, err := get(ctx)
		if err != nil {
			return nil, err
		}
		return google.Dynamic(pick(f, parent)), nil
	}
}

func ref(api domain.APIName, resource string) domain.ResourceRef {
	return domain.ResourceRef{API: api, Resource: resource}
}

func (a *App) registerDrive() {
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APIDrive, "files"),
		Description: "Drive files and folders; download exports Google documents",
	}, opener(a.Drive, func(f *drive.Facade, _ string) google.Resource[domain.File] {
		return f.Files()
	}))
}

func (a *App) registerSheets() {
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APISheets, "spreadsheets"),
		Description: "Spreadsheet properties; download renders the first sheet as CSV",
	}, opener(a.Sheets, func(f *sheets.Facade, _ string) google.Resource[domain.Spreadsheet] {
		return f.Spreadsheets()
	}))
	a.Registry.Register(domain.ResourceInfo{
		Ref:            ref(domain.APISheets, "values"),
		Description:    "Cell ranges of a spreadsheet addressed by A1 notation",
		RequiresParent: true,
	}, opener(a.Sheets, (*sheets.Facade).Values))
}

func (a *App) registerAnalytics() {
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APIAnalytics, "accounts"),
		Description: "Analytics accounts visible to the caller",
	}, opener(a.Analytics, func(f *analytics.Facade, _ string) google.Resource[domain.AnalyticsAccount] {
		return f.Accounts()
	}))
	a.Registry.Register(domain.ResourceInfo{
		Ref:            ref(domain.APIAnalytics, "webproperties"),
		Description:    "Web properties of an Analytics account",
		RequiresParent: true,
	}, opener(a.Analytics, (*analytics.Facade).WebProperties))
}

func (a *App) registerPubSub() {
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APIPubSub, "topics"),
		Description: "Pub/Sub topics of the configured project",
	}, opener(a.PubSub, func(f *pubsub.Facade, _ string) google.Resource[domain.Topic] {
		return f.Topics()
	}))
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APIPubSub, "subscriptions"),
		Description: "Pub/Sub subscriptions of the configured project",
	}, opener(a.PubSub, func(f *pubsub.Facade, _ string) google.Resource[domain.Subscription] {
		return f.Subscriptions()
	}))
}

func (a *App) registerIdentityToolkit() {
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APIIdentityToolkit, "users"),
		Description: "Identity Toolkit user accounts",
	}, opener(a.IdentityToolkit, func(f *identitytoolkit.Facade, _ string) google.Resource[domain.IdentityUser] {
		return f.Users()
	}))
}

func (a *App) registerFirebase() {
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APIFirebase, "users"),
		Description: "Firebase Auth users",
	}, opener(a.Firebase, func(f *firebase.Facade, _ string) google.Resource[domain.IdentityUser] {
		return f.Users()
	}))
}

func (a *App) registerAgent() {
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APIAgent, "agents"),
		Description: "Registered migration agents",
	}, opener(a.Agent, func(f *agent.Facade, _ string) google.Resource[domain.Agent] {
		return f.Agents()
	}))
	a.Registry.Register(domain.ResourceInfo{
		Ref:         ref(domain.APIAgent, "migrations"),
		Description: "Migration jobs; download returns the job report",
	}, opener(a.Agent, func(f *agent.Facade, _ string) google.Resource[domain.MigrationJob] {
		return f.Migrations()
	}))
}
