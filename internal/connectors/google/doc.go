// Package google provides the facade core shared by every wrapped Google API.
//
// This package contains:
//   - Call, ListCall and DownloadCall, the request builders returned by
//     every facade operation
//   - Resource, the uniform get/insert/update/delete/list/download interface
//   - ResourceAdapter, which implements Resource over generated client calls
//     and a Mapper between wire and local model types
//   - SubstituteResource, which implements Resource over a local store
//   - NewHTTPClient, the authorized transport with request events, retry
//     and rate limiting
//   - Error mapping from googleapi errors onto domain errors
//
// # Usage
//
// Each API package (drive, sheets, analytics, pubsub, identitytoolkit,
// firebase, agent) builds its resources from Deps:
//
//	client := google.NewHTTPClient(ctx, settings, provider, bus, limiter)
//	deps := google.Deps{Settings: settings, HTTPClient: client, Store: store, Local: settings.UseSubstitute()}
//	files, err := drive.New(ctx, deps)
//	f, err := files.Files().Get("1AbC").Context(ctx).Do()
//
// # Substitutes
//
// When Deps.Local is set, Resolve returns a SubstituteResource instead of
// the remote adapter. Substitutes keep the same Resource contract so callers
// cannot tell the difference, apart from Underlying.
package google
