// Package services implements the driving port interfaces.
// Services hold the facade's core logic: credential resolution, the
// resource registry, request accounting and dispatch to driven ports.
package services
