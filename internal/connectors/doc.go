// Package connectors holds the wrapped API clients. The google package
// provides the shared facade core; each wrapped API lives in its own
// subpackage under google/.
package connectors
