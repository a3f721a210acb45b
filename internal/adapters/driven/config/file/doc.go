// Package file reads gfacade configuration from disk.
//
// ConfigStore loads config.toml, or config.yaml / config.yml when present,
// flattening nested tables into dotted keys such as "drive.json_key_file".
// Watch reports edits to the file so long-running commands can rebuild
// their API facades.
package file
