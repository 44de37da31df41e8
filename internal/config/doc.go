// Package config manages user-level settings stored at ~/.skel/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default project root, manifest file, overwrite policy, and log level.
package config
