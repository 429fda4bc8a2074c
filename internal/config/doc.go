// Package config defines the runner settings and provides helpers to load,
// validate and save them in YAML format.
//
// Loading never has to succeed: LoadOrDefault degrades to an all-defaults
// configuration when the settings file is missing or broken, so a bare
// checkout still runs with every optional channel disabled.
package config
