// Package config loads, validates, and watches the spendguard
// configuration.
//
// Configuration is a YAML file with defaults applied for every omitted
// field and SPENDGUARD_* environment variable overrides applied on top
// (environment always wins over the file). Limits and pricing can be hot
// reloaded: Watch observes the file with fsnotify, debounces change
// bursts, re-runs the full load/validate pipeline, and hands the new
// configuration to a callback. A reload that fails validation is logged
// and discarded; the running configuration stays in effect.
package config
