/*
Package config loads eventmodel network settings from YAML or JSON files.

# Overview

Settings files are decoded into a map and read through Config, whose typed
accessors fall back to defaults on missing keys or mismatched types. This
keeps hand-edited files forgiving: "max_depth: 50.0" and "max_depth: 50" both
work, and an unknown log level is reported by Validate rather than by the parser.

	settings, err := config.LoadSettings("eventmodel.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	net := eventmodel.NewNetwork(eventmodel.OptionsFromSettings(settings, os.Stderr)...)

# File Format

	root_name: app
	max_depth: 200
	recover_panics: true
	metrics: true
	tracing: false
	log_level: debug   # debug | info | warn | error
	log_format: json   # text | json

Every key is optional; Defaults documents the fallback values. LoadSettings
rejects keys outside this list so a misspelled key is not silently ignored.
*/
package config
