package eventmodel

import (
	"io"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel/config"
)

// OptionsFromSettings converts file settings into network options.
// When w is non-nil the network logs to w using the settings' level and format.
//
// Example:
//
//	s, err := config.LoadSettings("eventmodel.yaml")
//	if err != nil {
//	    return err
//	}
//	net := eventmodel.NewNetwork(eventmodel.OptionsFromSettings(s, os.Stderr)...)
func OptionsFromSettings(s config.Settings, w io.Writer) []NetworkOption {
	opts := []NetworkOption{
		WithRootName(s.RootName),
		WithMaxDepth(s.MaxDepth),
		WithRecoverPanics(s.RecoverPanics),
		WithMetrics(s.Metrics),
		WithTracing(s.Tracing),
	}
	if w != nil {
		opts = append(opts, WithLogger(s.NewLogger(w)))
	}
	return opts
}
