package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel"
	"github.com/randalmurphal/eventmodel/pkg/eventmodel/config"
	"github.com/randalmurphal/eventmodel/pkg/eventmodel/topology"
	"github.com/spf13/cobra"
)

// app carries state resolved by the root command's persistent flags.
type app struct {
	out      io.Writer
	errOut   io.Writer
	settings config.Settings
	logger   *slog.Logger

	configPath string
	logLevel   string
}

// buildRootCmd constructs the command tree writing results to out and logs to errOut.
func buildRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "emgraph",
		Short:         "Validate, inspect and store eventmodel wiring files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Settings file (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides the settings file)")

	root.AddCommand(
		a.validateCmd(),
		a.inspectCmd(),
		a.snapshotCmd(),
		a.listCmd(),
		a.exportCmd(),
	)
	return root
}

// init loads settings and builds the logger.
func (a *app) init() error {
	s := config.Defaults()
	if a.configPath != "" {
		loaded, err := config.LoadSettings(a.configPath)
		if err != nil {
			return err
		}
		s = loaded
	}
	if a.logLevel != "" {
		s.LogLevel = strings.ToLower(a.logLevel)
		if err := s.Validate(); err != nil {
			return err
		}
	}
	a.settings = s
	a.logger = s.NewLogger(a.errOut)
	return nil
}

// build loads a wiring file into a fresh network.
func (a *app) build(path string) (*eventmodel.Network, topology.Topology, error) {
	topo, err := topology.Load(path)
	if err != nil {
		return nil, topology.Topology{}, err
	}
	opts := eventmodel.OptionsFromSettings(a.settings, nil)
	opts = append(opts, eventmodel.WithLogger(a.logger))
	net, err := eventmodel.Build(topo, opts...)
	return net, topo, err
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <wiring-file>",
		Short:   "Check a wiring file for unknown nodes, root edges and cycles",
		Example: "  emgraph validate wiring.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, topo, err := a.build(args[0])
			if err != nil {
				return fmt.Errorf("%s is invalid:\n%w", args[0], err)
			}
			fmt.Fprintf(a.out, "%s: ok (%d nodes, %d edges)\n", args[0], net.Len()-1, len(topo.Edges))
			return nil
		},
	}
}

func (a *app) inspectCmd() *cobra.Command {
	var event string
	cmd := &cobra.Command{
		Use:     "inspect <wiring-file>",
		Short:   "Print the direct and transitive propagation targets of every node",
		Example: "  emgraph inspect wiring.yaml\n  emgraph inspect wiring.yaml --event saved",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, _, err := a.build(args[0])
			if err != nil {
				return err
			}

			var events []string
			if event != "" {
				events = []string{event}
			}
			for _, n := range net.Nodes() {
				if n.IsRoot() {
					continue
				}
				fmt.Fprintf(a.out, "%s\n", n.ID())
				fmt.Fprintf(a.out, "  direct: %s\n", joinIDs(n.DirectPropagationTargets(events...)))
				fmt.Fprintf(a.out, "  all:    %s\n", joinIDs(n.AllPropagationTargets(events...)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&event, "event", "", "Only follow edges for this event name (and wildcard edges)")
	return cmd
}

func (a *app) snapshotCmd() *cobra.Command {
	var dbPath, name string
	cmd := &cobra.Command{
		Use:     "snapshot <wiring-file>",
		Short:   "Validate a wiring file and store its topology in SQLite",
		Example: "  emgraph snapshot wiring.yaml --db topologies.db --name main",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, _, err := a.build(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			store, err := topology.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			snap := net.Snapshot()
			if err := store.Save(name, snap); err != nil {
				return err
			}
			a.logger.Info("topology stored", "name", name, "db", dbPath)
			fmt.Fprintf(a.out, "stored %q (%d nodes, %d edges)\n", name, len(snap.Nodes), len(snap.Edges))
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "topologies.db", "SQLite database path")
	cmd.Flags().StringVar(&name, "name", "", "Name to store under (default: file name without extension)")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored topologies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := topology.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.List()
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(a.out, "%s\t%d nodes\t%d edges\t%s\n",
					info.Name, info.Nodes, info.Edges, info.SavedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "topologies.db", "SQLite database path")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var dbPath, name, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a stored topology as a wiring file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := topology.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			topo, err := store.Load(name)
			if err != nil {
				return fmt.Errorf("load %q: %w", name, err)
			}

			var data []byte
			switch format {
			case "yaml":
				data, err = topo.YAML()
			case "json":
				data, err = topo.JSON()
			default:
				return fmt.Errorf("unsupported format %q (want yaml or json)", format)
			}
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "topologies.db", "SQLite database path")
	cmd.Flags().StringVar(&name, "name", "", "Stored topology name")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml|json")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func joinIDs(targets []eventmodel.Emitter) string {
	if len(targets) == 0 {
		return "-"
	}
	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = t.(*eventmodel.Node).ID()
	}
	return strings.Join(ids, ", ")
}
