// Command codeprop is the CLI front end for the code-property-graph
// database: it creates graph stores, ingests analyzer IR, runs queries,
// exports the graph in several formats, and reports summary statistics.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/codeprop/codeprop/internal/logging"
	"github.com/codeprop/codeprop/pkg/config"
	"github.com/codeprop/codeprop/pkg/deps"
	"github.com/codeprop/codeprop/pkg/export"
	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/ingest"
	"github.com/codeprop/codeprop/pkg/kv"
	"github.com/codeprop/codeprop/pkg/query"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "codeprop",
		Short: "codeprop - code property graph database",
		Long: `codeprop stores source-code structure (files, functions, classes,
calls, imports, inheritance) as a directed labeled graph, and supports
querying, dependency analysis, and export to JSON/CSV/N-Triples/DOT.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("codeprop v%s\n", version)
		},
	})

	rootCmd.PersistentFlags().String("config", "", "path to config file (default: none, use built-in defaults)")
	rootCmd.PersistentFlags().String("data-dir", "", "data directory (overrides config)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective config for a command invocation: the
// --config file (or defaults, if unset), then a --data-dir override. It
// takes the raw *pflag.FlagSet rather than *cobra.Command so it can read
// persistent flags regardless of which subcommand is running.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	path, _ := flags.GetString("config")
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}
	if dir, _ := flags.GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// openGraph opens the badger-backed graph at cfg.DataDir.
func openGraph(cfg *config.Config) (*graph.Graph, error) {
	logger := logging.New("[codeprop] ")
	if cfg.Debug {
		logger = logging.NewWithDebug("[codeprop] ")
	}
	backend, err := kv.OpenBadgerBackend(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage at %s: %w", cfg.DataDir, err)
	}
	g, err := graph.Open(backend, logger)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	return g, nil
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty graph store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			g, err := openGraph(cfg)
			if err != nil {
				return err
			}
			defer g.Close()
			fmt.Printf("initialized graph store at %s (%d nodes, %d edges)\n", cfg.DataDir, g.NodeCount(), g.EdgeCount())
			return nil
		},
	}
	return cmd
}

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Ingest one or more analyzer IR JSON files into the graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			g, err := openGraph(cfg)
			if err != nil {
				return err
			}
			defer g.Close()

			m := ingest.NewMapper(g, nil)
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				var rec ingest.FileRecord
				if err := json.Unmarshal(data, &rec); err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				if _, err := m.IngestFile(rec); err != nil {
					return fmt.Errorf("ingest %s: %w", path, err)
				}
			}
			if err := m.ResolvePendingCalls(); err != nil {
				return fmt.Errorf("resolve pending calls: %w", err)
			}
			if err := g.Flush(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
			fmt.Printf("ingested %d file(s): %d nodes, %d edges\n", len(args), g.NodeCount(), g.EdgeCount())
			return nil
		},
	}
	return cmd
}

var nodeTypeNames = map[string]graph.NodeType{
	"file":      graph.NodeCodeFile,
	"function":  graph.NodeFunction,
	"class":     graph.NodeClass,
	"module":    graph.NodeModule,
	"variable":  graph.NodeVariable,
	"type":      graph.NodeTypeAlias,
	"interface": graph.NodeInterface,
	"generic":   graph.NodeGeneric,
}

func newQueryCmd() *cobra.Command {
	var labels []string
	var symbols []string
	var inFile string
	var filePattern string
	var nameContains string
	var limit int

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the graph for matching nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			g, err := openGraph(cfg)
			if err != nil {
				return err
			}
			defer g.Close()

			b := query.New(g)
			if inFile != "" {
				b.InFile(inFile)
			}
			if filePattern != "" {
				b.FilePattern(filePattern)
			}
			if nameContains != "" {
				b.NameContains(nameContains)
			}
			if limit > 0 {
				b.Limit(limit)
			}
			if len(labels) > 0 {
				wanted := make(map[graph.NodeType]bool, len(labels))
				for _, label := range labels {
					t, ok := nodeTypeNames[label]
					if !ok {
						return fmt.Errorf("unknown --label %q (want one of: file, function, class, module, variable, type, interface, generic)", label)
					}
					wanted[t] = true
				}
				b.Custom(func(n *graph.Node) bool { return wanted[n.NodeType] })
			}
			if len(symbols) > 0 {
				b.Custom(func(n *graph.Node) bool {
					name, ok := n.Properties.GetString("name")
					if !ok {
						return false
					}
					for _, s := range symbols {
						if name == s {
							return true
						}
					}
					return false
				})
			}

			ids, err := b.Execute()
			if err != nil {
				return err
			}
			for _, id := range ids {
				n, err := g.GetNode(id)
				if err != nil {
					return err
				}
				name, _ := n.Properties.GetString("name")
				fmt.Printf("%d\t%s\t%s\n", id, n.NodeType, name)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&labels, "label", nil, "restrict to node type(s): file, function, class, module, variable, type, interface, generic (repeatable)")
	cmd.Flags().StringSliceVar(&symbols, "symbol", nil, "restrict to node(s) with this exact name (repeatable)")
	cmd.Flags().StringVar(&inFile, "in-file", "", "scope search to nodes this file path directly contains")
	cmd.Flags().StringVar(&filePattern, "file-pattern", "", "restrict to nodes whose file matches this glob")
	cmd.Flags().StringVar(&nameContains, "name-contains", "", "restrict to nodes whose name contains this substring (case-insensitive)")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of results (0 = unlimited)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string
	var output string
	var colorize bool
	var includeProperties bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the graph as json, csv, ntriples, or dot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			g, err := openGraph(cfg)
			if err != nil {
				return err
			}
			defer g.Close()

			logger := logging.New("[codeprop] ")
			guard := export.SizeGuard{WarnAt: cfg.SizeGuard.WarnAt, RefuseAt: cfg.SizeGuard.RefuseAt}
			var out string
			switch format {
			case "json":
				data, err := export.JSON(g, logger, guard)
				if err != nil {
					return err
				}
				out = string(data)
			case "csv":
				nodes, err := export.CSVNodes(g, logger, guard)
				if err != nil {
					return err
				}
				edges, err := export.CSVEdges(g, logger, guard)
				if err != nil {
					return err
				}
				out = nodes + "\n" + edges
			case "ntriples":
				out, err = export.Triples(g, logger, guard)
				if err != nil {
					return err
				}
			case "dot":
				out, err = export.DotStyled(g, logger, guard, export.DotOptions{Colorize: colorize, IncludeProperties: includeProperties})
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown --format %q (want json, csv, ntriples, or dot)", format)
			}

			if output == "" {
				fmt.Println(out)
				return nil
			}
			return os.WriteFile(output, []byte(out), 0o644)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "export format: json, csv, ntriples, dot")
	cmd.Flags().StringVar(&output, "output", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&colorize, "colorize", false, "(dot) color nodes by type")
	cmd.Flags().BoolVar(&includeProperties, "include-properties", false, "(dot) add a properties tooltip to each node")
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print node/edge counts and the number of non-trivial circular dependency groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			g, err := openGraph(cfg)
			if err != nil {
				return err
			}
			defer g.Close()

			cycles, err := deps.CircularDeps(g)
			if err != nil {
				return err
			}
			fmt.Printf("nodes: %d\n", g.NodeCount())
			fmt.Printf("edges: %d\n", g.EdgeCount())
			fmt.Printf("circular import groups: %d\n", len(cycles))
			return nil
		},
	}
	return cmd
}
