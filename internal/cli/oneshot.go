package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"netsim/internal/codec"
	"netsim/internal/domain"
	"netsim/internal/engine"
	"netsim/internal/render"
)

// One-shot commands run a single core operation against a snapshot file,
// for scripted use outside the interactive shell.

var snapshotFile string

var pingCmd = &cobra.Command{
	Use:   "ping <source> <destination>",
	Short: "Simulate a ping between two devices of a saved topology",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topo, err := loadSnapshotFile()
		if err != nil {
			return err
		}
		eng := engine.NewWithOptions(topo, cfg.EngineOptions())
		stats, err := eng.PingStats(args[0], args[1], cfg.Ping.Count)
		if err != nil {
			return err
		}
		printPing(cmd.OutOrStdout(), stats)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <devices|topology|routes>",
	Short: "Display a saved topology",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topo, err := loadSnapshotFile()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch args[0] {
		case "devices":
			printDevices(out, topo)
		case "topology":
			printTopology(out, topo)
		case "routes":
			printRoutes(out, engine.New(topo).Routes())
		default:
			return fmt.Errorf("unknown show target %q (devices, topology, routes)", args[0])
		}
		return nil
	},
}

var drawOutput string

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Render a saved topology as SVG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topo, err := loadSnapshotFile()
		if err != nil {
			return err
		}
		output := drawOutput
		if output == "" {
			output = cfg.Draw.Output
		}
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		if err := render.New().Render(topo.Snapshot(), f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "topology drawn to %s\n", output)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{pingCmd, showCmd, drawCmd} {
		cmd.Flags().StringVarP(&snapshotFile, "file", "f", "", "topology snapshot file (.json or .yaml)")
		cmd.MarkFlagRequired("file")
		rootCmd.AddCommand(cmd)
	}
	drawCmd.Flags().StringVarP(&drawOutput, "output", "o", "", "output SVG path (default from config)")
}

func loadSnapshotFile() (*domain.Topology, error) {
	c, err := codec.ForPath(snapshotFile)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(snapshotFile)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", snapshotFile, err)
	}
	defer f.Close()

	snap, err := c.Parse(f)
	if err != nil {
		return nil, err
	}
	pool, err := cfg.NewPool()
	if err != nil {
		return nil, err
	}
	return domain.FromSnapshot(snap, pool)
}
