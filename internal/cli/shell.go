package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"netsim/internal/codec"
	"netsim/internal/config"
	"netsim/internal/domain"
	"netsim/internal/engine"
	"netsim/internal/render"
	"netsim/internal/repository"
	"netsim/internal/repository/sqlite"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive topology shell",
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open topology database: %w", err)
	}
	defer store.Close()
	log.Debug().Str("path", cfg.Database.Path).Msg("topology database opened")

	shell := NewShell(cfg, store, os.Stdin, cmd.OutOrStdout())
	return shell.Run()
}

// Shell is a line-oriented session over one in-memory topology. Core errors
// abort only the command that caused them; the session continues.
type Shell struct {
	cfg   *config.Config
	store repository.Store // nil when no database is available
	topo  *domain.Topology
	in    io.Reader
	out   io.Writer
}

// NewShell creates a shell reading commands from in and writing to out.
func NewShell(cfg *config.Config, store repository.Store, in io.Reader, out io.Writer) *Shell {
	return &Shell{cfg: cfg, store: store, in: in, out: out}
}

// Run reads and dispatches commands until exit or EOF.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "netsim interactive shell (type 'help' for commands)")
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "netsim> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}
		if err := s.dispatch(fields[0], fields[1:]); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *Shell) dispatch(command string, args []string) error {
	switch command {
	case "create":
		return s.cmdCreate(args)
	case "add":
		return s.cmdAdd(args)
	case "remove":
		return s.cmdRemove(args)
	case "connect":
		return s.cmdConnect(args)
	case "disconnect":
		return s.cmdDisconnect(args)
	case "ping":
		return s.cmdPing(args)
	case "show":
		return s.cmdShow(args)
	case "draw":
		return s.cmdDraw(args)
	case "save":
		return s.cmdSave(args)
	case "load":
		return s.cmdLoad(args)
	case "list":
		return s.cmdList(args)
	case "delete":
		return s.cmdDelete(args)
	case "help":
		s.printHelp()
		return nil
	default:
		return fmt.Errorf("unknown command %q (type 'help')", command)
	}
}

// current returns the active topology or an error directing the user to
// create or load one first.
func (s *Shell) current() (*domain.Topology, error) {
	if s.topo == nil {
		return nil, fmt.Errorf("no active topology; use 'create <name>' or 'load <target>' first")
	}
	return s.topo, nil
}

func (s *Shell) newEngine() *engine.Engine {
	return engine.NewWithOptions(s.topo, s.cfg.EngineOptions())
}

func (s *Shell) cmdCreate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: create <name>")
	}
	pool, err := s.cfg.NewPool()
	if err != nil {
		return err
	}
	s.topo = domain.NewWithPool(args[0], pool)
	fmt.Fprintf(s.out, "created %s\n", s.topo)
	return nil
}

func (s *Shell) cmdAdd(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: add <router|switch|host> <name> [interface...]")
	}
	topo, err := s.current()
	if err != nil {
		return err
	}
	deviceType, err := domain.ParseDeviceType(args[0])
	if err != nil {
		return err
	}
	d := domain.NewDevice(args[1], deviceType, args[2:]...)
	if err := topo.AddDevice(d); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "added %s\n", d)
	return nil
}

func (s *Shell) cmdRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: remove <device>")
	}
	topo, err := s.current()
	if err != nil {
		return err
	}
	if err := topo.RemoveDevice(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "removed %s\n", args[0])
	return nil
}

func (s *Shell) cmdConnect(args []string) error {
	if len(args) != 4 && len(args) != 5 {
		return fmt.Errorf("usage: connect <deviceA> <ifaceA> <deviceB> <ifaceB> [bandwidthMbps]")
	}
	topo, err := s.current()
	if err != nil {
		return err
	}
	var bandwidth float64
	if len(args) == 5 {
		bandwidth, err = strconv.ParseFloat(args[4], 64)
		if err != nil {
			return fmt.Errorf("invalid bandwidth %q", args[4])
		}
	}
	if err := topo.Connect(args[0], args[1], args[2], args[3], bandwidth); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "connected %s:%s <-> %s:%s\n", args[0], args[1], args[2], args[3])
	return nil
}

func (s *Shell) cmdDisconnect(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: disconnect <device> <iface>")
	}
	topo, err := s.current()
	if err != nil {
		return err
	}
	if err := topo.Disconnect(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "disconnected %s:%s\n", args[0], args[1])
	return nil
}

func (s *Shell) cmdPing(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: ping <source> <destination>")
	}
	if _, err := s.current(); err != nil {
		return err
	}
	stats, err := s.newEngine().PingStats(args[0], args[1], s.cfg.Ping.Count)
	if err != nil {
		return err
	}
	printPing(s.out, stats)
	return nil
}

func (s *Shell) cmdShow(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <devices|topology|routes>")
	}
	topo, err := s.current()
	if err != nil {
		return err
	}
	switch args[0] {
	case "devices":
		printDevices(s.out, topo)
	case "topology":
		printTopology(s.out, topo)
	case "routes":
		printRoutes(s.out, s.newEngine().Routes())
	default:
		return fmt.Errorf("unknown show target %q (devices, topology, routes)", args[0])
	}
	return nil
}

func (s *Shell) cmdDraw(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: draw [output.svg]")
	}
	topo, err := s.current()
	if err != nil {
		return err
	}
	output := s.cfg.Draw.Output
	if len(args) == 1 {
		output = args[0]
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()
	if err := render.New().Render(topo.Snapshot(), f); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "topology drawn to %s\n", output)
	return nil
}

// cmdSave writes the active topology either to a snapshot file (targets with
// a .json/.yaml/.yml extension) or to the topology database by name.
func (s *Shell) cmdSave(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: save [file.json|file.yaml|name]")
	}
	topo, err := s.current()
	if err != nil {
		return err
	}
	snap := topo.Snapshot()

	if len(args) == 1 && hasCodecExt(args[0]) {
		c, err := codec.ForPath(args[0])
		if err != nil {
			return err
		}
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer f.Close()
		if err := c.Export(snap, f); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "saved topology to %s\n", args[0])
		return nil
	}

	if s.store == nil {
		return fmt.Errorf("no topology database available")
	}
	if len(args) == 1 {
		snap.Name = args[0]
	}
	if err := s.store.Save(context.Background(), snap); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "saved topology %q\n", snap.Name)
	return nil
}

// cmdLoad reads a snapshot from a file or from the database, rebuilds a
// fresh topology from it, and swaps it in only on success.
func (s *Shell) cmdLoad(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: load <file.json|file.yaml|name>")
	}

	var snap *domain.Snapshot
	if hasCodecExt(args[0]) {
		c, err := codec.ForPath(args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		if snap, err = c.Parse(f); err != nil {
			return err
		}
	} else {
		if s.store == nil {
			return fmt.Errorf("no topology database available")
		}
		var err error
		if snap, err = s.store.Load(context.Background(), args[0]); err != nil {
			return err
		}
	}

	pool, err := s.cfg.NewPool()
	if err != nil {
		return err
	}
	topo, err := domain.FromSnapshot(snap, pool)
	if err != nil {
		return err
	}
	s.topo = topo
	fmt.Fprintf(s.out, "loaded %s\n", topo)
	return nil
}

func (s *Shell) cmdList(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: list")
	}
	if s.store == nil {
		return fmt.Errorf("no topology database available")
	}
	entries, err := s.store.List(context.Background())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "no saved topologies")
		return nil
	}
	printEntries(s.out, entries)
	return nil
}

func (s *Shell) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <name>")
	}
	if s.store == nil {
		return fmt.Errorf("no topology database available")
	}
	if err := s.store.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "deleted topology %q\n", args[0])
	return nil
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `commands:
  create <name>                                  start a new empty topology
  add <router|switch|host> <name> [iface...]     add a device
  remove <device>                                remove a device and its links
  connect <devA> <ifA> <devB> <ifB> [mbps]       link two interfaces
  disconnect <device> <iface>                    tear down a link
  ping <source> <destination>                    simulate a ping
  show devices|topology|routes                   inspect the topology
  draw [output.svg]                              render the topology as SVG
  save [file.json|file.yaml|name]                save to file or database
  load <file.json|file.yaml|name>                load from file or database
  list                                           list saved topologies
  delete <name>                                  delete a saved topology
  exit | quit                                    leave the shell
`)
}

func hasCodecExt(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasSuffix(lower, ".json") ||
		strings.HasSuffix(lower, ".yaml") ||
		strings.HasSuffix(lower, ".yml")
}
