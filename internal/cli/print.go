package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"netsim/internal/domain"
	"netsim/internal/engine"
	"netsim/internal/repository"
)

func printPing(w io.Writer, stats *engine.PingStats) {
	if !stats.Reachable {
		fmt.Fprintf(w, "%s -> %s: unreachable, no path\n", stats.Source, stats.Destination)
		return
	}
	fmt.Fprintf(w, "%s -> %s: %d hops via %s\n",
		stats.Source, stats.Destination, stats.Hops, joinPath(stats.Path))
	if stats.Expired {
		fmt.Fprintf(w, "ttl exceeded: path needs %d hops\n", stats.Hops)
		return
	}
	for _, t := range stats.Times {
		fmt.Fprintf(w, "reply from %s: time=%.2fms\n", stats.Destination, t)
	}
	fmt.Fprintf(w, "%d packets transmitted, %d received, %.1f%% packet loss\n",
		stats.Sent, stats.Received, stats.LossPct)
	if stats.Received > 0 {
		fmt.Fprintf(w, "rtt min/avg/max = %.2f/%.2f/%.2f ms\n",
			stats.MinMs, stats.AvgMs, stats.MaxMs)
	}
}

func joinPath(path []string) string {
	out := ""
	for i, hop := range path {
		if i > 0 {
			out += " -> "
		}
		out += hop
	}
	return out
}

func printDevices(w io.Writer, topo *domain.Topology) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range topo.Devices() {
		fmt.Fprintln(tw, d)
		for _, name := range d.InterfaceNames() {
			i := d.Interface(name)
			addr := "-"
			if i.HasAddr() {
				addr = i.Addr.String()
			}
			state := "down"
			if i.Connected && i.Peer != nil {
				state = "connected to " + i.Peer.String()
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", name, addr, state)
		}
	}
	tw.Flush()
}

func printTopology(w io.Writer, topo *domain.Topology) {
	fmt.Fprintln(w, topo)
	for _, l := range topo.Links() {
		fmt.Fprintf(w, "  %s\n", l)
	}
}

func printEntries(w io.Writer, entries []repository.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tdevices\tlinks\tupdated")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			e.Name, e.Devices, e.Links, e.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}

func printRoutes(w io.Writer, matrix *engine.RouteMatrix) {
	if len(matrix.Devices) == 0 {
		fmt.Fprintln(w, "no devices")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "source")
	for _, dst := range matrix.Devices {
		fmt.Fprintf(tw, "\t%s", dst)
	}
	fmt.Fprintln(tw)
	for _, src := range matrix.Devices {
		fmt.Fprint(tw, src)
		for _, dst := range matrix.Devices {
			mark := "no"
			if matrix.Reachable[src][dst] {
				mark = "yes"
			}
			fmt.Fprintf(tw, "\t%s", mark)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
