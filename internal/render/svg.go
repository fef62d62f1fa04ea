// Package render draws topology snapshots as SVG images. It consumes the
// read-only Snapshot shape and never reaches back into the live model.
package render

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"netsim/internal/domain"
)

const (
	defaultWidth  = 1200
	defaultHeight = 800
	nodeSize      = 46
)

// style describes how one device type is drawn.
type style struct {
	Fill   string
	Stroke string
}

var styles = map[domain.DeviceType]style{
	domain.DeviceRouter: {Fill: "#FF6B6B", Stroke: "#CC0000"},
	domain.DeviceSwitch: {Fill: "#4ECDC4", Stroke: "#1A7F7A"},
	domain.DeviceHost:   {Fill: "#A5D8A2", Stroke: "#3D8B37"},
}

var defaultStyle = style{Fill: "#D3D3D3", Stroke: "#A9A9A9"}

// Renderer writes SVG topology drawings.
type Renderer struct {
	Width  int
	Height int
}

// New creates a renderer with the default canvas size.
func New() *Renderer {
	return &Renderer{Width: defaultWidth, Height: defaultHeight}
}

// Render draws the snapshot to w.
func (r *Renderer) Render(snap *domain.Snapshot, w io.Writer) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidFormat)
	}

	width, height := r.Width, r.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	positions := layout(snap, width, height)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Text(width/2, 30, fmt.Sprintf("Network Topology: %s", snap.Name),
		"text-anchor:middle;font-size:20px;font-weight:bold;font-family:sans-serif")

	// Links first, so nodes draw on top of them.
	for _, l := range snap.Links {
		a, okA := positions[l.A.Device]
		b, okB := positions[l.B.Device]
		if !okA || !okB {
			continue
		}
		canvas.Line(a.X, a.Y, b.X, b.Y, "stroke:#888888;stroke-width:2")
		label := fmt.Sprintf("%s - %s", l.A.Interface, l.B.Interface)
		if l.Bandwidth > 0 {
			label = fmt.Sprintf("%s (%g Mbps)", label, l.Bandwidth)
		}
		canvas.Text((a.X+b.X)/2, (a.Y+b.Y)/2-6, label,
			"text-anchor:middle;font-size:11px;font-family:sans-serif;fill:#555555")
	}

	for _, d := range snap.Devices {
		pos, ok := positions[d.Name]
		if !ok {
			continue
		}
		r.drawNode(canvas, d, pos)
	}

	r.drawLegend(canvas, width)
	canvas.End()
	return nil
}

func (r *Renderer) drawNode(canvas *svg.SVG, d domain.DeviceSnapshot, pos point) {
	st, ok := styles[domain.DeviceType(d.Type)]
	if !ok {
		st = defaultStyle
	}
	shape := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", st.Fill, st.Stroke)
	half := nodeSize / 2

	switch domain.DeviceType(d.Type) {
	case domain.DeviceRouter:
		canvas.Rect(pos.X-half, pos.Y-half, nodeSize, nodeSize, shape)
	case domain.DeviceSwitch:
		canvas.Polygon(
			[]int{pos.X - half, pos.X - half/2, pos.X + half/2, pos.X + half, pos.X + half/2, pos.X - half/2},
			[]int{pos.Y, pos.Y - half, pos.Y - half, pos.Y, pos.Y + half, pos.Y + half},
			shape)
	case domain.DeviceHost:
		canvas.Polygon(
			[]int{pos.X, pos.X + half, pos.X - half},
			[]int{pos.Y - half, pos.Y + half, pos.Y + half},
			shape)
	default:
		canvas.Circle(pos.X, pos.Y, half, shape)
	}

	canvas.Text(pos.X, pos.Y-half-8, fmt.Sprintf("%s (%s)", d.Name, strings.ToUpper(d.Type)),
		"text-anchor:middle;font-size:13px;font-weight:bold;font-family:sans-serif")

	line := 0
	for _, i := range d.Interfaces {
		if i.IP == "" {
			continue
		}
		line++
		canvas.Text(pos.X, pos.Y+half+12*line+2, fmt.Sprintf("%s: %s", i.Name, i.IP),
			"text-anchor:middle;font-size:10px;font-family:sans-serif;fill:#333333")
	}
}

func (r *Renderer) drawLegend(canvas *svg.SVG, width int) {
	entries := []struct {
		label string
		t     domain.DeviceType
	}{
		{"Router", domain.DeviceRouter},
		{"Switch", domain.DeviceSwitch},
		{"Host", domain.DeviceHost},
	}
	x := width - 140
	for i, e := range entries {
		y := 60 + i*24
		st := styles[e.t]
		canvas.Rect(x, y-10, 14, 14, fmt.Sprintf("fill:%s;stroke:%s", st.Fill, st.Stroke))
		canvas.Text(x+22, y+2, e.label, "font-size:12px;font-family:sans-serif")
	}
}
