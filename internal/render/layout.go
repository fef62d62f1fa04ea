package render

import "netsim/internal/domain"

type point struct {
	X, Y int
}

// tier returns the vertical band for a device type: routers on top, switches
// in the middle, hosts at the bottom.
func tier(deviceType string) int {
	switch domain.DeviceType(deviceType) {
	case domain.DeviceRouter:
		return 0
	case domain.DeviceSwitch:
		return 1
	case domain.DeviceHost:
		return 2
	default:
		return 3
	}
}

// layout places devices on a hierarchical grid: one row per tier, devices
// spread evenly across the row. Snapshot ordering is deterministic, so the
// same topology always renders identically.
func layout(snap *domain.Snapshot, width, height int) map[string]point {
	rows := make(map[int][]string)
	for _, d := range snap.Devices {
		t := tier(d.Type)
		rows[t] = append(rows[t], d.Name)
	}

	positions := make(map[string]point, len(snap.Devices))
	rowGap := height / 4
	for t, names := range rows {
		y := rowGap/2 + t*rowGap
		step := width / (len(names) + 1)
		for i, name := range names {
			positions[name] = point{X: step * (i + 1), Y: y}
		}
	}
	return positions
}
