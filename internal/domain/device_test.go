package domain

import "testing"

func TestDeviceTypeCapabilities(t *testing.T) {
	tests := []struct {
		deviceType DeviceType
		assigns    bool
	}{
		{DeviceRouter, true},
		{DeviceSwitch, false},
		{DeviceHost, true},
	}

	for _, tt := range tests {
		if got := tt.deviceType.AssignsAddresses(); got != tt.assigns {
			t.Errorf("DeviceType(%s).AssignsAddresses() = %v, want %v",
				tt.deviceType, got, tt.assigns)
		}
		if !tt.deviceType.DynamicInterfaces() {
			t.Errorf("DeviceType(%s).DynamicInterfaces() = false, want true", tt.deviceType)
		}
	}
}

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		in      string
		want    DeviceType
		wantErr bool
	}{
		{"router", DeviceRouter, false},
		{"Switch", DeviceSwitch, false},
		{"HOST", DeviceHost, false},
		{"firewall", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDeviceType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDeviceType(%q) expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDeviceType(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDeviceType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDevice(t *testing.T) {
	t.Run("constructor creates the interface set", func(t *testing.T) {
		d := NewRouter("R1", "eth0", "eth1")
		if len(d.Interfaces) != 2 {
			t.Fatalf("expected 2 interfaces, got %d", len(d.Interfaces))
		}
		if d.Interface("eth0") == nil || d.Interface("eth1") == nil {
			t.Error("expected eth0 and eth1 to exist")
		}
	})

	t.Run("AddInterface is idempotent", func(t *testing.T) {
		d := NewHost("PC1", "eth0")
		first := d.Interface("eth0")
		if second := d.AddInterface("eth0"); second != first {
			t.Error("expected AddInterface to return the existing interface")
		}
	})

	t.Run("interface names are sorted", func(t *testing.T) {
		d := NewSwitch("SW1", "p2", "p10", "p1")
		names := d.InterfaceNames()
		want := []string{"p1", "p10", "p2"}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("name %d: expected %s, got %s", i, want[i], names[i])
			}
		}
	})

	t.Run("display label", func(t *testing.T) {
		if got := NewRouter("R1").String(); got != "ROUTER: R1" {
			t.Errorf("expected %q, got %q", "ROUTER: R1", got)
		}
	})
}
