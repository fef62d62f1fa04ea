package domain

import "testing"

func TestLinkNormalize(t *testing.T) {
	tests := []struct {
		name string
		link Link
		a, b Endpoint
	}{
		{
			name: "already ordered",
			link: Link{A: Endpoint{"A", "eth0"}, B: Endpoint{"B", "eth0"}},
			a:    Endpoint{"A", "eth0"},
			b:    Endpoint{"B", "eth0"},
		},
		{
			name: "swapped devices",
			link: Link{A: Endpoint{"B", "eth0"}, B: Endpoint{"A", "eth0"}},
			a:    Endpoint{"A", "eth0"},
			b:    Endpoint{"B", "eth0"},
		},
		{
			name: "same device orders by interface",
			link: Link{A: Endpoint{"A", "eth1"}, B: Endpoint{"A", "eth0"}},
			a:    Endpoint{"A", "eth0"},
			b:    Endpoint{"A", "eth1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.link.Normalize()
			if tt.link.A != tt.a || tt.link.B != tt.b {
				t.Errorf("expected %v <-> %v, got %v <-> %v", tt.a, tt.b, tt.link.A, tt.link.B)
			}
		})
	}
}

func TestLinkQueries(t *testing.T) {
	l := Link{A: Endpoint{"A", "eth0"}, B: Endpoint{"B", "eth1"}}

	if !l.Involves("A") || !l.Involves("B") || l.Involves("C") {
		t.Error("Involves reported wrong devices")
	}
	if !l.HasEndpoint("A", "eth0") || l.HasEndpoint("A", "eth1") {
		t.Error("HasEndpoint reported wrong endpoint")
	}
	if got := l.OtherEnd("A"); got != l.B {
		t.Errorf("expected other end %v, got %v", l.B, got)
	}
	if got := l.OtherEnd("B"); got != l.A {
		t.Errorf("expected other end %v, got %v", l.A, got)
	}
}

func TestLinkString(t *testing.T) {
	l := Link{A: Endpoint{"A", "eth0"}, B: Endpoint{"B", "eth1"}, Bandwidth: 100}
	if got := l.String(); got != "A:eth0 <-> B:eth1 (100 Mbps)" {
		t.Errorf("unexpected string: %q", got)
	}
}
