package cmd

import "testing"

func TestResolveServePort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flagPort   int
		configPort int
		want       int
	}{
		{name: "flag wins", flagPort: 9090, configPort: 3000, want: 9090},
		{name: "config when flag unset", flagPort: 0, configPort: 3000, want: 3000},
		{name: "default", flagPort: 0, configPort: 0, want: 8080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveServePort(tt.flagPort, tt.configPort); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
