package importer

import "testing"

func TestParseLooseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "soles with thousands", input: "S/ 1,200.50", want: 1200.50},
		{name: "european separators", input: "1.200,50", want: 1200.50},
		{name: "lone decimal comma", input: "7,5", want: 7.5},
		{name: "lone comma is decimal", input: "1,200", want: 1.2},
		{name: "repeated dots", input: "1.200.000", want: 1200000},
		{name: "unit digits are kept", input: "120 m2", want: 1202},
		{name: "negative", input: "-15", want: -15},
		{name: "empty", input: "", want: 0},
		{name: "text only", input: "consultar", want: 0},
		{name: "only separators", input: "-.", want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseLooseNumber(tc.input); got != tc.want {
				t.Fatalf("ParseLooseNumber(%q): want %v, got %v", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		want        float64
		wantPresent bool
	}{
		{name: "mil suffix", input: "450mil", want: 450000, wantPresent: true},
		{name: "mil suffix spaced", input: "S/ 450 MIL", want: 450000, wantPresent: true},
		{name: "mill suffix", input: "1.5 mill", want: 1500000, wantPresent: true},
		{name: "millones", input: "2 millones", want: 2000000, wantPresent: true},
		{name: "soles", input: "S/ 1,200.50", want: 1200.50, wantPresent: true},
		{name: "soles with dot marker", input: "S/. 1,200", want: 1200, wantPresent: true},
		{name: "dollars grouped", input: "$ 120,000", want: 120000, wantPresent: true},
		{name: "usd marker", input: "USD 95.000,00", want: 95000, wantPresent: true},
		{name: "explicit zero", input: "0", want: 0, wantPresent: true},
		{name: "empty", input: "", want: 0, wantPresent: false},
		{name: "blank", input: "   ", want: 0, wantPresent: false},
		{name: "text only", input: "a tratar", want: 0, wantPresent: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, present := ParseMoney(tc.input)
			if present != tc.wantPresent {
				t.Fatalf("ParseMoney(%q) presence: want %t, got %t", tc.input, tc.wantPresent, present)
			}
			if got != tc.want {
				t.Fatalf("ParseMoney(%q): want %v, got %v", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"true", "TRUE", " True "} {
		if !ParseBool(input) {
			t.Fatalf("expected %q to parse as true", input)
		}
	}
	for _, input := range []string{"", "false", "si", "1", "yes"} {
		if ParseBool(input) {
			t.Fatalf("expected %q to parse as false", input)
		}
	}
}
