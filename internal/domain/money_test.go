// internal/domain/money_test.go
package domain

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "plain decimal", input: "1234.56", wantCents: 123456},
		{name: "comma separator", input: "1234,56", wantCents: 123456},
		{name: "no fraction", input: "150", wantCents: 15000},
		{name: "one fraction digit", input: "9.5", wantCents: 950},
		{name: "zero", input: "0", wantCents: 0},
		{name: "zero with fraction", input: "0.00", wantCents: 0},
		{name: "leading dot", input: ".99", wantCents: 99},
		{name: "max integer digits", input: "999999999999.99", wantCents: 99999999999999},
		{name: "thirteen integer digits", input: "1000000000000.00", wantErr: true},
		{name: "three fraction digits", input: "1.999", wantErr: true},
		{name: "negative sign", input: "-1.00", wantErr: true},
		{name: "plus sign", input: "+1.00", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
		{name: "letters", input: "12a.50", wantErr: true},
		{name: "unicode digit in fraction", input: "1.٣", wantErr: true},
		{name: "unicode digit in integer part", input: "٣1.00", wantErr: true},
		{name: "fullwidth digit", input: "１.00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMoney(%q) = %v, want error", tt.input, got)
				}
				if !IsValidation(err) {
					t.Fatalf("ParseMoney(%q) error = %v, want ValidationError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseMoney(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{123456, "1234.56"},
		{950, "9.50"},
		{99, "0.99"},
		{0, "0.00"},
		{-12550, "-125.50"},
		{99999999999999, "999999999999.99"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	// Largest representable amount survives parse -> render -> parse.
	const input = "999999999999.99"
	m, err := ParseMoney(input)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", input, err)
	}
	if m.String() != input {
		t.Fatalf("round trip lost precision: got %q", m.String())
	}
	back, err := ParseMoney(m.String())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if back != m {
		t.Errorf("reparse mismatch: %v != %v", back, m)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1050}
	b := Money{Cents: 250}
	if got := a.Add(b); got.Cents != 1300 {
		t.Errorf("Add = %d, want 1300", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 800 {
		t.Errorf("Sub = %d, want 800", got.Cents)
	}
	if got := b.Sub(a); !got.IsNegative() {
		t.Errorf("Sub underflow should be negative, got %d", got.Cents)
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	data, err := (Money{Cents: 123456}).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1234.56" {
		t.Errorf("MarshalJSON = %s, want 1234.56", data)
	}

	var m Money
	if err := m.UnmarshalJSON([]byte(`"42.07"`)); err != nil {
		t.Fatal(err)
	}
	if m.Cents != 4207 {
		t.Errorf("UnmarshalJSON = %d cents, want 4207", m.Cents)
	}
}
