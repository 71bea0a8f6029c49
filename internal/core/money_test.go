package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   error
	}{
		{name: "whole number", input: "12", wantCents: 1200},
		{name: "two decimals", input: "12.34", wantCents: 1234},
		{name: "one decimal", input: "12.3", wantCents: 1230},
		{name: "comma separator", input: "12,34", wantCents: 1234},
		{name: "leading dot", input: ".50", wantCents: 50},
		{name: "trailing dot", input: "12.", wantCents: 1200},
		{name: "zero", input: "0", wantCents: 0},
		{name: "surrounding spaces", input: " 7.25 ", wantCents: 725},
		{name: "three decimals rejected", input: "12.345", wantErr: ErrAmountPrecision},
		{name: "empty", input: "", wantErr: ErrInvalidAmount},
		{name: "negative sign", input: "-5", wantErr: ErrInvalidAmount},
		{name: "plus sign", input: "+5", wantErr: ErrInvalidAmount},
		{name: "letters", input: "abc", wantErr: ErrInvalidAmount},
		{name: "two dots", input: "1.2.3", wantErr: ErrInvalidAmount},
		{name: "mixed digits and letters", input: "12x.00", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseAmount(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseAmount(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{1234, "12.34"},
		{15000, "150.00"},
		{-1234, "-12.34"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneySumIsExact(t *testing.T) {
	a, err := ParseAmount("100.50")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseAmount("49.50")
	if err != nil {
		t.Fatal(err)
	}

	sum := a.Add(b)
	if got := sum.String(); got != "150.00" {
		t.Errorf("100.50 + 49.50 = %q, want 150.00", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 15000})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "150.00" {
		t.Errorf("marshal = %s, want 150.00", out)
	}

	var m Money
	if err := json.Unmarshal([]byte("99.95"), &m); err != nil {
		t.Fatal(err)
	}
	if m.Cents != 9995 {
		t.Errorf("unmarshal 99.95 = %d cents, want 9995", m.Cents)
	}

	if err := json.Unmarshal([]byte("12.345"), &m); !errors.Is(err, ErrAmountPrecision) {
		t.Errorf("unmarshal 12.345 error = %v, want precision error", err)
	}
}
