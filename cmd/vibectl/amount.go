package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/ledger"
)

// parseAmount reads a token amount such as "1500" or "0.25" into base units.
func parseAmount(s string, decimals uint8) (*uint256.Int, error) {
	whole, frac, _ := strings.Cut(strings.ReplaceAll(s, "_", ""), ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("invalid amount %q: more than %d decimal places", s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
	}
	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// formatAmount renders base units as a grouped decimal token amount.
func formatAmount(v *uint256.Int, decimals uint8) string {
	q, r := new(uint256.Int).DivMod(v, ledger.Unit(decimals), new(uint256.Int))
	whole := humanize.BigComma(q.ToBig())
	if r.IsZero() {
		return whole
	}
	frac := r.Dec()
	frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
	return whole + "." + strings.TrimRight(frac, "0")
}

// parseSwitch accepts on/off as well as strconv.ParseBool forms.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}

func parseBps(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid basis points %q", s)
	}
	return uint16(v), nil
}
