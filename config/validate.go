// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/logging"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	logging.FormatPlain: true,
	logging.FormatText:  true,
	logging.FormatJSON:  true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if !validLogFormats[strings.ToLower(cfg.LogFormat)] {
		return ErrInvalidLogFormat
	}

	return cfg.Ledger.validate()
}

func (c LedgerConfig) validate() error {
	if _, err := c.Supply(); err != nil {
		return err
	}

	if c.Fees.Total() > fee.MaxTotalBps {
		return fmt.Errorf("%w: %d bps > %d bps", ErrFeeTooHigh, c.Fees.Total(), fee.MaxTotalBps)
	}

	if err := validateBps(c.MaxTxBps); err != nil {
		return fmt.Errorf("%w: max tx: %w", ErrInvalidLimits, err)
	}
	if err := validateBps(c.MaxWalletBps); err != nil {
		return fmt.Errorf("%w: max wallet: %w", ErrInvalidLimits, err)
	}

	if _, err := c.MinTokens(); err != nil {
		return err
	}

	set := 0
	for _, s := range c.Recipients.Shares() {
		if !s.Recipient.IsZero() {
			set++
		}
	}
	if set != 0 && set != len(c.Recipients.Shares()) {
		return ErrIncompleteRecipients
	}
	return nil
}

// validateBps checks that bps is in (0, fee.Denominator].
func validateBps(bps uint16) error {
	if bps == 0 || bps > fee.Denominator {
		return fmt.Errorf("%d bps out of range", bps)
	}
	return nil
}
