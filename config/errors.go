// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"plain\", \"text\", or \"json\")")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfig indicates the configuration file is not valid YAML.
	ErrInvalidConfig = errors.New("config: invalid configuration file")

	// ErrInvalidSupply indicates a missing, zero or oversized total supply.
	ErrInvalidSupply = errors.New("config: invalid total supply")

	// ErrInvalidDecimals indicates too many decimals.
	ErrInvalidDecimals = errors.New("config: invalid decimals")

	// ErrFeeTooHigh indicates fee rates summing above the cap.
	ErrFeeTooHigh = errors.New("config: fees too high")

	// ErrInvalidLimits indicates a transfer or wallet cap outside (0, 10000] bps.
	ErrInvalidLimits = errors.New("config: invalid limits")

	// ErrInvalidMinTokens indicates an unparsable dividend threshold.
	ErrInvalidMinTokens = errors.New("config: invalid minimum tokens for dividends")

	// ErrIncompleteRecipients indicates some but not all genesis recipients are set.
	ErrIncompleteRecipients = errors.New("config: genesis recipients must be all set or all empty")
)
