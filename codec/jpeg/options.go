/*
DESCRIPTION
  options.go defines the functional options accepted by Decode, following
  the same style used throughout this codec package's sibling decoders:
  small, composable Option values rather than a wide constructor
  signature or exported config struct.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/ausocean/utils/logging"

// defaultMaxDimension bounds decoded width and height when no explicit
// WithMaxDimensions option is supplied, guarding against a corrupt or
// hostile SOF0 header claiming an implausibly large frame.
const defaultMaxDimension = 16384

// config holds the resolved settings for a single Decode call.
type config struct {
	maxWidth, maxHeight int
	log                 logging.Logger
	strict              bool
}

func defaultConfig() *config {
	return &config{
		maxWidth:  defaultMaxDimension,
		maxHeight: defaultMaxDimension,
		log:       Log,
	}
}

// Option configures a Decode call.
type Option func(*config)

// WithMaxDimensions overrides the default maximum accepted width and
// height; a frame declaring larger dimensions fails with
// ErrDimensionsTooLarge before any pixel data is decoded.
func WithMaxDimensions(width, height int) Option {
	return func(c *config) {
		c.maxWidth = width
		c.maxHeight = height
	}
}

// WithLogger overrides the package-level Log used for diagnostic logging
// during this Decode call.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithStrict promotes soft warning conditions (such as a restart-cycle
// index mismatch) to hard errors instead of logging and continuing.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}
