// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package adcdev

import (
	"fmt"

	"github.com/warthog618/config"
)

// Device property keys accepted by NewFromConfig.
//
// These follow the platform description the devices are conventionally
// declared with, so a board file can be mapped across key for key.
const (
	// ChannelMaskKey is the mask of available channels.
	ChannelMaskKey = "channel-mask"

	// DataMaskKey is the advisory mask of valid raw sample bits.
	DataMaskKey = "data-mask"

	// SingleTimeoutKey is the busy-retry budget for single channel reads.
	SingleTimeoutKey = "single-timeout"

	// MultiTimeoutKey is the busy-retry budget for multi channel reads.
	MultiTimeoutKey = "multi-timeout"

	// VddMicrovoltsKey is the static vdd voltage, for devices without a
	// controllable vdd supply.
	VddMicrovoltsKey = "vdd-microvolts"

	// VssMicrovoltsKey is the static vss voltage, for devices without a
	// controllable vss supply.
	VssMicrovoltsKey = "vss-microvolts"

	// VddPolarityNegativeKey indicates the vdd voltage is reported negated.
	VddPolarityNegativeKey = "vdd-polarity-negative"

	// VssPolarityNegativeKey indicates the vss voltage is reported negated.
	VssPolarityNegativeKey = "vss-polarity-negative"
)

// NewFromConfig creates a Device configured from key/value properties.
//
// Absent keys leave the corresponding defaults in place; malformed values
// fail construction. Supply regulators are capability references and
// cannot be expressed as flat properties, so they are provided, along with
// any overrides, as trailing options - options are applied after the
// configuration.
func NewFromConfig(name string, drv Driver, cfg *config.Config, options ...Option) (*Device, error) {
	p := propGetter{cfg: cfg}
	oo := []Option(nil)
	if v, ok := p.get(ChannelMaskKey); ok {
		oo = append(oo, WithChannelMask(uint32(v.Uint())))
	}
	if v, ok := p.get(DataMaskKey); ok {
		oo = append(oo, WithDataMask(uint32(v.Uint())))
	}
	if v, ok := p.get(SingleTimeoutKey); ok {
		oo = append(oo, WithSingleTimeout(uint(v.Uint())))
	}
	if v, ok := p.get(MultiTimeoutKey); ok {
		oo = append(oo, WithMultiTimeout(uint(v.Uint())))
	}
	if v, ok := p.get(VddMicrovoltsKey); ok {
		oo = append(oo, WithVddMicrovolts(int(v.Int())))
	}
	if v, ok := p.get(VssMicrovoltsKey); ok {
		oo = append(oo, WithVssMicrovolts(int(v.Int())))
	}
	if v, ok := p.get(VddPolarityNegativeKey); ok && v.Bool() {
		oo = append(oo, WithVddPolarityNegative())
	}
	if v, ok := p.get(VssPolarityNegativeKey); ok && v.Bool() {
		oo = append(oo, WithVssPolarityNegative())
	}
	if p.err != nil {
		return nil, fmt.Errorf("invalid %s: %s", p.key, p.err)
	}
	oo = append(oo, options...)
	return New(name, drv, oo...)
}

// propGetter fetches property values, recording the first conversion
// failure so a malformed value fails construction rather than silently
// becoming zero.
type propGetter struct {
	cfg *config.Config

	// key and err identify the first conversion failure.
	key string
	err error
}

// get returns the value for the key, or ok false if the key is absent.
//
// Conversion failures on the returned value are captured into err.
func (p *propGetter) get(key string) (config.Value, bool) {
	eh := config.WithErrorHandler(func(err error) error {
		if p.err == nil {
			p.key = key
			p.err = err
		}
		return err
	})
	v, err := p.cfg.Get(key, eh)
	if err != nil {
		return config.Value{}, false
	}
	return v, true
}
