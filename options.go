// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package adcdev

import "time"

// DefaultChannelMask is the channel mask applied to devices that do not
// configure one - all channels available.
const DefaultChannelMask = uint32(0xffffffff)

// Option defines the interface required to provide a Device option.
type Option interface {
	applyDeviceOption(*deviceOptions)
}

// deviceOptions contains the options for a Device.
type deviceOptions struct {
	channelMask   uint32
	dataMask      uint32
	singleTimeout uint
	multiTimeout  uint
	vdd           supply
	vss           supply
	settlePeriod  time.Duration
	settle        func()
}

// ChannelMaskOption defines the set of channels available on a device.
type ChannelMaskOption uint32

// WithChannelMask restricts the channels that may be requested to those
// with their bit set in mask.
func WithChannelMask(mask uint32) ChannelMaskOption {
	return ChannelMaskOption(mask)
}

func (o ChannelMaskOption) applyDeviceOption(d *deviceOptions) {
	d.channelMask = uint32(o)
}

// DataMaskOption defines the valid bits of a raw sample.
type DataMaskOption uint32

// WithDataMask provides the advisory mask of valid bits in a raw sample,
// e.g. 0xfff for a 12-bit converter.
func WithDataMask(mask uint32) DataMaskOption {
	return DataMaskOption(mask)
}

func (o DataMaskOption) applyDeviceOption(d *deviceOptions) {
	d.dataMask = uint32(o)
}

// SingleTimeoutOption defines the busy-retry budget for single channel
// reads.
type SingleTimeoutOption uint

// WithSingleTimeout provides the busy-retry budget for single channel
// reads.
//
// The budget is an iteration count - a read makes at most budget+1
// attempts.
func WithSingleTimeout(budget uint) SingleTimeoutOption {
	return SingleTimeoutOption(budget)
}

func (o SingleTimeoutOption) applyDeviceOption(d *deviceOptions) {
	d.singleTimeout = uint(o)
}

// MultiTimeoutOption defines the busy-retry budget for multi channel reads.
type MultiTimeoutOption uint

// WithMultiTimeout provides the busy-retry budget for multi channel reads.
func WithMultiTimeout(budget uint) MultiTimeoutOption {
	return MultiTimeoutOption(budget)
}

func (o MultiTimeoutOption) applyDeviceOption(d *deviceOptions) {
	d.multiTimeout = uint(o)
}

// VddSupplyOption defines the regulator powering the positive reference
// rail.
type VddSupplyOption struct {
	reg Regulator
}

// WithVddSupply provides the regulator powering the positive reference
// rail.
//
// The device enables the regulator before starting a conversion and
// queries it to resolve the reference voltage. The regulator is shared
// with the device, not owned by it - the device never powers it down.
func WithVddSupply(reg Regulator) VddSupplyOption {
	return VddSupplyOption{reg}
}

func (o VddSupplyOption) applyDeviceOption(d *deviceOptions) {
	d.vdd.reg = o.reg
}

// VssSupplyOption defines the regulator powering the negative reference
// rail.
type VssSupplyOption struct {
	reg Regulator
}

// WithVssSupply provides the regulator powering the negative reference
// rail.
func WithVssSupply(reg Regulator) VssSupplyOption {
	return VssSupplyOption{reg}
}

func (o VssSupplyOption) applyDeviceOption(d *deviceOptions) {
	d.vss.reg = o.reg
}

// VddMicrovoltsOption defines the static voltage of the positive reference
// rail.
type VddMicrovoltsOption int

// WithVddMicrovolts provides the positive reference voltage for devices
// without a controllable vdd supply.
//
// The value is superseded if a vdd supply is also configured - the supply
// is queried instead.
func WithVddMicrovolts(uV int) VddMicrovoltsOption {
	return VddMicrovoltsOption(uV)
}

func (o VddMicrovoltsOption) applyDeviceOption(d *deviceOptions) {
	d.vdd.microvolts = int(o)
	d.vdd.cached = true
}

// VssMicrovoltsOption defines the static voltage of the negative reference
// rail.
type VssMicrovoltsOption int

// WithVssMicrovolts provides the negative reference voltage for devices
// without a controllable vss supply.
func WithVssMicrovolts(uV int) VssMicrovoltsOption {
	return VssMicrovoltsOption(uV)
}

func (o VssMicrovoltsOption) applyDeviceOption(d *deviceOptions) {
	d.vss.microvolts = int(o)
	d.vss.cached = true
}

// VddPolarityNegativeOption indicates the positive rail voltage is to be
// reported negated.
type VddPolarityNegativeOption struct{}

// WithVddPolarityNegative indicates the vdd rail voltage is to be reported
// negated.
func WithVddPolarityNegative() VddPolarityNegativeOption {
	return VddPolarityNegativeOption{}
}

func (o VddPolarityNegativeOption) applyDeviceOption(d *deviceOptions) {
	d.vdd.negative = true
}

// VssPolarityNegativeOption indicates the negative rail voltage is to be
// reported negated.
type VssPolarityNegativeOption struct{}

// WithVssPolarityNegative indicates the vss rail voltage is to be reported
// negated.
func WithVssPolarityNegative() VssPolarityNegativeOption {
	return VssPolarityNegativeOption{}
}

func (o VssPolarityNegativeOption) applyDeviceOption(d *deviceOptions) {
	d.vss.negative = true
}

// SettlePeriodOption defines the pause between busy retries.
type SettlePeriodOption time.Duration

// WithSettlePeriod provides the pause between busy retries of a read.
func WithSettlePeriod(period time.Duration) SettlePeriodOption {
	return SettlePeriodOption(period)
}

func (o SettlePeriodOption) applyDeviceOption(d *deviceOptions) {
	d.settlePeriod = time.Duration(o)
	d.settle = nil
}

// SettleFuncOption defines the function called between busy retries.
type SettleFuncOption struct {
	settle func()
}

// WithSettleFunc replaces the pause between busy retries with settle.
//
// This is primarily intended for testing, allowing the retry loop to run
// without real elapsed time.
func WithSettleFunc(settle func()) SettleFuncOption {
	return SettleFuncOption{settle}
}

func (o SettleFuncOption) applyDeviceOption(d *deviceOptions) {
	d.settle = o.settle
}
