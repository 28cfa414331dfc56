// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package adcdev is a library for reading analog-to-digital converters
// through interchangeable device drivers.
//
// A Device wraps a hardware driver and provides channel validation, supply
// rail control, reference voltage resolution, and a bounded busy-retry read
// protocol. Drivers implement whichever of the capability interfaces
// (Stopper, SingleStarter, MultiStarter, SingleReader, MultiReader) the
// hardware supports; operations the driver does not support are reported as
// ErrNotSupported. Devices that cannot start a set of channels in one
// conversion are read through a sequential per-channel fallback, so callers
// see a uniform multi-channel interface either way.
//
// Example of use:
//
//	d, err := adcdev.New("saradc", drv, adcdev.WithChannelMask(0xf))
//	if err != nil {
//		panic(err)
//	}
//	err = d.StartChannel(1)
//	if err != nil {
//		panic(err)
//	}
//	v, err := d.ReadChannel(1)
//	if err != nil {
//		panic(err)
//	}
//	fmt.Println(v)
package adcdev

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// MaxChannels is the largest number of channels a device may expose.
//
// Channel masks are 32 bits wide, so channel indices run from 0 to
// MaxChannels-1.
const MaxChannels = 32

// DefaultTimeout is the default busy-retry budget for reads.
//
// The budget is an iteration count, not a duration. A read makes at most
// budget+1 attempts before giving up.
const DefaultTimeout = 100

// DefaultSettlePeriod is the pause between busy retries.
const DefaultSettlePeriod = 5 * time.Microsecond

// Driver is the hardware personality of a Device.
//
// A driver implements whichever of the capability interfaces the hardware
// supports - Stopper, SingleStarter, MultiStarter, SingleReader and
// MultiReader. A Device reports operations its driver does not implement as
// ErrNotSupported.
type Driver interface{}

// Stopper is implemented by drivers that can halt an in-progress
// conversion.
type Stopper interface {
	Stop() error
}

// SingleStarter is implemented by drivers that can start a conversion on a
// single channel.
type SingleStarter interface {
	StartChannel(channel int) error
}

// MultiStarter is implemented by drivers that can start a conversion on
// several channels at once.
type MultiStarter interface {
	StartChannels(mask uint32) error
}

// SingleReader is implemented by drivers that can return the sample from a
// single channel conversion.
//
// ChannelData returns ErrBusy while the conversion is still in progress.
type SingleReader interface {
	ChannelData(channel int) (uint32, error)
}

// MultiReader is implemented by drivers that can return the samples from a
// multi-channel conversion.
//
// ChannelsData returns ErrBusy while the conversion is still in progress.
type MultiReader interface {
	ChannelsData(mask uint32) ([]Reading, error)
}

// Regulator is the capability set required of a supply rail.
type Regulator interface {
	// SetEnabled powers the rail up or down.
	SetEnabled(enabled bool) error

	// Microvolts returns the voltage the rail is set to.
	Microvolts() (int, error)
}

// Rail identifies one of the analog reference supply rails.
type Rail int

const (
	// Vdd is the positive reference supply.
	Vdd Rail = iota

	// Vss is the negative reference supply.
	Vss
)

func (r Rail) String() string {
	if r == Vss {
		return "vss"
	}
	return "vdd"
}

// Reading is the sample taken from one channel.
type Reading struct {
	// The channel the sample was taken from.
	Channel int

	// The raw sample value.
	Raw uint32
}

// supply is the state of one reference rail.
type supply struct {
	reg Regulator

	// cached microvolt value, valid only if cached is set.
	microvolts int
	cached     bool

	// negative flips the sign of resolved values.
	negative bool
}

// resolve returns the rail voltage in microvolts.
//
// A configured regulator is queried live and the result memoised, so the
// cache tracks the hardware without separate invalidation. Without a
// regulator the cached value, if any, is returned.
func (s *supply) resolve() (int, error) {
	if s.reg != nil {
		uV, err := s.reg.Microvolts()
		if err != nil {
			return 0, err
		}
		s.microvolts = uV
		s.cached = true
	}
	if !s.cached {
		return 0, ErrNoData
	}
	if s.negative {
		return -s.microvolts, nil
	}
	return s.microvolts, nil
}

// seed primes the microvolt cache from the regulator, if one is configured.
//
// Failures are not fatal - the cache is simply left empty and resolution
// reports ErrNoData until a later query succeeds.
func (s *supply) seed() {
	if s.reg == nil {
		return
	}
	uV, err := s.reg.Microvolts()
	if err != nil {
		return
	}
	s.microvolts = uV
	s.cached = true
}

// Device represents a single ADC device built from a driver and its
// configuration.
//
// All operations on a Device are serialised, as the start and read
// capabilities are stateful on the underlying hardware and must not
// interleave across callers.
type Device struct {
	name string
	drv  Driver

	// mu covers all that follow.
	mu sync.Mutex

	// bit i set means channel i may be requested.
	channelMask uint32

	// advisory mask of the valid bits in a raw sample.
	dataMask uint32

	// busy-retry budgets for single and multi channel reads.
	singleTimeout uint
	multiTimeout  uint

	vdd supply
	vss supply

	// pause between busy retries.
	settle func()

	closed bool
}

// New creates a Device for the given driver.
//
// If either supply rail is configured its voltage cache is seeded with one
// live query. A failed seed query is not fatal; the voltage resolves to
// ErrNoData until a query succeeds.
func New(name string, drv Driver, options ...Option) (*Device, error) {
	if drv == nil {
		return nil, ErrNoDriver
	}
	do := deviceOptions{
		channelMask:   DefaultChannelMask,
		singleTimeout: DefaultTimeout,
		multiTimeout:  DefaultTimeout,
		settlePeriod:  DefaultSettlePeriod,
	}
	for _, option := range options {
		option.applyDeviceOption(&do)
	}
	d := Device{
		name:          name,
		drv:           drv,
		channelMask:   do.channelMask,
		dataMask:      do.dataMask,
		singleTimeout: do.singleTimeout,
		multiTimeout:  do.multiTimeout,
		vdd:           do.vdd,
		vss:           do.vss,
		settle:        do.settle,
	}
	if d.settle == nil {
		period := do.settlePeriod
		d.settle = func() { time.Sleep(period) }
	}
	d.vdd.seed()
	d.vss.seed()
	return &d, nil
}

// Name returns the name the device was created with.
func (d *Device) Name() string {
	return d.name
}

// ChannelMask returns the mask of channels available on the device.
func (d *Device) ChannelMask() uint32 {
	return d.channelMask
}

// DataMask returns the mask of valid bits in a raw sample.
//
// The mask is advisory and is not applied to samples by the device.
func (d *Device) DataMask() uint32 {
	return d.dataMask
}

// Close marks the device closed.
//
// Subsequent operations return ErrClosed. Close does not stop conversions
// in progress on the hardware, and never powers down the supply rails.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	return nil
}

// Stop halts an in-progress conversion.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	s, ok := d.drv.(Stopper)
	if !ok {
		return ErrNotSupported
	}
	return s.Stop()
}

// StartChannel starts a conversion on a single channel.
//
// The channel is validated against the device channel mask and the supply
// rails are powered before the driver is invoked.
func (d *Device) StartChannel(channel int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startChannel(channel)
}

// StartChannels starts a conversion on the set of channels in mask.
//
// Returns ErrNotSupported if the driver cannot start multiple channels in
// one conversion; SingleShotChannels on a Registry falls back to sequential
// per-channel conversions in that case.
func (d *Device) StartChannels(mask uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startChannels(mask)
}

// ReadChannel returns the sample from a conversion started on a single
// channel.
//
// While the driver reports the conversion busy the read is retried, with a
// short settle pause between attempts, up to the device single read budget.
// A read makes at most budget+1 attempts; if the conversion is still busy
// after the last the read fails with ErrBusy.
func (d *Device) ReadChannel(channel int) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readChannel(channel)
}

// ReadChannels returns the samples from a conversion started on the set of
// channels in mask.
//
// The retry protocol matches ReadChannel, bounded by the device multi read
// budget.
func (d *Device) ReadChannels(mask uint32) ([]Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readChannels(mask)
}

// VddMicrovolts returns the voltage of the positive reference rail in
// microvolts.
//
// A configured supply is queried live and the value cached. Without a
// configured supply the statically configured value, if any, is returned.
// The value is negated if the rail polarity is configured negative.
func (d *Device) VddMicrovolts() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	return d.vdd.resolve()
}

// VssMicrovolts returns the voltage of the negative reference rail in
// microvolts.
func (d *Device) VssMicrovolts() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	return d.vss.resolve()
}

// validate checks that every channel in mask is available on the device.
//
// Real hardware commonly has inactive channels. A device with four
// channels of which only the 1st and 3rd are wired has channel mask 0b1010,
// and a request for 0b1110 must fail.
func (d *Device) validate(mask uint32) error {
	if mask == 0 || mask&d.channelMask != mask {
		return &InvalidChannelError{Device: d.name, Mask: mask}
	}
	return nil
}

// channelToMask converts a channel index to its one-bit mask.
func (d *Device) channelToMask(channel int) (uint32, error) {
	if channel < 0 || channel >= MaxChannels {
		return 0, &ChannelRangeError{Device: d.name, Channel: channel}
	}
	return uint32(1) << uint(channel), nil
}

// enableSupplies powers the configured reference rails, vdd first.
//
// An unconfigured rail is skipped. A failed enable aborts immediately, so
// vss is never attempted after a vdd failure.
func (d *Device) enableSupplies() error {
	if d.vdd.reg != nil {
		if err := d.vdd.reg.SetEnabled(true); err != nil {
			return &SupplyError{Rail: Vdd, Err: err}
		}
	}
	if d.vss.reg != nil {
		if err := d.vss.reg.SetEnabled(true); err != nil {
			return &SupplyError{Rail: Vss, Err: err}
		}
	}
	return nil
}

func (d *Device) startChannel(channel int) error {
	if d.closed {
		return ErrClosed
	}
	ss, ok := d.drv.(SingleStarter)
	if !ok {
		return ErrNotSupported
	}
	mask, err := d.channelToMask(channel)
	if err != nil {
		return err
	}
	if err = d.validate(mask); err != nil {
		return err
	}
	if err = d.enableSupplies(); err != nil {
		return err
	}
	return ss.StartChannel(channel)
}

func (d *Device) startChannels(mask uint32) error {
	if d.closed {
		return ErrClosed
	}
	ms, ok := d.drv.(MultiStarter)
	if !ok {
		return ErrNotSupported
	}
	if err := d.validate(mask); err != nil {
		return err
	}
	if err := d.enableSupplies(); err != nil {
		return err
	}
	return ms.StartChannels(mask)
}

func (d *Device) readChannel(channel int) (uint32, error) {
	if d.closed {
		return 0, ErrClosed
	}
	sr, ok := d.drv.(SingleReader)
	if !ok {
		return 0, ErrNotSupported
	}
	mask, err := d.channelToMask(channel)
	if err != nil {
		return 0, err
	}
	if err = d.validate(mask); err != nil {
		return 0, err
	}
	for remaining := d.singleTimeout; ; remaining-- {
		raw, err := sr.ChannelData(channel)
		if err == nil || !errors.Is(err, ErrBusy) {
			return raw, err
		}
		if remaining == 0 {
			return 0, err
		}
		d.settle()
	}
}

func (d *Device) readChannels(mask uint32) ([]Reading, error) {
	if d.closed {
		return nil, ErrClosed
	}
	mr, ok := d.drv.(MultiReader)
	if !ok {
		return nil, ErrNotSupported
	}
	if err := d.validate(mask); err != nil {
		return nil, err
	}
	for remaining := d.multiTimeout; ; remaining-- {
		rr, err := mr.ChannelsData(mask)
		if err == nil || !errors.Is(err, ErrBusy) {
			return rr, err
		}
		if remaining == 0 {
			return nil, err
		}
		d.settle()
	}
}

// singleShotChannel performs a full start then poll-read cycle on one
// channel, holding the device for the duration.
func (d *Device) singleShotChannel(channel int) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.startChannel(channel); err != nil {
		return 0, err
	}
	return d.readChannel(channel)
}

// singleShotChannels performs a full start then poll-read cycle on the set
// of channels in mask, holding the device for the duration.
//
// If the driver cannot start multiple channels in one conversion the read
// falls back to sequential per-channel conversions.
func (d *Device) singleShotChannels(mask uint32) ([]Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.startChannels(mask)
	if errors.Is(err, ErrNotSupported) {
		return d.sequentialChannels(mask)
	}
	if err != nil {
		return nil, err
	}
	return d.readChannels(mask)
}

// sequentialChannels emulates a multi-channel conversion with a
// start/read cycle per channel, in ascending channel order.
//
// Any single failure aborts the whole read - partial results are
// discarded, not returned.
func (d *Device) sequentialChannels(mask uint32) ([]Reading, error) {
	rr := []Reading(nil)
	for channel := 0; channel < MaxChannels; channel++ {
		if (mask>>uint(channel))&0x1 == 0 {
			continue
		}
		if err := d.startChannel(channel); err != nil {
			return nil, err
		}
		raw, err := d.readChannel(channel)
		if err != nil {
			return nil, err
		}
		rr = append(rr, Reading{Channel: channel, Raw: raw})
	}
	return rr, nil
}

var (
	// ErrBusy indicates a conversion is still in progress.
	//
	// Drivers return ErrBusy from their read capability to have the read
	// retried after a settle pause.
	ErrBusy = errors.New("conversion in progress")

	// ErrClosed indicates the device has already been closed.
	ErrClosed = errors.New("already closed")

	// ErrDeviceNotFound indicates the name does not match any registered
	// device.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrNoData indicates the rail voltage is not known.
	//
	// It is returned when a rail has no configured supply and no statically
	// configured voltage.
	ErrNoData = errors.New("no voltage data")

	// ErrNoDriver indicates the device was created without a driver.
	ErrNoDriver = errors.New("no driver")

	// ErrNotSupported indicates the driver does not implement the requested
	// operation.
	ErrNotSupported = errors.New("not supported")
)

// InvalidChannelError indicates a request for channels outside those
// available on the device.
type InvalidChannelError struct {
	// The name of the device the request was made on.
	Device string

	// The requested channel mask.
	Mask uint32
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("wrong channel selection %#x for device %s", e.Mask, e.Device)
}

// ChannelRangeError indicates a request for a channel index outside the
// device channel space.
type ChannelRangeError struct {
	// The name of the device the request was made on.
	Device string

	// The requested channel.
	Channel int
}

func (e *ChannelRangeError) Error() string {
	return fmt.Sprintf("wrong channel %d for device %s", e.Channel, e.Device)
}

// SupplyError indicates a reference rail could not be powered.
type SupplyError struct {
	// The rail that failed to enable.
	Rail Rail

	// The error returned by the regulator.
	Err error
}

func (e *SupplyError) Error() string {
	return fmt.Sprintf("can't enable %s-supply: %s", e.Rail, e.Err)
}

func (e *SupplyError) Unwrap() error {
	return e.Err
}
