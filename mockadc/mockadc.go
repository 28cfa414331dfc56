// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package mockadc provides in-memory ADC and regulator doubles.
//
// This is intended for testing adcdev itself, but could also be used for
// testing by users of their own code that uses adcdev. Samples, busy
// replies and failures are all scripted, and the doubles count the driver
// invocations made by the device layer so tests can assert on them.
package mockadc

import (
	"sync"

	"github.com/warthog618/adcdev"
)

// ADC is a scriptable driver double implementing the full capability set.
type ADC struct {
	mu sync.Mutex

	values   map[int]uint32
	busy     map[int]int
	readErrs map[int]error
	startErr map[int]error

	multiBusy     int
	multiReadErr  error
	multiStartErr error
	stopErr       error

	startCalls      int
	readCalls       int
	multiStartCalls int
	multiReadCalls  int
	stopCalls       int

	// channels started, in call order.
	started []int
}

// New creates an ADC with no scripted state.
//
// All channels read zero until values are scripted with SetValue.
func New() *ADC {
	return &ADC{
		values:   map[int]uint32{},
		busy:     map[int]int{},
		readErrs: map[int]error{},
		startErr: map[int]error{},
	}
}

// SetValue scripts the sample returned for a channel.
func (a *ADC) SetValue(channel int, raw uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[channel] = raw
}

// SetBusy scripts the number of busy replies returned before a channel
// read succeeds.
func (a *ADC) SetBusy(channel, replies int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.busy[channel] = replies
}

// SetReadError scripts a fatal error returned by reads of a channel.
func (a *ADC) SetReadError(channel int, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readErrs[channel] = err
}

// SetStartError scripts an error returned by starts of a channel.
func (a *ADC) SetStartError(channel int, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.startErr[channel] = err
}

// SetMultiBusy scripts the number of busy replies returned before a
// multi-channel read succeeds.
func (a *ADC) SetMultiBusy(replies int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.multiBusy = replies
}

// SetMultiReadError scripts a fatal error returned by multi-channel reads.
func (a *ADC) SetMultiReadError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.multiReadErr = err
}

// SetMultiStartError scripts an error returned by multi-channel starts.
func (a *ADC) SetMultiStartError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.multiStartErr = err
}

// SetStopError scripts an error returned by Stop.
func (a *ADC) SetStopError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopErr = err
}

// StartCalls returns the number of single-channel starts made.
func (a *ADC) StartCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startCalls
}

// ReadCalls returns the number of single-channel reads made.
func (a *ADC) ReadCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.readCalls
}

// MultiStartCalls returns the number of multi-channel starts made.
func (a *ADC) MultiStartCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.multiStartCalls
}

// MultiReadCalls returns the number of multi-channel reads made.
func (a *ADC) MultiReadCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.multiReadCalls
}

// StopCalls returns the number of stops made.
func (a *ADC) StopCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopCalls
}

// Started returns the channels started, in call order.
func (a *ADC) Started() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.started...)
}

// Stop implements adcdev.Stopper.
func (a *ADC) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopCalls++
	return a.stopErr
}

// StartChannel implements adcdev.SingleStarter.
func (a *ADC) StartChannel(channel int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.startCalls++
	if err := a.startErr[channel]; err != nil {
		return err
	}
	a.started = append(a.started, channel)
	return nil
}

// StartChannels implements adcdev.MultiStarter.
func (a *ADC) StartChannels(mask uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.multiStartCalls++
	return a.multiStartErr
}

// ChannelData implements adcdev.SingleReader.
func (a *ADC) ChannelData(channel int) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readCalls++
	if a.busy[channel] > 0 {
		a.busy[channel]--
		return 0, adcdev.ErrBusy
	}
	if err := a.readErrs[channel]; err != nil {
		return 0, err
	}
	return a.values[channel], nil
}

// ChannelsData implements adcdev.MultiReader.
func (a *ADC) ChannelsData(mask uint32) ([]adcdev.Reading, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.multiReadCalls++
	if a.multiBusy > 0 {
		a.multiBusy--
		return nil, adcdev.ErrBusy
	}
	if a.multiReadErr != nil {
		return nil, a.multiReadErr
	}
	rr := []adcdev.Reading(nil)
	for channel := 0; channel < adcdev.MaxChannels; channel++ {
		if (mask>>uint(channel))&0x1 == 0 {
			continue
		}
		rr = append(rr, adcdev.Reading{Channel: channel, Raw: a.values[channel]})
	}
	return rr, nil
}

// SingleOnly returns a view of the ADC restricted to the single channel
// capabilities.
//
// Reads through the view share the scripted state and call counters of
// the underlying ADC, so lack of native multi-channel support can be
// exercised without separate scripting.
func (a *ADC) SingleOnly() *Single {
	return &Single{adc: a}
}

// Single is a driver double implementing only the single channel
// capability set.
type Single struct {
	adc *ADC
}

// Stop implements adcdev.Stopper.
func (s *Single) Stop() error {
	return s.adc.Stop()
}

// StartChannel implements adcdev.SingleStarter.
func (s *Single) StartChannel(channel int) error {
	return s.adc.StartChannel(channel)
}

// ChannelData implements adcdev.SingleReader.
func (s *Single) ChannelData(channel int) (uint32, error) {
	return s.adc.ChannelData(channel)
}

// Regulator is a scriptable supply rail double.
type Regulator struct {
	mu sync.Mutex

	microvolts int
	enabled    bool

	enableErr error
	queryErr  error

	enableCalls int
	queryCalls  int
}

// NewRegulator creates a Regulator set to the given voltage.
func NewRegulator(uV int) *Regulator {
	return &Regulator{microvolts: uV}
}

// Set changes the voltage the regulator reports.
func (r *Regulator) Set(uV int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.microvolts = uV
}

// SetEnableError scripts an error returned by SetEnabled.
func (r *Regulator) SetEnableError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enableErr = err
}

// SetQueryError scripts an error returned by Microvolts.
func (r *Regulator) SetQueryError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queryErr = err
}

// Enabled returns the powered state of the rail.
func (r *Regulator) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// EnableCalls returns the number of SetEnabled calls made.
func (r *Regulator) EnableCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enableCalls
}

// QueryCalls returns the number of Microvolts calls made.
func (r *Regulator) QueryCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queryCalls
}

// SetEnabled implements adcdev.Regulator.
func (r *Regulator) SetEnabled(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enableCalls++
	if r.enableErr != nil {
		return r.enableErr
	}
	r.enabled = enabled
	return nil
}

// Microvolts implements adcdev.Regulator.
func (r *Regulator) Microvolts() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queryCalls++
	if r.queryErr != nil {
		return 0, r.queryErr
	}
	return r.microvolts, nil
}
