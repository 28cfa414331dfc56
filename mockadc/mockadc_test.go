// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package mockadc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/adcdev"
	"github.com/warthog618/adcdev/mockadc"
)

func TestADC(t *testing.T) {
	adc := mockadc.New()

	// unscripted channels read zero
	v, err := adc.ChannelData(0)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), v)

	adc.SetValue(1, 0x2ca)
	v, err = adc.ChannelData(1)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0x2ca), v)
	assert.Equal(t, 2, adc.ReadCalls())

	// busy replies are consumed before the value is returned
	adc.SetBusy(1, 2)
	_, err = adc.ChannelData(1)
	assert.Equal(t, adcdev.ErrBusy, err)
	_, err = adc.ChannelData(1)
	assert.Equal(t, adcdev.ErrBusy, err)
	v, err = adc.ChannelData(1)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0x2ca), v)

	rerr := errors.New("flat battery")
	adc.SetReadError(2, rerr)
	_, err = adc.ChannelData(2)
	assert.Equal(t, rerr, err)
}

func TestADCStart(t *testing.T) {
	adc := mockadc.New()

	err := adc.StartChannel(3)
	assert.Nil(t, err)
	err = adc.StartChannel(1)
	assert.Nil(t, err)
	assert.Equal(t, []int{3, 1}, adc.Started())
	assert.Equal(t, 2, adc.StartCalls())

	serr := errors.New("mux jammed")
	adc.SetStartError(2, serr)
	err = adc.StartChannel(2)
	assert.Equal(t, serr, err)
	// failed starts are counted but not recorded as started
	assert.Equal(t, 3, adc.StartCalls())
	assert.Equal(t, []int{3, 1}, adc.Started())
}

func TestADCMulti(t *testing.T) {
	adc := mockadc.New()
	adc.SetValue(1, 0x123)
	adc.SetValue(3, 0x456)

	err := adc.StartChannels(0xa)
	assert.Nil(t, err)
	assert.Equal(t, 1, adc.MultiStartCalls())

	adc.SetMultiBusy(1)
	_, err = adc.ChannelsData(0xa)
	assert.Equal(t, adcdev.ErrBusy, err)
	rr, err := adc.ChannelsData(0xa)
	assert.Nil(t, err)
	require.NotNil(t, rr)
	assert.Equal(t, []adcdev.Reading{{Channel: 1, Raw: 0x123}, {Channel: 3, Raw: 0x456}}, rr)
	assert.Equal(t, 2, adc.MultiReadCalls())

	serr := errors.New("sequencer fault")
	adc.SetMultiStartError(serr)
	err = adc.StartChannels(0xa)
	assert.Equal(t, serr, err)

	rerr := errors.New("fifo overrun")
	adc.SetMultiReadError(rerr)
	_, err = adc.ChannelsData(0xa)
	assert.Equal(t, rerr, err)
}

func TestADCStop(t *testing.T) {
	adc := mockadc.New()
	err := adc.Stop()
	assert.Nil(t, err)

	serr := errors.New("stop failed")
	adc.SetStopError(serr)
	err = adc.Stop()
	assert.Equal(t, serr, err)
	assert.Equal(t, 2, adc.StopCalls())
}

func TestSingleOnly(t *testing.T) {
	adc := mockadc.New()
	adc.SetValue(1, 0x2ca)
	s := adc.SingleOnly()

	// the view shares scripted state and counters
	err := s.StartChannel(1)
	assert.Nil(t, err)
	v, err := s.ChannelData(1)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0x2ca), v)
	assert.Equal(t, 1, adc.StartCalls())
	assert.Equal(t, 1, adc.ReadCalls())

	// and implements only the single channel capabilities
	var drv adcdev.Driver = s
	_, ok := drv.(adcdev.MultiStarter)
	assert.False(t, ok)
	_, ok = drv.(adcdev.MultiReader)
	assert.False(t, ok)
	_, ok = drv.(adcdev.SingleStarter)
	assert.True(t, ok)
	_, ok = drv.(adcdev.SingleReader)
	assert.True(t, ok)
	_, ok = drv.(adcdev.Stopper)
	assert.True(t, ok)
}

func TestRegulator(t *testing.T) {
	r := mockadc.NewRegulator(3300)
	assert.False(t, r.Enabled())

	uV, err := r.Microvolts()
	assert.Nil(t, err)
	assert.Equal(t, 3300, uV)

	r.Set(5000)
	uV, err = r.Microvolts()
	assert.Nil(t, err)
	assert.Equal(t, 5000, uV)
	assert.Equal(t, 2, r.QueryCalls())

	err = r.SetEnabled(true)
	assert.Nil(t, err)
	assert.True(t, r.Enabled())
	assert.Equal(t, 1, r.EnableCalls())

	eerr := errors.New("rail stuck")
	r.SetEnableError(eerr)
	err = r.SetEnabled(false)
	assert.Equal(t, eerr, err)
	// state unchanged on failure
	assert.True(t, r.Enabled())

	qerr := errors.New("regulator gone")
	r.SetQueryError(qerr)
	_, err = r.Microvolts()
	assert.Equal(t, qerr, err)
}
