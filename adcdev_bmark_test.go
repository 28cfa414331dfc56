// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package adcdev_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/warthog618/adcdev"
	"github.com/warthog618/adcdev/mockadc"
)

func BenchmarkReadChannel(b *testing.B) {
	adc := mockadc.New()
	adc.SetValue(1, 0x2ca)
	d, err := adcdev.New("saradc", adc,
		adcdev.WithChannelMask(0xa),
		adcdev.WithSettleFunc(func() {}))
	require.Nil(b, err)
	for i := 0; i < b.N; i++ {
		_, err = d.ReadChannel(1)
	}
	require.Nil(b, err)
}

func BenchmarkSingleShotChannels(b *testing.B) {
	adc := mockadc.New()
	adc.SetValue(1, 0x123)
	adc.SetValue(3, 0x456)
	d, err := adcdev.New("saradc", adc,
		adcdev.WithChannelMask(0xa),
		adcdev.WithSettleFunc(func() {}))
	require.Nil(b, err)
	reg := adcdev.NewRegistry()
	err = reg.Register(d)
	require.Nil(b, err)
	for i := 0; i < b.N; i++ {
		_, err = reg.SingleShotChannels("saradc", 0xa)
	}
	require.Nil(b, err)
}

func BenchmarkSingleShotChannelsFallback(b *testing.B) {
	adc := mockadc.New()
	adc.SetValue(1, 0x123)
	adc.SetValue(3, 0x456)
	d, err := adcdev.New("saradc", adc.SingleOnly(),
		adcdev.WithChannelMask(0xa),
		adcdev.WithSettleFunc(func() {}))
	require.Nil(b, err)
	reg := adcdev.NewRegistry()
	err = reg.Register(d)
	require.Nil(b, err)
	for i := 0; i < b.N; i++ {
		_, err = reg.SingleShotChannels("saradc", 0xa)
	}
	require.Nil(b, err)
}
