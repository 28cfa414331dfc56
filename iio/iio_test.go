// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package iio_test

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/adcdev"
	"github.com/warthog618/adcdev/iio"
)

// makeDevice fabricates an IIO device directory under root.
func makeDevice(t *testing.T, root, name, label string, channels map[int]string) {
	t.Helper()
	path := root + "/" + name
	err := os.MkdirAll(path, 0755)
	require.Nil(t, err)
	err = ioutil.WriteFile(path+"/name", []byte(label+"\n"), 0644)
	require.Nil(t, err)
	for channel, raw := range channels {
		attr := fmt.Sprintf("%s/in_voltage%d_raw", path, channel)
		err = ioutil.WriteFile(attr, []byte(raw+"\n"), 0644)
		require.Nil(t, err)
	}
}

func TestDevices(t *testing.T) {
	root := t.TempDir()
	assert.Empty(t, iio.Devices(iio.WithRoot(root)))

	makeDevice(t, root, "iio:device0", "saradc",
		map[int]string{1: "714", 3: "2089"})
	makeDevice(t, root, "iio:device1", "auxadc",
		map[int]string{0: "11"})
	// not a device - no name attribute
	err := os.MkdirAll(root+"/iio:device2", 0755)
	require.Nil(t, err)
	// not an IIO entry
	makeDevice(t, root, "trigger0", "sysfstrig", nil)

	dd := iio.Devices(iio.WithRoot(root))
	assert.Equal(t, []string{"iio:device0", "iio:device1"}, dd)

	// missing root
	assert.Empty(t, iio.Devices(iio.WithRoot(root + "/nonexistent")))
}

func TestNew(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "iio:device0", "saradc",
		map[int]string{1: "714", 3: "2089"})

	adc, err := iio.New("iio:device0", iio.WithRoot(root))
	assert.Nil(t, err)
	require.NotNil(t, adc)
	assert.Equal(t, "iio:device0", adc.Name)
	assert.Equal(t, "saradc", adc.Label)
	assert.Equal(t, uint32(0xa), adc.ChannelMask())
	assert.Equal(t, 2, adc.Channels())

	// by absolute path
	adc, err = iio.New(root+"/iio:device0", iio.WithRoot(root))
	assert.Nil(t, err)
	require.NotNil(t, adc)
	assert.Equal(t, "iio:device0", adc.Name)

	// nonexistent
	adc, err = iio.New("iio:device9", iio.WithRoot(root))
	assert.NotNil(t, err)
	assert.Nil(t, adc)

	// no voltage channels
	makeDevice(t, root, "iio:device1", "sysfstrig", nil)
	adc, err = iio.New("iio:device1", iio.WithRoot(root))
	assert.Equal(t, iio.ErrNoChannels, err)
	assert.Nil(t, adc)
}

func TestClose(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "iio:device0", "saradc",
		map[int]string{1: "714"})
	adc, err := iio.New("iio:device0", iio.WithRoot(root))
	require.Nil(t, err)

	err = adc.Close()
	assert.Nil(t, err)
	err = adc.Close()
	assert.Equal(t, iio.ErrClosed, err)
	err = adc.Stop()
	assert.Equal(t, iio.ErrClosed, err)
	err = adc.StartChannel(1)
	assert.Equal(t, iio.ErrClosed, err)
	_, err = adc.ChannelData(1)
	assert.Equal(t, iio.ErrClosed, err)
}

func TestStartChannel(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "iio:device0", "saradc",
		map[int]string{1: "714"})
	adc, err := iio.New("iio:device0", iio.WithRoot(root))
	require.Nil(t, err)
	defer adc.Close()

	err = adc.StartChannel(1)
	assert.Nil(t, err)

	// channel attribute absent
	err = adc.StartChannel(2)
	assert.NotNil(t, err)
}

func TestChannelData(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "iio:device0", "saradc",
		map[int]string{1: "714", 3: "2089"})
	adc, err := iio.New("iio:device0", iio.WithRoot(root))
	require.Nil(t, err)
	defer adc.Close()

	v, err := adc.ChannelData(1)
	assert.Nil(t, err)
	assert.Equal(t, uint32(714), v)
	v, err = adc.ChannelData(3)
	assert.Nil(t, err)
	assert.Equal(t, uint32(2089), v)

	// channel attribute absent
	_, err = adc.ChannelData(2)
	assert.NotNil(t, err)

	// unparsable sample
	makeDevice(t, root, "iio:device1", "auxadc",
		map[int]string{0: "i7i4"})
	adc, err = iio.New("iio:device1", iio.WithRoot(root))
	require.Nil(t, err)
	defer adc.Close()
	_, err = adc.ChannelData(0)
	assert.NotNil(t, err)
}

func TestIsDevice(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "iio:device0", "saradc",
		map[int]string{1: "714"})

	err := iio.IsDevice(root + "/iio:device0")
	assert.Nil(t, err)

	err = iio.IsDevice(root + "/iio:device9")
	assert.NotNil(t, err)

	// not a directory
	err = iio.IsDevice(root + "/iio:device0/name")
	assert.Equal(t, iio.ErrNotDevice, err)

	// no name attribute
	err = os.MkdirAll(root+"/iio:device1", 0755)
	require.Nil(t, err)
	err = iio.IsDevice(root + "/iio:device1")
	assert.Equal(t, iio.ErrNotDevice, err)
}

func TestReadThroughDevice(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "iio:device0", "saradc",
		map[int]string{1: "714", 3: "2089"})
	adc, err := iio.New("iio:device0", iio.WithRoot(root))
	require.Nil(t, err)
	defer adc.Close()

	d, err := adcdev.New(adc.Label, adc,
		adcdev.WithChannelMask(adc.ChannelMask()))
	require.Nil(t, err)
	reg := adcdev.NewRegistry()
	err = reg.Register(d)
	require.Nil(t, err)

	v, err := reg.SingleShotChannel("saradc", 1)
	assert.Nil(t, err)
	assert.Equal(t, uint32(714), v)

	// multi-channel reads fall back to sequential conversions
	rr, err := reg.SingleShotChannels("saradc", 0xa)
	assert.Nil(t, err)
	assert.Equal(t, []adcdev.Reading{{Channel: 1, Raw: 714}, {Channel: 3, Raw: 2089}}, rr)
}
