// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// Package iio provides an adcdev driver for converters exposed through the
// Linux industrial I/O sysfs interface.
//
// Raw channel reads through sysfs are converted on demand and complete
// synchronously, so the driver implements only the single channel
// capability set - multi-channel reads through adcdev fall back to
// sequential per-channel conversions.
package iio

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// DefaultRoot is the sysfs directory the IIO devices are found under.
const DefaultRoot = "/sys/bus/iio/devices"

// ADC provides access to the voltage channels of one IIO device.
type ADC struct {
	// The system name for this device, e.g. "iio:device0".
	Name string

	// The hardware label for the device, from its name attribute.
	Label string

	path string

	// bit i set means in_voltage<i>_raw exists.
	mask uint32

	// mu covers closed.
	mu     sync.Mutex
	closed bool
}

// Devices returns the names of the available IIO voltage devices.
func Devices(options ...Option) []string {
	do := doOptions(options)
	ee, err := ioutil.ReadDir(do.root)
	if err != nil {
		return nil
	}
	dd := []string(nil)
	for _, e := range ee {
		name := e.Name()
		if !strings.HasPrefix(name, "iio:device") {
			continue
		}
		if IsDevice(nameToPath(do.root, name)) == nil {
			dd = append(dd, name)
		}
	}
	return dd
}

// New opens the named IIO device.
//
// The name may be a system name, e.g. "iio:device0", or an absolute sysfs
// path. The set of available channels is discovered from the voltage
// attributes the device exposes.
func New(name string, options ...Option) (*ADC, error) {
	do := doOptions(options)
	path := nameToPath(do.root, name)
	err := IsDevice(path)
	if err != nil {
		return nil, err
	}
	label, err := deviceLabel(path)
	if err != nil {
		return nil, err
	}
	mask, err := channelMask(path)
	if err != nil {
		return nil, err
	}
	if mask == 0 {
		return nil, ErrNoChannels
	}
	a := ADC{
		Name:  baseName(path),
		Label: label,
		path:  path,
		mask:  mask,
	}
	return &a, nil
}

// Close releases the ADC.
func (a *ADC) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	a.closed = true
	return nil
}

// ChannelMask returns the mask of voltage channels the device exposes.
//
// This is suitable for passing to adcdev.WithChannelMask.
func (a *ADC) ChannelMask() uint32 {
	return a.mask
}

// Channels returns the number of voltage channels the device exposes.
func (a *ADC) Channels() int {
	n := 0
	for mask := a.mask; mask != 0; mask >>= 1 {
		n += int(mask & 0x1)
	}
	return n
}

// Stop implements adcdev.Stopper.
//
// Sysfs reads are one-shot so there is never a conversion to halt.
func (a *ADC) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return nil
}

// StartChannel implements adcdev.SingleStarter.
//
// The conversion itself is performed by the subsequent ChannelData, so
// the start only confirms the channel attribute is readable.
func (a *ADC) StartChannel(channel int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return unix.Access(a.channelPath(channel), unix.R_OK)
}

// ChannelData implements adcdev.SingleReader.
func (a *ADC) ChannelData(channel int) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0, ErrClosed
	}
	v, err := ioutil.ReadFile(a.channelPath(channel))
	if err != nil {
		return 0, err
	}
	raw, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("can't parse sample %q: %s", strings.TrimSpace(string(v)), err)
	}
	return uint32(raw), nil
}

func (a *ADC) channelPath(channel int) string {
	return fmt.Sprintf("%s/in_voltage%d_raw", a.path, channel)
}

// IsDevice checks if the path is an accessible IIO device directory.
//
// Returns an error if not.
func IsDevice(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !fi.IsDir() && fi.Mode()&os.ModeSymlink == 0 {
		return ErrNotDevice
	}
	if err = unix.Access(path+"/name", unix.R_OK); err != nil {
		return ErrNotDevice
	}
	return nil
}

func deviceLabel(path string) (string, error) {
	label, err := ioutil.ReadFile(path + "/name")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(label)), nil
}

// channelMask scans the device attributes for raw voltage channels.
func channelMask(path string) (uint32, error) {
	ee, err := ioutil.ReadDir(path)
	if err != nil {
		return 0, err
	}
	var mask uint32
	for _, e := range ee {
		name := e.Name()
		if !strings.HasPrefix(name, "in_voltage") || !strings.HasSuffix(name, "_raw") {
			continue
		}
		num := name[len("in_voltage") : len(name)-len("_raw")]
		channel, err := strconv.ParseUint(num, 10, 64)
		if err != nil {
			// differential or otherwise decorated channels
			continue
		}
		if channel < 32 {
			mask |= uint32(1) << uint(channel)
		}
	}
	return mask, nil
}

func nameToPath(root, name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return root + "/" + name
}

func baseName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		return path[idx+1:]
	}
	return path
}

// Option defines the interface required to provide an iio option.
type Option interface {
	applyOption(*optionValues)
}

type optionValues struct {
	root   string
	events <-chan Event
}

func doOptions(options []Option) optionValues {
	do := optionValues{root: DefaultRoot}
	for _, option := range options {
		option.applyOption(&do)
	}
	return do
}

// RootOption defines the sysfs directory devices are found under.
type RootOption string

// WithRoot overrides the sysfs directory devices are found under.
//
// This is primarily intended for testing against a fabricated sysfs tree.
func WithRoot(root string) RootOption {
	return RootOption(root)
}

func (o RootOption) applyOption(v *optionValues) {
	v.root = string(o)
}

// EventsOption defines the source of udev events for WaitForDevice.
type EventsOption struct {
	events <-chan Event
}

// WithUdevEvents replaces the netlink udev monitor with the given event
// source.
//
// This is primarily intended for testing.
func WithUdevEvents(events <-chan Event) EventsOption {
	return EventsOption{events}
}

func (o EventsOption) applyOption(v *optionValues) {
	v.events = o.events
}

var (
	// ErrClosed indicates the device has already been closed.
	ErrClosed = errors.New("already closed")

	// ErrNoChannels indicates the device exposes no raw voltage channels.
	ErrNoChannels = errors.New("no voltage channels")

	// ErrNotDevice indicates the path is not an IIO device directory.
	ErrNotDevice = errors.New("not an IIO device")
)
