// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package adcdev

import (
	"fmt"
	"sort"
	"sync"
)

// Registry resolves device names to devices.
//
// It takes the place of a platform device table, so callers can read a
// converter by name without holding a reference to it, and tests can
// substitute fake devices.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{devices: map[string]*Device{}}
}

// Register adds a device to the registry under its name.
func (r *Registry) Register(d *Device) error {
	if d == nil || len(d.Name()) == 0 {
		return ErrDeviceNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.devices[d.Name()]; exists {
		return fmt.Errorf("device %q already registered", d.Name())
	}
	r.devices[d.Name()] = d
	return nil
}

// Lookup returns the device registered under name.
func (r *Registry) Lookup(name string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[name]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// Devices returns the sorted names of the registered devices.
func (r *Registry) Devices() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nn := []string(nil)
	for name := range r.devices {
		nn = append(nn, name)
	}
	sort.Strings(nn)
	return nn
}

// SingleShotChannel resolves a device by name, starts a conversion on the
// channel, and returns the converted sample.
//
// The device is held for the whole start then read sequence.
func (r *Registry) SingleShotChannel(name string, channel int) (uint32, error) {
	d, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	return d.singleShotChannel(channel)
}

// SingleShotChannels resolves a device by name, starts a conversion on the
// set of channels in mask, and returns the converted samples in ascending
// channel order.
//
// If the device driver cannot start multiple channels in one conversion
// the channels are converted sequentially, one start/read cycle per
// channel. Either way the read is all-or-nothing - a failure on any
// channel fails the whole read.
func (r *Registry) SingleShotChannels(name string, mask uint32) ([]Reading, error) {
	d, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return d.singleShotChannels(mask)
}
