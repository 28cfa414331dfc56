// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package iio

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/pilebones/go-udev/netlink"
)

// Event is a udev announcement of a device state change.
type Event struct {
	// The udev action, e.g. "add".
	Action string

	// The path to the device node, e.g. "/dev/iio:device0".
	DevName string
}

// WaitForDevice blocks until the named IIO device is announced by udev, or
// the timeout expires with ErrTimeout.
//
// This is useful for hot-pluggable converters, typically USB attached,
// that may not have enumerated by the time the caller wants them.
// A device that is already present is not announced again; check with
// IsDevice first.
func WaitForDevice(name string, timeout time.Duration, options ...Option) error {
	do := doOptions(options)
	events := do.events
	if events == nil {
		m, err := newUdevMonitor()
		if err != nil {
			return err
		}
		defer m.close()
		events = m.events
	}
	deadline := time.After(timeout)
	for {
		select {
		case evt := <-events:
			if evt.Action == "add" && strings.TrimPrefix(evt.DevName, "/dev/") == name {
				return nil
			}
		case <-deadline:
			return ErrTimeout
		}
	}
}

// ErrTimeout indicates the device was not announced within the timeout.
var ErrTimeout = errors.New("timeout waiting for udev events")

type udevMonitor struct {
	conn   *netlink.UEventConn
	events chan Event
	quit   chan struct{}
	done   chan struct{}
}

func newUdevMonitor() (*udevMonitor, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, errors.New("unable to connect to Netlink Kobject UEvent socket")
	}
	action := "add"
	matcher := &netlink.RuleDefinition{Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "iio",
			"DEVPATH":   "/devices/.*/iio:device\\d+",
		}}
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, matcher)
	mon := udevMonitor{
		conn:   conn,
		events: make(chan Event),
		quit:   quit,
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case evt := <-queue:
				select {
				case mon.events <- Event{Action: string(evt.Action), DevName: evt.Env["DEVNAME"]}:
				case <-mon.done:
					return
				}
			case err := <-errs:
				log.Printf("ERROR: %v", err)
			case <-mon.done:
				return
			}
		}
	}()
	return &mon, nil
}

func (m *udevMonitor) close() {
	close(m.done)
	m.quit <- struct{}{}
	m.conn.Close()
}
