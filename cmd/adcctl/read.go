// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/warthog618/adcdev"
	"github.com/warthog618/adcdev/iio"
)

func init() {
	readCmd.Flags().BoolVarP(&readOpts.Mask, "mask", "m", false, "treat the argument as a channel mask")
	readCmd.Flags().UintVarP(&readOpts.Timeout, "timeout", "t", adcdev.DefaultTimeout, "busy-retry budget for the read")
	rootCmd.AddCommand(readCmd)
}

var (
	readCmd = &cobra.Command{
		Use:                   "read [flags] <device> <channel>...",
		Short:                 "Read ADC channels",
		Long:                  `Perform a single-shot conversion on one or more channels of an ADC device and print the raw samples.`,
		Args:                  cobra.MinimumNArgs(2),
		RunE:                  read,
		DisableFlagsInUseLine: true,
	}
	readOpts = struct {
		Mask    bool
		Timeout uint
	}{}
)

func read(cmd *cobra.Command, args []string) error {
	name := args[0]
	a, err := iio.New(name)
	if err != nil {
		return err
	}
	defer a.Close()
	d, err := adcdev.New(a.Name, a,
		adcdev.WithChannelMask(a.ChannelMask()),
		adcdev.WithSingleTimeout(readOpts.Timeout),
		adcdev.WithMultiTimeout(readOpts.Timeout))
	if err != nil {
		return err
	}
	reg := adcdev.NewRegistry()
	if err = reg.Register(d); err != nil {
		return err
	}
	if readOpts.Mask {
		mask, err := parseMask(args[1])
		if err != nil {
			return err
		}
		rr, err := reg.SingleShotChannels(a.Name, mask)
		if err != nil {
			return fmt.Errorf("error reading channels: %s", err)
		}
		for _, r := range rr {
			fmt.Printf("%d %d\n", r.Channel, r.Raw)
		}
		return nil
	}
	cc, err := parseChannels(args[1:])
	if err != nil {
		return err
	}
	for _, channel := range cc {
		v, err := reg.SingleShotChannel(a.Name, channel)
		if err != nil {
			return fmt.Errorf("error reading channel %d: %s", channel, err)
		}
		fmt.Printf("%d %d\n", channel, v)
	}
	return nil
}

func parseChannels(args []string) ([]int, error) {
	cc := []int(nil)
	for _, arg := range args {
		c, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("can't parse channel '%s'", arg)
		}
		cc = append(cc, int(c))
	}
	return cc, nil
}

func parseMask(arg string) (uint32, error) {
	mask, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("can't parse mask '%s'", arg)
	}
	return uint32(mask), nil
}
