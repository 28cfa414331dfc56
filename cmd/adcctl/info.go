// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warthog618/adcdev"
	"github.com/warthog618/adcdev/iio"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:                   "info [device]...",
	Short:                 "Info about ADC devices",
	Long:                  `Print information about the specified ADC device(s), or all IIO ADC devices if none are specified.`,
	Run:                   info,
	DisableFlagsInUseLine: true,
}

func info(cmd *cobra.Command, args []string) {
	rc := 0
	dd := []string(nil)
	dd = append(dd, args...)
	if len(dd) == 0 {
		dd = iio.Devices()
	}
	for _, name := range dd {
		a, err := iio.New(name)
		if err != nil {
			logErr(cmd, err)
			rc = 1
			continue
		}
		d, err := adcdev.New(a.Name, a, adcdev.WithChannelMask(a.ChannelMask()))
		if err != nil {
			logErr(cmd, err)
			a.Close()
			rc = 1
			continue
		}
		fmt.Printf("%s [%s] - %d channels:\n", a.Name, a.Label, a.Channels())
		fmt.Printf("\tchannel-mask:\t%#x\n", d.ChannelMask())
		if mask := d.DataMask(); mask != 0 {
			fmt.Printf("\tdata-mask:\t%#x\n", mask)
		}
		printRail(d, adcdev.Vdd)
		printRail(d, adcdev.Vss)
		a.Close()
	}
	os.Exit(rc)
}

func printRail(d *adcdev.Device, rail adcdev.Rail) {
	uV, err := d.VddMicrovolts()
	if rail == adcdev.Vss {
		uV, err = d.VssMicrovolts()
	}
	if err == adcdev.ErrNoData {
		return
	}
	if err != nil {
		fmt.Printf("\t%s:\t\t(%s)\n", rail, err)
		return
	}
	fmt.Printf("\t%s:\t\t%duV\n", rail, uV)
}
