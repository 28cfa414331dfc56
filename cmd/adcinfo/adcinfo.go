// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// A utility to display information about ADC devices.
package main

import (
	"fmt"
	"os"

	"github.com/warthog618/adcdev"
	"github.com/warthog618/adcdev/iio"
	"github.com/warthog618/config"
	"github.com/warthog618/config/pflag"
)

var version = "undefined"

func main() {
	flags := loadConfig()
	rc := 0
	dd := flags.Args()
	if len(dd) == 0 {
		dd = iio.Devices()
	}
	for _, name := range dd {
		a, err := iio.New(name)
		if err != nil {
			logErr(err)
			rc = 1
			continue
		}
		d, err := adcdev.New(a.Name, a, adcdev.WithChannelMask(a.ChannelMask()))
		if err != nil {
			logErr(err)
			a.Close()
			rc = 1
			continue
		}
		fmt.Printf("%s [%s] - %d channels:\n", a.Name, a.Label, a.Channels())
		for channel := 0; channel < adcdev.MaxChannels; channel++ {
			if (d.ChannelMask()>>uint(channel))&0x1 == 0 {
				continue
			}
			fmt.Printf("\tchannel %2d:\tin_voltage%d_raw\n", channel, channel)
		}
		a.Close()
	}
	os.Exit(rc)
}

func loadConfig() *pflag.Getter {
	ff := []pflag.Flag{
		{Short: 'h', Name: "help", Options: pflag.IsBool},
		{Short: 'v', Name: "version", Options: pflag.IsBool},
	}
	flags := pflag.New(pflag.WithFlags(ff))
	cfg := config.New(flags)
	if v, err := cfg.Get("help"); err == nil && v.Bool() {
		printHelp()
		os.Exit(0)
	}
	if v, err := cfg.Get("version"); err == nil && v.Bool() {
		printVersion()
		os.Exit(0)
	}
	return flags
}

func logErr(err error) {
	fmt.Fprintln(os.Stderr, "adcinfo:", err)
}

func printHelp() {
	fmt.Printf("Usage: %s [OPTIONS] [device]...\n", os.Args[0])
	fmt.Println("Print information about ADC devices, or all IIO ADC devices if none are specified.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help:\t\tdisplay this message and exit")
	fmt.Println("  -v, --version:\tdisplay the version and exit")
}

func printVersion() {
	fmt.Printf("%s (adcdev) %s\n", os.Args[0], version)
}
