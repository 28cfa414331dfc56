// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// A utility to read channels from an ADC device.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/warthog618/adcdev"
	"github.com/warthog618/adcdev/device/bbb"
	"github.com/warthog618/adcdev/iio"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/keys"
	"github.com/warthog618/config/pflag"
)

var version = "undefined"

func main() {
	cfg, flags := loadConfig()
	name := flags.Args()[0]
	a, err := iio.New(name)
	if err != nil {
		die(err.Error())
	}
	defer a.Close()
	d, err := adcdev.NewFromConfig(a.Name, a, cfg,
		adcdev.WithChannelMask(a.ChannelMask()))
	if err != nil {
		die(err.Error())
	}
	reg := adcdev.NewRegistry()
	if err = reg.Register(d); err != nil {
		die(err.Error())
	}
	cc := parseChannels(flags.Args()[1:])
	for _, channel := range cc {
		v, err := reg.SingleShotChannel(a.Name, channel)
		if err != nil {
			die("error reading channel " + strconv.Itoa(channel) + ": " + err.Error())
		}
		fmt.Printf("%d %d\n", channel, v)
	}
	if cfg.MustGet("microvolts").Bool() {
		printRails(d)
	}
}

func printRails(d *adcdev.Device) {
	if uV, err := d.VddMicrovolts(); err == nil {
		fmt.Printf("vdd %duV\n", uV)
	}
	if uV, err := d.VssMicrovolts(); err == nil {
		fmt.Printf("vss %duV\n", uV)
	}
}

func parseChannels(args []string) []int {
	cc := []int(nil)
	for _, arg := range args {
		c, err := bbb.Pin(arg)
		if err != nil {
			die(fmt.Sprintf("can't parse channel '%s'", arg))
		}
		cc = append(cc, c)
	}
	return cc
}

func loadConfig() (*config.Config, *pflag.Getter) {
	ff := []pflag.Flag{
		{Short: 'h', Name: "help", Options: pflag.IsBool},
		{Short: 'v', Name: "version", Options: pflag.IsBool},
		{Short: 'u', Name: "microvolts", Options: pflag.IsBool},
		{Short: 't', Name: "single-timeout"},
		{Short: 'c', Name: "config-file"},
	}
	defaults := dict.New(dict.WithMap(
		map[string]interface{}{
			"help":       false,
			"version":    false,
			"microvolts": false,
		}))
	flags := pflag.New(pflag.WithFlags(ff),
		pflag.WithKeyReplacer(keys.NullReplacer()),
	)
	cfg := config.New(flags,
		env.New(env.WithEnvPrefix("ADCGET_")),
		config.WithDefault(defaults))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "adcget.json", json.NewDecoder()))
	if cfg.MustGet("help").Bool() {
		printHelp()
		os.Exit(0)
	}
	if cfg.MustGet("version").Bool() {
		printVersion()
		os.Exit(0)
	}
	switch flags.NArg() {
	case 0:
		die("ADC device must be specified")
	case 1:
		die("at least one channel must be specified")
	}
	return cfg, flags
}

func die(reason string) {
	fmt.Fprintln(os.Stderr, "adcget: "+reason)
	os.Exit(1)
}

func printHelp() {
	fmt.Printf("Usage: %s [OPTIONS] <device> <channel 1> <channel 2> ...\n", os.Args[0])
	fmt.Println("Read channel value(s) from an ADC device.")
	fmt.Println()
	fmt.Println("Channels may be numeric, or names such as AIN0 on boards with")
	fmt.Println("named analog inputs.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help:\t\t\tdisplay this message and exit")
	fmt.Println("  -v, --version:\t\tdisplay the version and exit")
	fmt.Println("  -u, --microvolts:\t\talso print the reference rail voltages")
	fmt.Println("  -t, --single-timeout=NUM:\tbusy-retry budget for each read")
	fmt.Println("  -c, --config-file=FILE:\tdevice properties file (default adcget.json)")
	fmt.Println()
	fmt.Println("Device properties (config file or ADCGET_ env):")
	fmt.Println("  channel-mask, data-mask, single-timeout, multi-timeout,")
	fmt.Println("  vdd-microvolts, vss-microvolts,")
	fmt.Println("  vdd-polarity-negative, vss-polarity-negative")
}

func printVersion() {
	fmt.Printf("%s (adcdev) %s\n", os.Args[0], version)
}
