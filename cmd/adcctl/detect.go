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
	"github.com/warthog618/adcdev/iio"
)

func init() {
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:                   "detect",
	Short:                 "Detect available ADC devices",
	Long:                  `List the ADC devices exposed through the IIO interface, their labels and number of voltage channels.`,
	Run:                   detect,
	DisableFlagsInUseLine: true,
}

func detect(cmd *cobra.Command, args []string) {
	rc := 0
	for _, name := range iio.Devices() {
		a, err := iio.New(name)
		if err != nil {
			logErr(cmd, err)
			rc = 1
			continue
		}
		fmt.Printf("%s [%s] (%d channels)\n", a.Name, a.Label, a.Channels())
		a.Close()
	}
	os.Exit(rc)
}
