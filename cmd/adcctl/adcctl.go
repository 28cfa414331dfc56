// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// A utility to read ADC devices.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adcctl",
	Short: "adcctl is a utility to read ADC devices",
	Long:  "adcctl is a utility to read analog-to-digital converters exposed through the Linux IIO interface",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "adcctl %s: %s\n", cmd.Name(), err)
}
