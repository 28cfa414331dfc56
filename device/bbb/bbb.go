// SPDX-FileCopyrightText: 2025 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package bbb maps BeagleBone analog input names to ADC channel numbers.
package bbb

import (
	"errors"
	"strconv"
	"strings"
)

// Convenience mapping from P9 header analog inputs to ADC channels.
const (
	AIN0 = iota
	AIN1
	AIN2
	AIN3
	AIN4
	AIN5
	AIN6

	// MaxAIN is one higher than the largest analog input channel.
	MaxAIN
)

// Mapping from P9 header pin numbers to ADC channels.
const (
	P9p39 = AIN0
	P9p40 = AIN1
	P9p37 = AIN2
	P9p38 = AIN3
	P9p33 = AIN4
	P9p36 = AIN5
	P9p35 = AIN6
)

var p9Names = map[string]int{
	"33": P9p33,
	"35": P9p35,
	"36": P9p36,
	"37": P9p37,
	"38": P9p38,
	"39": P9p39,
	"40": P9p40,
}

// ErrInvalid indicates the pin name does not match a known analog input.
var ErrInvalid = errors.New("invalid pin name")

func rangeCheck(c int) (int, error) {
	if c < AIN0 || c >= MaxAIN {
		return 0, ErrInvalid
	}
	return c, nil
}

// Pin maps a pin string name to an ADC channel number.
//
// Pin names are case insensitive and may be of the form AINX, P9pX, or X.
func Pin(s string) (int, error) {
	s = strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "p9p"):
		v, ok := p9Names[s[3:]]
		if !ok {
			return 0, ErrInvalid
		}
		return v, nil
	case strings.HasPrefix(s, "ain"):
		v, err := strconv.ParseInt(s[3:], 10, 8)
		if err != nil {
			return 0, err
		}
		return rangeCheck(int(v))
	default:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return 0, err
		}
		return rangeCheck(int(v))
	}
}

// MustPin converts the string to the corresponding ADC channel number or
// panics if that is not possible.
func MustPin(s string) int {
	v, err := Pin(s)
	if err != nil {
		panic(err)
	}
	return v
}
