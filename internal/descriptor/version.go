// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package descriptor

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a descriptor version of the form V<major>.<minor>.
type Version struct {
	Major int
	Minor int
}

// ParseVersion parses "V1.23" (the leading V is optional). Both parts must fit
// in two decimal digits so the version packs into 16 bits.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "V")
	major, minor, ok := strings.Cut(trimmed, ".")
	if !ok {
		return Version{}, fmt.Errorf("version %q: expected V<major>.<minor>", s)
	}
	ma, err := strconv.Atoi(major)
	if err != nil {
		return Version{}, fmt.Errorf("version %q: bad major part: %w", s, err)
	}
	mi, err := strconv.Atoi(minor)
	if err != nil {
		return Version{}, fmt.Errorf("version %q: bad minor part: %w", s, err)
	}
	if ma < 0 || ma > 99 || mi < 0 || mi > 99 {
		return Version{}, fmt.Errorf("version %q: parts must be within 0-99", s)
	}
	return Version{Major: ma, Minor: mi}, nil
}

// Digits returns the four decimal digits of the packed form, "0123" for V1.23.
func (v Version) Digits() string {
	return fmt.Sprintf("%02d%02d", v.Major, v.Minor)
}

// Packed returns the 16-bit value where each nibble holds one decimal digit.
func (v Version) Packed() uint16 {
	return uint16(v.Major/10)<<12 | uint16(v.Major%10)<<8 | uint16(v.Minor/10)<<4 | uint16(v.Minor%10)
}

// String implements fmt.Stringer.
func (v Version) String() string {
	return fmt.Sprintf("V%d.%02d", v.Major, v.Minor)
}

// DecodeDigits is the inverse of Digits.
func DecodeDigits(d string) (Version, error) {
	if len(d) != 4 {
		return Version{}, fmt.Errorf("packed version %q: expected 4 digits", d)
	}
	ma, err := strconv.Atoi(d[:2])
	if err != nil {
		return Version{}, fmt.Errorf("packed version %q: %w", d, err)
	}
	mi, err := strconv.Atoi(d[2:])
	if err != nil {
		return Version{}, fmt.Errorf("packed version %q: %w", d, err)
	}
	return Version{Major: ma, Minor: mi}, nil
}

// DecodePacked is the inverse of Packed.
func DecodePacked(p uint16) Version {
	return Version{
		Major: int(p>>12&0xf)*10 + int(p>>8&0xf),
		Minor: int(p>>4&0xf)*10 + int(p&0xf),
	}
}
