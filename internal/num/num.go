/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package num narrows integers without silent truncation.
package num

import (
	"errors"
	"fmt"
)

// Integer is satisfied by every integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ErrRange is wrapped by Checked when a value does not fit.
var ErrRange = errors.New("value out of range")

// Checked converts v to OutT and fails when the value changes on the way,
// either by wrapping around or by flipping its sign. field names the value
// in the error.
//
//	w, err := Checked[uint8]("bbox width", 300) // ErrRange
func Checked[OutT, InT Integer](field string, v InT) (OutT, error) {
	out := OutT(v)
	if InT(out) != v || (out < 0) != (v < 0) {
		return 0, fmt.Errorf("%s: %w: %d", field, ErrRange, v)
	}
	return out, nil
}
