// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import "fmt"

// InvalidInputError reports a violated precondition of the pipeline.
// It is always returned before any numerical work is done.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "magrtp: invalid input: " + e.Reason
}

func invalidf(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// NumericalError reports a non-finite intermediate value.
// Stage names the pipeline stage and Index the first offending sample or bin.
type NumericalError struct {
	Stage string
	Index int
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("magrtp: non-finite value in %s at index %d", e.Stage, e.Index)
}
