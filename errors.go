/*
 * errors.go, part of somngo.
 *
 * Copyright 2024 The somngo Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import (
	"errors"
	"fmt"
	"strings"
)

//The closed set of error kinds. Any *Error returned by this module
//matches exactly one of them with errors.Is.
var (
	ErrBadExtension     = errors.New("wrong file extension")
	ErrParse            = errors.New("parse failure")
	ErrBadConfig        = errors.New("bad configuration")
	ErrMissingFile      = errors.New("missing file")
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrExternal         = errors.New("external program failure")
)

//Error is the general structure for errors in this module.
type Error struct {
	kind     error
	message  string
	filename string //the input file that has problems, or empty string if none.
	cause    error
	deco     []string
	critical bool
}

//NewError returns a critical *Error of the given kind. callers, if given, start
//the decoration trail.
func NewError(kind error, filename, message string, callers ...string) *Error {
	return &Error{kind: kind, message: message, filename: filename, deco: callers, critical: true}
}

//WrapError is like NewError but keeps err as the cause, so errors.Is and errors.As
//also see through to it.
func WrapError(kind error, filename string, err error, callers ...string) *Error {
	E := NewError(kind, filename, err.Error(), callers...)
	E.cause = err
	return E
}

func (err *Error) Error() string {
	if err.filename != "" {
		return fmt.Sprintf("%s: %s: %s", err.kind, err.filename, err.message)
	}
	return fmt.Sprintf("%s: %s", err.kind, err.message)
}

//Unwrap allows errors.Is to match both the kind and the cause.
func (err *Error) Unwrap() []error {
	if err.cause != nil {
		return []error{err.kind, err.cause}
	}
	return []error{err.kind}
}

//Kind returns the kind of the error, one of the Err* variables of this package.
func (err *Error) Kind() error { return err.kind }

//FileName returns the file associated to the error, if any.
func (err *Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

//SetCritical marks the error as critical or not. Per-molecule failures are not critical.
func (err *Error) SetCritical(c bool) { err.critical = c }

//Decorate adds the name of a caller to the trail of the error, and returns the trail.
//If passed an empty string, it just returns the current trail.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Trail returns the decoration trail joined with arrows, innermost first.
func (err *Error) Trail() string {
	return strings.Join(err.deco, " <- ")
}

//ErrDecorate decorates err with caller if it is an *Error, and returns it.
//Other errors are returned as they are.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var E *Error
	if errors.As(err, &E) {
		E.Decorate(caller)
	}
	return err
}
