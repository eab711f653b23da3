// Package errors holds the sentinel errors and structured error types shared
// by the lazyflow packages.
//
// Rejection by a filter stage is never an error; these types cover programmer
// mistakes (reading a value that does not exist, splitting a sequence at a
// position it does not have) and invalid configuration.
package errors
