// Package boundlog provides the structured logger shared by every
// package in this module. It wraps logrus so call sites attach fields
// (device address, handle, opcode) instead of formatting them into a
// message string.
package boundlog

import "github.com/sirupsen/logrus"

// New returns a FieldLogger tagged with component=name, writing to
// logrus's standard logger.
func New(component string) logrus.FieldLogger {
	return logrus.StandardLogger().WithField("component", component)
}

// SetLevel adjusts the package-wide logrus level, e.g. from a CLI
// --verbose flag.
func SetLevel(level logrus.Level) {
	logrus.SetLevel(level)
}
