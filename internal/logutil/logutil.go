/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logutil implements a generic module-scoped logger for the bbs-2023
// suite's debug/diagnostic output, in the same shape as aries-framework-go's
// component/log: a default stdlib-backed logger that can be swapped out by
// calling Initialize with a custom Provider before the first log line.
package logutil

import (
	"fmt"
	builtinlog "log"
	"os"
	"sync"
)

// Logger is the minimal leveled-logging surface a module needs.
type Logger interface {
	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
}

// Provider supplies a Logger for a named module.
type Provider interface {
	GetLogger(module string) Logger
}

//nolint:gochecknoglobals
var (
	providerInstance Provider
	providerOnce     sync.Once
)

// Initialize installs a custom logging Provider. It must be called before
// the first log line is emitted; once the default provider has been
// resolved it cannot be replaced.
func Initialize(p Provider) {
	providerOnce.Do(func() {
		providerInstance = p
	})
}

func provider() Provider {
	providerOnce.Do(func() {
		providerInstance = defaultProvider{}
	})

	return providerInstance
}

// Log is a module-scoped Logger backed by either the installed Provider or
// the stdlib-backed default. The underlying instance is lazily resolved on
// first use.
type Log struct {
	module   string
	instance Logger
	once     sync.Once
}

// New returns a Logger for the given module name.
func New(module string) *Log {
	return &Log{module: module}
}

func (l *Log) logger() Logger {
	l.once.Do(func() {
		l.instance = provider().GetLogger(l.module)
	})

	return l.instance
}

// Debugf logs at debug level.
func (l *Log) Debugf(msg string, args ...interface{}) { l.logger().Debugf(msg, args...) }

// Infof logs at info level.
func (l *Log) Infof(msg string, args ...interface{}) { l.logger().Infof(msg, args...) }

// Warnf logs at warn level.
func (l *Log) Warnf(msg string, args ...interface{}) { l.logger().Warnf(msg, args...) }

// Errorf logs at error level.
func (l *Log) Errorf(msg string, args ...interface{}) { l.logger().Errorf(msg, args...) }

type defaultProvider struct{}

func (defaultProvider) GetLogger(module string) Logger {
	return &stdLogger{
		module: module,
		logger: builtinlog.New(os.Stdout, fmt.Sprintf("[%s] ", module), builtinlog.Ldate|builtinlog.Ltime|builtinlog.LUTC),
	}
}

type stdLogger struct {
	module string
	logger *builtinlog.Logger
}

func (l *stdLogger) Debugf(msg string, args ...interface{}) { l.print("DEBUG", msg, args...) }
func (l *stdLogger) Infof(msg string, args ...interface{})  { l.print("INFO", msg, args...) }
func (l *stdLogger) Warnf(msg string, args ...interface{})  { l.print("WARN", msg, args...) }
func (l *stdLogger) Errorf(msg string, args ...interface{}) { l.print("ERROR", msg, args...) }

func (l *stdLogger) print(level, msg string, args ...interface{}) {
	l.logger.Printf("%s-> %s", level, fmt.Sprintf(msg, args...))
}
