// Copyright (C) 2025, VigilantDoomer
//
// This file is part of VigilantClip library.
//
// VigilantClip is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantClip is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantClip.  If not, see <https://www.gnu.org/licenses/>.

// Central log of the library
package vigilantclip

import (
	"fmt"
	"io"
	"os"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// MyLogger keeps the printf-style API the rest of the code is written against,
// while records actually go through logrus so that the simulation embedding
// this library can route, filter and format them as it pleases.
type MyLogger struct {
	// Guards verbosity and output swaps; logrus orders the writes.
	// Several worlds may share the logger from different goroutines
	mu        deadlock.Mutex
	base      *logrus.Logger
	out       io.Writer
	verbosity int
}

func CreateLogger(out io.Writer) *MyLogger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	base.SetLevel(logrus.InfoLevel)
	return &MyLogger{
		base: base,
		out:  out,
	}
}

var Log = CreateLogger(os.Stdout)

// Your generic printf to let user see things
func (log *MyLogger) Printf(s string, a ...interface{}) {
	log.base.Infof(s, a...)
}

// Does NOT interrupt execution of the program
func (log *MyLogger) Error(s string, a ...interface{}) {
	log.base.Errorf(s, a...)
}

// Stuff that is only worth seeing when someone is chasing a desync. Level 1
// is per-map information, level 2 and above is per-query chatter
func (log *MyLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if verbosityLevel <= log.Verbosity() {
		log.base.Debugf(s, a...)
	}
}

// Panicking is not a good thing, but at least we can now use formatted printing
// for it
func (log *MyLogger) Panic(s string, a ...interface{}) {
	msg := fmt.Sprintf(s, a...)
	log.base.Error(msg)
	panic(msg)
}

func (log *MyLogger) Verbosity() int {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.verbosity
}

// SetVerbosity also lowers the logrus level, so that Verbose records are not
// thrown away by logrus after passing our own check
func (log *MyLogger) SetVerbosity(level int) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.verbosity = level
	switch {
	case level >= 3:
		log.base.SetLevel(logrus.TraceLevel)
	case level >= 1:
		log.base.SetLevel(logrus.DebugLevel)
	default:
		log.base.SetLevel(logrus.InfoLevel)
	}
}

func (log *MyLogger) SetOutput(out io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.out = out
	log.base.SetOutput(out)
}

func (log *MyLogger) Output() io.Writer {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.out
}

// WithFields gives a structured entry for components that log per-object
// records (worlds, things)
func (log *MyLogger) WithFields(fields logrus.Fields) *logrus.Entry {
	return log.base.WithFields(fields)
}

func (log *MyLogger) Logrus() *logrus.Logger {
	return log.base
}
