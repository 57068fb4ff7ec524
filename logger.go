// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package gridcore

import (
	"log"
	"os"
)

// Logger is the logging seam used across the store, transaction manager,
// and sort engine. It matches the shape of QueueRunner.Logf in the
// teacher codebase rather than pulling in a structured-logging library,
// since the teacher never does either.
type Logger interface {
	Printf(format string, args ...any)
}

type stdLogger struct {
	l *log.Logger
}

func (s stdLogger) Printf(format string, args ...any) { s.l.Printf(format, args...) }

// DefaultLogger returns a Logger backed by the standard library logger,
// writing to stderr with a "gridcore: " prefix.
func DefaultLogger() Logger {
	return stdLogger{l: log.New(os.Stderr, "gridcore: ", log.LstdFlags)}
}

func logOrDefault(l Logger) Logger {
	if l == nil {
		return DefaultLogger()
	}
	return l
}
