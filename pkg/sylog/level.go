// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package sylog

// messageLevel indicates the level of a log message, ordered so that a
// higher value means more verbose.
type messageLevel int

const (
	FatalLevel   messageLevel = -4
	ErrorLevel   messageLevel = -3
	WarnLevel    messageLevel = -2
	LogLevel     messageLevel = -1
	InfoLevel    messageLevel = 1
	VerboseLevel messageLevel = 2
	DebugLevel   messageLevel = 5
)

func (l messageLevel) String() string {
	switch l {
	case FatalLevel:
		return "FATAL"
	case ErrorLevel:
		return "ERROR"
	case WarnLevel:
		return "WARNING"
	case LogLevel:
		return "LOG"
	case InfoLevel:
		return "INFO"
	case VerboseLevel:
		return "VERBOSE"
	case DebugLevel:
		return "DEBUG"
	default:
		return "LOG"
	}
}
