package core

import (
	"io"

	"switchbank/protocol"
)

// Stream writes protocol lines to the host connection
type Stream struct {
	w io.Writer
}

// NewStream wraps w. A nil writer discards output.
func NewStream(w io.Writer) *Stream {
	if w == nil {
		w = io.Discard
	}
	return &Stream{w: w}
}

// Write sends s as is
func (s *Stream) Write(str string) {
	_, _ = io.WriteString(s.w, str)
}

// WriteLine sends s followed by the line terminator
func (s *Stream) WriteLine(str string) {
	s.Write(str + protocol.EOL)
}

// MessageType selects the prefix of a [MSG:] line
type MessageType uint8

const (
	MessagePlain MessageType = iota
	MessageInfo
	MessageWarning
)

// ReportMessage writes a [MSG:] feedback line
func (s *Stream) ReportMessage(msg string, t MessageType) {
	switch t {
	case MessageInfo:
		msg = "Info: " + msg
	case MessageWarning:
		msg = "Warning: " + msg
	}
	s.WriteLine("[MSG:" + msg + "]")
}

// ReportBuildInfo writes the $I response. Observers of ReportOptions are
// called twice: with newopt set while the [NEWOPT:] line is open, so they
// can append option codes, and with newopt clear to add their own lines.
func ReportBuildInfo(s *Stream, ev *Events, board string) {
	s.WriteLine("[VER:" + protocol.Version + ":" + board + "]")
	s.Write("[NEWOPT:ENUMS,RT+")
	ev.ReportOptions.Fire(true)
	s.WriteLine("]")
	ev.ReportOptions.Fire(false)
}
