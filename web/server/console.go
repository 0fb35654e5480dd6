package server

import (
	"fmt"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning"
}

// WebLogger implements core.Logger by sending messages to a console channel
// and forwarding them to a server log
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	forward     log.Logger
}

// NewWebLogger creates a new web logger for a specific render.
// A nil forward logger only feeds the console channel.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, forward log.Logger) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
		forward:     forward,
	}
}

// Debugf implements core.Logger
func (wl *WebLogger) Debugf(format string, args ...interface{}) {
	if wl.forward != nil {
		wl.forward.Debugf("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
	}
	wl.send("debug", format, args...)
}

// Infof implements core.Logger
func (wl *WebLogger) Infof(format string, args ...interface{}) {
	if wl.forward != nil {
		wl.forward.Infof("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
	}
	wl.send("info", format, args...)
}

// Noticef implements core.Logger
func (wl *WebLogger) Noticef(format string, args ...interface{}) {
	if wl.forward != nil {
		wl.forward.Noticef("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
	}
	wl.send("notice", format, args...)
}

// Warningf implements core.Logger
func (wl *WebLogger) Warningf(format string, args ...interface{}) {
	if wl.forward != nil {
		wl.forward.Warningf("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
	}
	wl.send("warning", format, args...)
}

func (wl *WebLogger) send(level, format string, args ...interface{}) {
	if wl.consoleChan == nil {
		return
	}

	// Non-blocking: a full console drops messages rather than stalling the render
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}

// drainConsole returns every message currently buffered in consoleChan
func drainConsole(consoleChan chan ConsoleMessage) []ConsoleMessage {
	messages := []ConsoleMessage{}
	for {
		select {
		case msg := <-consoleChan:
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}
