package core

// DebugWriter receives one debug line without a trailing newline
type DebugWriter func(string)

// DebugQueueSize is the depth of the asynchronous debug queue
const DebugQueueSize = 16

var (
	debugWrite   DebugWriter = func(string) {}
	debugEnabled bool
	debugQueue   chan string
)

// SetDebugWriter routes debug lines to w, e.g. a spare UART on the
// firmware or stderr on the host
func SetDebugWriter(w DebugWriter) {
	if w == nil {
		w = func(string) {}
	}
	debugWrite = w
}

// SetDebugEnabled switches debug output on or off. It starts disabled.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes msg synchronously when debug output is enabled
func DebugPrintln(msg string) {
	if debugEnabled {
		debugWrite(msg)
	}
}

// InitAsyncDebug starts the goroutine draining DebugAsync messages.
// Call it once after SetDebugWriter.
func InitAsyncDebug() {
	if debugQueue != nil {
		return
	}
	debugQueue = make(chan string, DebugQueueSize)
	go func() {
		for msg := range debugQueue {
			debugWrite(msg)
		}
	}()
}

// DebugAsync queues msg for the debug goroutine. It never blocks;
// messages are dropped when the queue is full or not started.
func DebugAsync(msg string) {
	if !debugEnabled || debugQueue == nil {
		return
	}
	select {
	case debugQueue <- msg:
	default:
	}
}
