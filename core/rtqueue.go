package core

// RTCommand is a deferred call run from the command loop
type RTCommand func()

// RTQueueSize is the number of commands that can be pending
const RTQueueSize = 16

// RTQueue is a fixed ring of deferred commands. Enqueue may be called
// from interrupt context; Execute runs on the command loop.
type RTQueue struct {
	cmds [RTQueueSize]RTCommand
	head uint8
	tail uint8
}

// Enqueue schedules fn to run on the next Execute.
// It returns false when the queue is full.
func (q *RTQueue) Enqueue(fn RTCommand) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	next := (q.head + 1) % RTQueueSize
	if next == q.tail {
		return false
	}
	q.cmds[q.head] = fn
	q.head = next
	return true
}

// Execute runs pending commands in the order they were queued.
// Commands enqueued while executing run in the same pass.
func (q *RTQueue) Execute() {
	for {
		fn := q.pop()
		if fn == nil {
			return
		}
		fn()
	}
}

// Pending returns the number of queued commands
func (q *RTQueue) Pending() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	return int((q.head + RTQueueSize - q.tail) % RTQueueSize)
}

func (q *RTQueue) pop() RTCommand {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.tail == q.head {
		return nil
	}
	fn := q.cmds[q.tail]
	q.cmds[q.tail] = nil
	q.tail = (q.tail + 1) % RTQueueSize
	return fn
}
