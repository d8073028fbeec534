package simplepush

// partQueue is a strict FIFO of queued parts. It is not safe for concurrent
// use; the Buffer's single-threaded contract pushes serialization onto the
// caller.
type partQueue struct {
	parts []Part
}

func (q *partQueue) append(p Part) {
	q.parts = append(q.parts, p)
}

func (q *partQueue) dequeue() (Part, bool) {
	if len(q.parts) == 0 {
		return Part{}, false
	}
	head := q.parts[0]
	q.parts = q.parts[1:]
	return head, true
}

func (q *partQueue) count() int {
	return len(q.parts)
}

func (q *partQueue) clear() {
	q.parts = nil
}
