package imui

// frame is the reconciliation bookkeeping for one open container. queue
// holds the container's children as they were when the frame opened;
// every entry is either claimed by a matching ID (and set to nil) or
// destroyed before the frame is released.
type frame struct {
	parent   Node
	strategy Strategy
	queue    []Node
	head     int
	index    map[ID][]int
	claimed  []Node
	seen     map[ID]struct{}
}

// reset seeds the frame with parent's current children.
func (f *frame) reset(parent Node, strategy Strategy, threshold int) {
	f.parent = parent
	f.queue = f.queue[:0]
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		f.queue = append(f.queue, c)
	}
	f.head = 0
	f.claimed = f.claimed[:0]
	if f.seen == nil {
		f.seen = make(map[ID]struct{})
	}

	f.strategy = strategy
	if strategy == StrategyAuto {
		f.strategy = StrategyScan
		if len(f.queue) >= threshold {
			f.strategy = StrategyIndex
		}
	}

	if f.strategy == StrategyIndex {
		if f.index == nil {
			f.index = make(map[ID][]int, len(f.queue))
		}
		for i, n := range f.queue {
			if id, ok := n.Tag(); ok {
				f.index[id] = append(f.index[id], i)
			}
		}
	}
}

// take removes the first queued node tagged id from the queue and
// returns it, or returns nil.
// evict is called for nodes the strategy discards on the way.
func (f *frame) take(id ID, evict func(Node)) Node {
	if f.strategy == StrategyIndex {
		positions := f.index[id]
		for len(positions) > 0 {
			i := positions[0]
			positions = positions[1:]
			if n := f.queue[i]; n != nil {
				f.queue[i] = nil
				f.index[id] = positions
				return n
			}
		}
		delete(f.index, id)
		return nil
	}

	for i := f.head; i < len(f.queue); i++ {
		n := f.queue[i]
		if n == nil {
			continue
		}
		if tag, ok := n.Tag(); ok && tag == id {
			f.queue[i] = nil
			f.advance()
			return n
		}
		if f.strategy == StrategyEvict {
			f.queue[i] = nil
			evict(n)
		}
	}
	f.advance()
	return nil
}

// advance moves head past claimed entries.
func (f *frame) advance() {
	for f.head < len(f.queue) && f.queue[f.head] == nil {
		f.head++
	}
}

// remaining returns the number of unclaimed queued nodes.
func (f *frame) remaining() int {
	n := 0
	for _, c := range f.queue[f.head:] {
		if c != nil {
			n++
		}
	}
	return n
}

// drain evicts every unclaimed node in queue order.
func (f *frame) drain(evict func(Node)) {
	for i := f.head; i < len(f.queue); i++ {
		if n := f.queue[i]; n != nil {
			f.queue[i] = nil
			evict(n)
		}
	}
	f.head = len(f.queue)
}

// markSeen records id and reports whether it was already declared in
// this frame.
func (f *frame) markSeen(id ID) bool {
	if _, ok := f.seen[id]; ok {
		return true
	}
	f.seen[id] = struct{}{}
	return false
}

// release drops every node reference so nothing outlives the pass.
func (f *frame) release() {
	clear(f.queue)
	f.queue = f.queue[:0]
	clear(f.claimed)
	f.claimed = f.claimed[:0]
	clear(f.seen)
	clear(f.index)
	f.head = 0
	f.parent = nil
}
