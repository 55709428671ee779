package ecs

// Commands buffers structural changes made while systems run. The
// scheduler flushes the buffer once every system of the frame has executed,
// so queries never observe entities appearing or vanishing mid-iteration.
type Commands struct {
	spawns   [][]any
	deletes  []EntityId
	deleting map[EntityId]struct{}
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity spawn with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion. Queuing the same entity twice deletes it
// once.
func (c *Commands) Delete(entity EntityId) {
	if c.deleting == nil {
		c.deleting = make(map[EntityId]struct{})
	}
	if _, queued := c.deleting[entity]; queued {
		return
	}
	c.deleting[entity] = struct{}{}
	c.deletes = append(c.deletes, entity)
}

// Deleting reports whether entity is queued for deletion in this frame.
// Systems that run after the one that queued it use this to skip it.
func (c *Commands) Deleting(entity EntityId) bool {
	_, queued := c.deleting[entity]
	return queued
}

// Defer queues fn to run after the structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.defers)
}

// Flush applies queued deletes, then spawns, then deferred functions, and
// resets the buffer.
func (c *Commands) Flush(storage *Storage) {
	for _, id := range c.deletes {
		storage.Delete(id)
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	clear(c.defers)
	clear(c.deleting)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.defers = c.defers[:0]
}
