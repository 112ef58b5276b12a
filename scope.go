package objectbuilder

import (
	"github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

// BuildChildContainer creates a scope that reads through to c. The child
// shares the default registry, property injector and middleware, and starts
// with no PerUnitOfWork instances of its own.
//
// A child of a disposed container starts disposed: it still resolves, but
// retains no PerUnitOfWork instances.
func (c *container) BuildChildContainer() Container {
	child := newContainer(c.engine.CreateChildScope(), c.shared, c)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()

		_ = child.engine.Dispose()
		child.disposed = true

		c.shared.logger.Warn("child container requested from a disposed container")

		return child
	}
	c.children = append(c.children, child)
	c.mu.Unlock()

	c.shared.logger.Debug("child container created", log.Int("depth", child.depth()))

	return child
}

// Dispose releases this scope's PerUnitOfWork instances, then disposes the
// children depth-first. Singleton instances and the registry are untouched.
func (c *container) Dispose() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()

		return nil
	}

	c.disposed = true
	children := c.children
	c.children = nil
	c.mu.Unlock()

	err := c.engine.Dispose()

	for _, child := range children {
		err = multierr.Append(err, child.Dispose())
	}

	if c.parent != nil {
		c.parent.removeChild(c)
	}

	if err != nil {
		c.shared.logger.Warn("container disposed with errors", log.Error(err))
	} else {
		c.shared.logger.Debug("container disposed", log.Int("children", len(children)))
	}

	return err
}

// removeChild forgets a child that was disposed on its own.
func (c *container) removeChild(child *container) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, ch := range c.children {
		if ch == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// depth returns the distance to the root. The root has depth 0.
func (c *container) depth() int {
	d := 0
	for p := c.parent; p != nil; p = p.parent {
		d++
	}
	return d
}
