// Package cursor maps an unbounded step counter onto a valid index of a
// fixed-size collection.
//
// The default traversal, Bounce, walks the index range like a ball between
// two walls: 0, 1, ..., size-1, size-2, ..., 1, 0, 1, ... The other
// traversals differ only in how they treat the ends of the range.
package cursor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/entrhq/slides/pkg/content"
)

// ErrNegativeCounter is returned for counters below zero.
var ErrNegativeCounter = errors.New("cursor: negative counter")

// Mapper turns a counter into an index in [0, size).
type Mapper func(counter, size int) (int, error)

func check(counter, size int) error {
	if size <= 0 {
		return content.ErrEmptyCollection
	}
	if counter < 0 {
		return ErrNegativeCounter
	}
	return nil
}

// Bounce reflects at both ends, visiting each end once per cycle.
// The period is 2*(size-1), or 1 when size is 1.
func Bounce(counter, size int) (int, error) {
	if err := check(counter, size); err != nil {
		return 0, err
	}
	period := 2 * (size - 1)
	if period < 1 {
		period = 1
	}
	phase := counter % period
	if phase < size {
		return phase, nil
	}
	return period - phase, nil
}

// BounceDwell reflects at both ends but stays on each end for two steps:
// 0, 1, ..., size-1, size-1, ..., 1, 0, 0, 1, ... The period is 2*size.
func BounceDwell(counter, size int) (int, error) {
	if err := check(counter, size); err != nil {
		return 0, err
	}
	period := 2 * size
	phase := counter % period
	if phase < size {
		return phase, nil
	}
	return period - 1 - phase, nil
}

// Wrap starts over at 0 after size-1.
func Wrap(counter, size int) (int, error) {
	if err := check(counter, size); err != nil {
		return 0, err
	}
	return counter % size, nil
}

var traversals = map[string]Mapper{
	"bounce":       Bounce,
	"bounce-dwell": BounceDwell,
	"wrap":         Wrap,
}

// DefaultTraversal is the traversal name used when none is configured.
const DefaultTraversal = "bounce"

// Parse returns the Mapper registered under name. An empty name selects
// DefaultTraversal.
func Parse(name string) (Mapper, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultTraversal
	}
	m, ok := traversals[name]
	if !ok {
		return nil, fmt.Errorf("unknown traversal %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return m, nil
}

// Names lists the registered traversal names in sorted order.
func Names() []string {
	names := make([]string, 0, len(traversals))
	for name := range traversals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
