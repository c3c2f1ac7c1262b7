// Package app is an example application built on the registry: project-wide
// services live in the root registry, scene services in a child of it.
package app

import (
	"fmt"
	"sync"
)

// Tags under which alternative ProjectService instances are registered.
const (
	TagOption1 = "Option1"
	TagOption2 = "Option2"
)

// ProjectService is a project-wide service. Name tells the tagged variants
// apart.
type ProjectService struct {
	Name string
}

// SceneService depends on the project's untagged ProjectService.
type SceneService struct {
	Project *ProjectService
}

// Counter hands out increasing sequence numbers starting at 0.
type Counter struct {
	mu   sync.Mutex
	next int
}

// Next returns the current value and advances the counter.
func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.next
	c.next++
	return n
}

// Widget is a small value object. Transient widgets are numbered by the
// project Counter.
type Widget struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Seq   int    `json:"seq"`
}

func (w *Widget) String() string {
	return fmt.Sprintf("Widget(%s, %q, seq=%d)", w.ID, w.Label, w.Seq)
}

// WidgetFactory creates widgets with explicit IDs, numbered by the shared
// Counter.
type WidgetFactory struct {
	counter *Counter
}

// Create returns a new widget.
func (f *WidgetFactory) Create(id, label string) *Widget {
	return &Widget{ID: id, Label: label, Seq: f.counter.Next()}
}
