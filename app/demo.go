package app

import (
	"fmt"
	"io"

	"github.com/km-arc/go-registry/framework/container"
)

// RunDemo builds a scene registry under project, creates three widgets with
// the scene's factory and prints them to w together with the scene-level
// instance and the project services the scene sees. When trace is non-nil
// every resolution requested on the scene is written to it.
func RunDemo(w io.Writer, project *container.Registry, trace io.Writer) error {
	scene := project.Child()
	if err := RegisterScene(scene); err != nil {
		return fmt.Errorf("registering scene: %w", err)
	}
	if trace != nil {
		scene.AfterResolving(func(key container.Key, _ any) {
			fmt.Fprintf(trace, "resolved %s\n", key)
		})
	}

	factory, err := container.Resolve[*WidgetFactory](scene)
	if err != nil {
		return err
	}
	for i := range 3 {
		id := fmt.Sprintf("Object%d", i)
		fmt.Fprintf(w, "created %s with factory: %s\n", id, factory.Create(id, "factory"))
	}

	instance, err := container.Resolve[*Widget](scene)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "instance from scene: %s\n", instance)

	sceneSvc, err := container.Resolve[*SceneService](scene)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "scene service uses project service %q\n", sceneSvc.Project.Name)

	for _, tag := range []string{TagOption1, TagOption2} {
		svc, err := container.Resolve[*ProjectService](scene, container.WithTag(tag))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "project service %s: %q\n", tag, svc.Name)
	}
	return nil
}
