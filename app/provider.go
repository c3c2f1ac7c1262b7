package app

import (
	"errors"
	"fmt"

	"github.com/km-arc/go-registry/framework/container"
)

// Provider registers the project-level services:
//
//   - *ProjectService, untagged and under TagOption1 / TagOption2 (singletons)
//   - *Counter (singleton)
//   - *Widget (transient, numbered by *Counter)
type Provider struct {
	container.BaseProvider
}

func (p *Provider) Register(r *container.Registry) error {
	var errs []error
	for _, tag := range []string{"", TagOption1, TagOption2} {
		name := tag
		if name == "" {
			name = "default"
		}
		errs = append(errs, container.RegisterSingleton(r, func(*container.Registry) (*ProjectService, error) {
			return &ProjectService{Name: name}, nil
		}, container.WithTag(tag)))
	}

	errs = append(errs,
		container.RegisterSingleton(r, func(*container.Registry) (*Counter, error) {
			return &Counter{}, nil
		}),
		container.RegisterTransient(r, func(r *container.Registry) (*Widget, error) {
			counter, err := container.Resolve[*Counter](r)
			if err != nil {
				return nil, err
			}
			n := counter.Next()
			return &Widget{ID: fmt.Sprintf("widget-%d", n), Label: "transient", Seq: n}, nil
		}),
	)
	return errors.Join(errs...)
}

// RegisterScene registers the scene-level services into scene, which must be
// a child of a registry set up by Provider:
//
//   - *SceneService (singleton, built from the project's *ProjectService)
//   - *WidgetFactory (singleton, sharing the project's *Counter)
//   - *Widget instance "Instance", shadowing the project's transient *Widget
func RegisterScene(scene *container.Registry) error {
	return errors.Join(
		container.RegisterSingleton(scene, func(r *container.Registry) (*SceneService, error) {
			project, err := container.Resolve[*ProjectService](r)
			if err != nil {
				return nil, err
			}
			return &SceneService{Project: project}, nil
		}),
		container.RegisterSingleton(scene, func(r *container.Registry) (*WidgetFactory, error) {
			counter, err := container.Resolve[*Counter](r)
			if err != nil {
				return nil, err
			}
			return &WidgetFactory{counter: counter}, nil
		}),
		container.RegisterInstance(scene, &Widget{ID: "Instance", Label: "instance", Seq: 0}),
	)
}
