package app

import (
	"errors"
	"net/http"

	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/ctxlog"
	gohttp "github.com/km-arc/go-registry/framework/http"
	"github.com/km-arc/go-registry/framework/routing"
)

// maxWidgets caps GET /widgets?n=.
const maxWidgets = 100

// Routes mounts the example endpoints. router must already run requests in a
// registry scope (see routing.Scoped).
//
//	GET /widgets?n=3        n transient widgets
//	GET /services           the untagged ProjectService
//	GET /services/{tag}     the ProjectService registered under tag
//	GET /scene              widgets built inside a per-request scene registry
//	GET /registry           keys of the request scope and its parent
func Routes(router *routing.Router) {
	router.Get("/widgets", ListWidgets)
	router.Get("/services", ShowService)
	router.Get("/services/{tag}", ShowService)
	router.Get("/scene", ShowScene)
	router.Get("/registry", ShowRegistry)
}

// ListWidgets resolves n transient widgets from the request scope.
func ListWidgets(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	scope, ok := req.Registry()
	if !ok {
		res.ServerError("no request scope")
		return
	}

	n := req.QueryInt("n", 1)
	if n < 1 || n > maxWidgets {
		res.Error(http.StatusBadRequest, "n must be between 1 and 100")
		return
	}

	widgets := make([]*Widget, 0, n)
	for range n {
		widget, err := container.Resolve[*Widget](scope)
		if err != nil {
			res.Fail(err)
			return
		}
		widgets = append(widgets, widget)
	}
	ctxlog.FromContext(r.Context()).Debug("widgets created", "count", n)
	res.Success(widgets)
}

// ShowService resolves the ProjectService for the {tag} route param, or the
// untagged one when the route has none. 404 when the tag is unknown.
func ShowService(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	scope, ok := req.Registry()
	if !ok {
		res.ServerError("no request scope")
		return
	}

	tag := req.RouteParam("tag")

	svc, err := container.Resolve[*ProjectService](scope, container.WithTag(tag))
	switch {
	case errors.Is(err, container.ErrNotFound):
		res.NotFound("no project service tagged " + tag)
	case err != nil:
		res.Fail(err)
	default:
		res.Success(map[string]any{"name": svc.Name, "tag": tag})
	}
}

// ShowScene builds a scene registry under the request scope and returns the
// widgets its factory creates along with the scene's instance widget.
func ShowScene(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	scope, ok := req.Registry()
	if !ok {
		res.ServerError("no request scope")
		return
	}

	scene := scope.Child()
	if err := RegisterScene(scene); err != nil {
		res.Fail(err)
		return
	}
	factory, err := container.Resolve[*WidgetFactory](scene)
	if err != nil {
		res.Fail(err)
		return
	}
	instance, err := container.Resolve[*Widget](scene)
	if err != nil {
		res.Fail(err)
		return
	}

	created := make([]*Widget, 0, 3)
	for _, id := range []string{"Object0", "Object1", "Object2"} {
		created = append(created, factory.Create(id, "factory"))
	}
	res.Success(map[string]any{
		"depth":    scene.Depth(),
		"created":  created,
		"instance": instance,
	})
}

// ShowRegistry lists the keys held by the request scope and its parent.
func ShowRegistry(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	scope, ok := req.Registry()
	if !ok {
		res.ServerError("no request scope")
		return
	}

	body := map[string]any{
		"request_id": req.RequestID(),
		"scope":      keyNames(scope.Keys()),
	}
	if parent := scope.Parent(); parent != nil {
		body["parent"] = keyNames(parent.Keys())
	}
	res.Success(body)
}

func keyNames(keys []container.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
