// Package routes declares the application's route table.
package routes

import (
	"github.com/app-estudos/estudos/app/views"
	"github.com/app-estudos/estudos/pkg/router"
)

// Root returns the declared routes. Every page is a child of the layout.
func Root(l views.Loaders) router.Route {
	return router.Route{
		Path:      "/",
		Component: l.LayoutBase,
		Children: []router.Route{
			{
				Path:      "",
				Name:      "dashboard",
				Component: l.Dashboard,
			},
			{
				Path:      "primevue",
				Name:      "primevue",
				Component: l.PrimeVueDemo,
			},
			{
				Path:      "vuetify",
				Name:      "vuetify",
				Component: l.VuetifyDemo,
			},
			{
				Path:      "blank-template",
				Name:      "blank-template",
				Component: l.BlankTemplate,
			},
			{
				Path:      "trabalhos",
				Name:      "trabalhos-list",
				Component: l.TrabalhosList,
			},
			{
				Path:      "trabalhos/novo",
				Name:      "trabalhos-novo",
				Component: l.TrabalhosNovo,
			},
			{
				Path:      "trabalhos/novo/diagrama",
				Name:      "trabalhos-novo-diagrama",
				Component: l.TrabalhosNovoDiagrama,
			},
		},
	}
}

// New builds the route table.
func New(l views.Loaders, opts ...router.Option) (*router.Table, error) {
	return router.New(Root(l), opts...)
}
