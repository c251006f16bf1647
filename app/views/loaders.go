package views

import (
	"context"
	"log/slog"
	"time"

	"github.com/app-estudos/estudos/pkg/history"
	"github.com/app-estudos/estudos/pkg/modules"
	"github.com/app-estudos/estudos/pkg/router"
	"github.com/app-estudos/estudos/pkg/view"
)

// Loaders holds one loader per view of the route table.
type Loaders struct {
	LayoutBase            router.Loader
	Dashboard             router.Loader
	PrimeVueDemo          router.Loader
	VuetifyDemo           router.Loader
	BlankTemplate         router.Loader
	TrabalhosList         router.Loader
	TrabalhosNovo         router.Loader
	TrabalhosNovoDiagrama router.Loader
}

// Options configures NewLoaders.
type Options struct {
	// Title is shown in the layout header.
	Title string

	// Source supplies the page modules. Default: Embedded().
	Source modules.Source

	// History builds the menu hrefs. Default: history.New("/").
	History *history.History

	Logger *slog.Logger
}

// NewLoaders returns the loaders of every view.
func NewLoaders(opts Options) Loaders {
	if opts.Title == "" {
		opts.Title = "Estudos"
	}
	if opts.Source == nil {
		opts.Source = Embedded()
	}
	if opts.History == nil {
		opts.History = history.New("/")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "views")
	}

	h := opts.History
	href := func(path string) string { return h.Href(path, nil) }
	p := pageLoader{src: opts.Source, logger: opts.Logger}

	return Loaders{
		LayoutBase: func(context.Context) (view.View, error) {
			return &LayoutBase{
				Title: opts.Title,
				Menu: []Link{
					{Label: "Dashboard", Href: href("/")},
					{Label: "PrimeVue", Href: href("/primevue")},
					{Label: "Vuetify", Href: href("/vuetify")},
					{Label: "Modelo em branco", Href: href("/blank-template")},
					{Label: "Trabalhos", Href: href("/trabalhos")},
				},
			}, nil
		},
		Dashboard:     p.load("dashboard", "dashboard.md"),
		PrimeVueDemo:  p.load("primevue", "primevue.md"),
		VuetifyDemo:   p.load("vuetify", "vuetify.md"),
		BlankTemplate: p.load("blank-template", "blank-template.md"),
		TrabalhosList: p.load("trabalhos-list", "trabalhos.md",
			Link{Label: "Novo trabalho", Href: href("/trabalhos/novo")}),
		TrabalhosNovo: p.load("trabalhos-novo", "trabalhos-novo.md",
			Link{Label: "Ver diagrama", Href: href("/trabalhos/novo/diagrama")},
			Link{Label: "Voltar", Href: href("/trabalhos")}),
		TrabalhosNovoDiagrama: p.load("trabalhos-novo-diagrama", "trabalhos-novo-diagrama.md",
			Link{Label: "Voltar", Href: href("/trabalhos/novo")}),
	}
}

type pageLoader struct {
	src    modules.Source
	logger *slog.Logger
}

func (p pageLoader) load(name, key string, actions ...Link) router.Loader {
	return func(ctx context.Context) (view.View, error) {
		start := time.Now()
		doc, err := modules.Load(ctx, p.src, key)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("module fetched", "route", name, "module", key, "duration", time.Since(start))
		return &Page{Name: name, Doc: doc, Actions: actions}, nil
	}
}
