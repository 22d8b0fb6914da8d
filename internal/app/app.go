// Package app assembles the application context: config, session, ticket
// store, gateway, services and view router, with explicit construction and
// teardown. Components receive this object by reference; nothing here is a
// package-level global.
package app

import (
	"context"
	"fmt"

	"gestiogastos/internal/config"
	"gestiogastos/internal/dashboard"
	"gestiogastos/internal/gateway"
	"gestiogastos/internal/model"
	"gestiogastos/internal/service"
	"gestiogastos/internal/session"
	"gestiogastos/internal/store"
	"gestiogastos/internal/views"
	"gestiogastos/internal/workflow"

	"go.uber.org/zap"
)

// App is the assembled client core behind the dashboard views.
type App struct {
	Config  *config.Config
	Session *session.Session
	Store   store.TicketStore
	Gateway *gateway.Client
	Tickets service.TicketService
	Router  *views.Router
	Site    config.SiteConfig

	log         *zap.Logger
	currentView string
}

// New builds the application context. The view permission table and the
// transition permissions are validated here: a broken table is a startup
// error.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	table := views.DefaultTable()
	if cfg.ViewTablePath != "" {
		loaded, err := views.LoadTable(cfg.ViewTablePath)
		if err != nil {
			return nil, err
		}
		table = loaded
	}
	router, err := views.NewRouter(table)
	if err != nil {
		return nil, err
	}

	rules, err := workflow.NewRules(workflow.DefaultPermissions())
	if err != nil {
		return nil, err
	}

	sess := session.New(cfg.DefaultTheme, cfg.DefaultLanguage)
	st := store.NewTicketStore()
	gw := gateway.New(cfg.APIBaseURL, cfg.HTTPTimeout, sess, log)
	site := config.DefaultSiteConfig()

	return &App{
		Config:      cfg,
		Session:     sess,
		Store:       st,
		Gateway:     gw,
		Tickets:     service.NewTicketService(st, gw, rules, site, log),
		Router:      router,
		Site:        site,
		log:         log,
		currentView: views.ViewDashboard,
	}, nil
}

// Login authenticates, resolves the identity behind the token, pulls the
// ticket collection and the server-side pending balance, and installs the
// user in the session.
func (a *App) Login(ctx context.Context, email, password string) error {
	if _, err := a.Gateway.Login(ctx, email, password); err != nil {
		return err
	}

	meEmail, role, err := a.Gateway.Me(ctx)
	if err != nil {
		return err
	}
	user := model.User{Email: meEmail, Name: meEmail, Role: role}
	a.Session.Start(user, a.Session.Token())

	if err := a.Tickets.Sync(ctx); err != nil {
		return err
	}
	if pending, err := a.Gateway.PendingAmount(ctx); err == nil {
		user.PendingAmount = pending
		a.Session.SetUser(user)
	}

	if site, err := a.Gateway.SiteConfig(ctx); err == nil {
		a.Site = site
	}

	a.log.Info("session started", zap.String("user", meEmail), zap.String("role", string(role)))
	return nil
}

// Logout tears the session down, locally and remotely.
func (a *App) Logout(ctx context.Context) {
	_ = a.Gateway.Logout(ctx)
	a.Store.ReplaceAll(nil)
	a.currentView = views.ViewDashboard
	a.log.Info("session ended")
}

// CurrentView returns the view the user is on.
func (a *App) CurrentView() string {
	return a.currentView
}

// Menu returns the view identifiers visible to the current user.
func (a *App) Menu() []string {
	user, ok := a.Session.User()
	if !ok {
		return nil
	}
	return a.Router.Menu(user.Role)
}

// Navigate moves to the requested view if the current role permits it. On
// refusal the current view is kept and model.ErrUnauthorized is returned.
func (a *App) Navigate(requested string) error {
	user, ok := a.Session.User()
	if !ok {
		return fmt.Errorf("%w: no active session", model.ErrUnauthorized)
	}
	next, allowed := a.Router.Navigate(a.currentView, requested, user.Role)
	a.currentView = next
	if !allowed {
		return fmt.Errorf("%w: role %s may not open view %q", model.ErrUnauthorized, user.Role, requested)
	}
	return nil
}

// Dashboard recomputes the dashboard metrics for the current user over the
// live ticket collection.
func (a *App) Dashboard() (dashboard.Metrics, error) {
	user, ok := a.Session.User()
	if !ok {
		return dashboard.Metrics{}, fmt.Errorf("%w: no active session", model.ErrUnauthorized)
	}
	return dashboard.Compute(a.Store.List(model.TicketFilter{}), user), nil
}

// Close flushes the logger and clears the session.
func (a *App) Close() {
	a.Session.Clear()
	_ = a.log.Sync()
}
