package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Balaga-Lokesh/SAVR-sub000/client"
	"github.com/Balaga-Lokesh/SAVR-sub000/config"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/spf13/viper"
)

// app wires the client library together for one command invocation.
type app struct {
	store    *client.DurableStore
	session  *client.SessionStore
	api      *client.API
	cart     *client.Cart
	sess     *client.Session
	catalog  *client.Catalog
	optimize *client.Optimizer
}

func newApp() (*app, error) {
	path := viper.GetString("store")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	store, err := client.OpenDurableStore(path)
	if err != nil {
		return nil, err
	}

	session := client.NewSessionStore()
	api := client.NewAPI(viper.GetString("server"), store)

	return &app{
		store:    store,
		session:  session,
		api:      api,
		cart:     client.NewCart(store),
		sess:     client.NewSession(api, session, store),
		catalog:  client.NewCatalog(api),
		optimize: client.NewOptimizer(api),
	}, nil
}

func (a *app) Close() {
	a.store.Close()
}

func (a *app) checkout() *client.Checkout {
	return client.NewCheckout(a.api, a.cart, services.NewGeocoder(config.DefaultGeocoderBaseURL))
}
