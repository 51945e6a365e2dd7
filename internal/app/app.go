package app

import (
	"context"

	"storefront-client/internal/cart"
	"storefront-client/internal/config"
	"storefront-client/internal/credentials"
	"storefront-client/internal/httpapi"
	"storefront-client/internal/live"
	"storefront-client/internal/logger"
	"storefront-client/internal/order"
	"storefront-client/internal/product"
	"storefront-client/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// App is the explicitly constructed application context: every store and
// the live channel handle, built once at startup and injected into the
// view layer. Nothing in here is a package-level singleton, so tests can
// build as many instances as they like and Teardown releases everything.
type App struct {
	Config      *config.Config
	Credentials *credentials.Store
	API         *httpapi.Client
	AuthedAPI   *httpapi.Client
	Session     *session.Store
	Products    *product.Store
	Cart        *cart.Store
	Orders      *order.Store
	Live        *live.Channel
}

func New(cfg *config.Config) *App {
	creds := credentials.NewStore(cfg.CredentialsPath)
	api := httpapi.New(cfg.APIBaseURL)
	authed := httpapi.NewAuthed(cfg.APIBaseURL, creds)

	orders := order.NewStore(authed)

	var channel *live.Channel
	if cfg.LiveURL != "" {
		channel = live.NewChannel(cfg.LiveURL, cfg.LiveFallbackURL, creds, orders)
		// After an in-place patch, refetch the order so fields the event
		// did not carry catch up too.
		channel.OnApplied(func(orderID string) {
			ctx := logger.WithOpID(context.Background(), uuid.NewString())
			_ = orders.FetchDetail(ctx, orderID)
		})
	}

	return &App{
		Config:      cfg,
		Credentials: creds,
		API:         api,
		AuthedAPI:   authed,
		Session:     session.NewStore(api, authed, creds),
		Products:    product.NewStore(api),
		Cart:        cart.NewStore(authed),
		Orders:      orders,
		Live:        channel,
	}
}

// Start rehydrates the session from persistent storage and, when an
// identity is present, primes the cart and connects the live channel.
// Failures past rehydration are logged, not fatal: the stores stay
// usable with whatever state they have.
func (a *App) Start(ctx context.Context) error {
	if err := a.Session.LoadFromStorage(); err != nil {
		return err
	}

	user, ok := a.Session.CurrentUser()
	if !ok {
		logger.FromCtx(ctx).Info("no stored session, starting anonymous")
		return nil
	}
	log := logger.FromCtx(ctx).With(zap.String("user_id", user.ID))
	log.Info("session rehydrated")

	if err := a.Cart.FetchAll(ctx); err != nil {
		log.Warn("failed to prime cart", zap.Error(err))
	}

	if a.Live != nil {
		if err := a.Live.Connect(ctx); err != nil {
			log.Warn("live channel unavailable, continuing without push updates", zap.Error(err))
		}
	}
	return nil
}

// Teardown disconnects the live channel and flushes the logger.
func (a *App) Teardown() {
	if a.Live != nil {
		_ = a.Live.Close()
	}
	logger.Sync()
}
