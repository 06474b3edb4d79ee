package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/broadcast"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/configs"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/controllers"
	accountController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/accounts"
	addressController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/addresses"
	cartController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/cart"
	orderController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/orders"
	procurementController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/procurement"
	productController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/products"
	settingsController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/settings"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/geo"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/payments"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/routes"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	client, err := configs.ConnectDB(ctx, cfg.Mongo)
	if err != nil {
		cancel()
		log.Fatal("failed to connect to MongoDB", logger.Error(err))
	}
	db := client.Database(cfg.Mongo.Database)
	if err := configs.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatal("failed to create indexes", logger.Error(err))
	}
	cancel()
	log.Info("connected to MongoDB", logger.String("database", cfg.Mongo.Database))

	users := repository.NewUserRepository(db.Collection(configs.UsersCollection))
	products := repository.NewProductRepository(db.Collection(configs.ProductsCollection))
	orders := repository.NewOrderRepository(db.Collection(configs.OrdersCollection))
	addresses := repository.NewAddressRepository(db.Collection(configs.AddressesCollection))
	franchises := repository.NewFranchiseRepository(db.Collection(configs.FranchisesCollection))
	inventory := repository.NewInventoryRepository(db.Collection(configs.InventoryCollection))
	procurement := repository.NewProcurementRepository(db.Collection(configs.ProcurementCollection))
	settingsRepo := repository.NewSettingsRepository(db.Collection(configs.SettingsCollection))

	sinks, closers := buildBroadcasters(cfg, log)
	dispatcher := broadcast.NewDispatcher(sinks, cfg.Broadcast.Timeout, log)

	settings := services.NewSettingsService(settingsRepo)
	stock := services.NewInventoryReconciler(inventory, franchises, cfg.Inventory, log)
	assigner := services.NewFranchiseAssigner(geo.NewHTTPGeocoder(cfg.Geocoding, log), franchises, log)
	checkout := services.NewCheckoutService(services.CheckoutDeps{
		Users:       users,
		Products:    products,
		Addresses:   addresses,
		Orders:      orders,
		Settings:    settings,
		Assigner:    assigner,
		Gateway:     payments.NewRazorpay(cfg.Razorpay),
		Broadcaster: dispatcher,
		Log:         log,
	})
	machine := services.NewStatusMachine(orders, franchises, stock, dispatcher, log)

	controllers.RequestTimeout = cfg.RequestTTL

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: responses.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middlewares.RequestLogger(log))

	auth := middlewares.Auth(cfg.Auth.JWTSecret)

	routes.CartRoutes(app, cartController.NewCartController(services.NewCartService(users, products, settings), log), auth)
	routes.ProductsRoute(app, productController.NewProductController(services.NewCatalogService(products, stock, cfg.Inventory, log), log), auth)
	routes.OrderRoutes(app, orderController.NewOrderController(checkout, services.NewOrderQueries(orders), machine, log), auth)
	routes.ProcurementRoutes(app, procurementController.NewProcurementController(services.NewProcurementService(procurement, products, stock, log), log), auth)
	routes.SettingsRoutes(app, settingsController.NewSettingsController(settings, log), auth)
	account := services.NewAccountService(users, addresses)
	routes.AccountRoute(app, accountController.NewAccountController(account, log), auth)
	routes.AddressRoutes(app, addressController.NewAddressController(account, log), auth)

	go func() {
		if err := app.Listen(cfg.Server.Address()); err != nil {
			log.Error("server stopped", logger.Error(err))
		}
	}()
	log.Info("server started", logger.String("addr", cfg.Server.Address()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error("server shutdown", logger.Error(err))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("pending broadcasts dropped", logger.Error(err))
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Warn("broadcaster close", logger.Error(err))
		}
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error("mongo disconnect", logger.Error(err))
	}
}

// buildBroadcasters returns the enabled realtime sinks, or Nop when none are
// configured, plus their close functions.
func buildBroadcasters(cfg *configs.Config, log logger.Logger) (broadcast.Broadcaster, []func() error) {
	var (
		sinks   broadcast.Multi
		closers []func() error
	)

	if cfg.Redis.Enabled {
		publisher := broadcast.NewRedis(broadcast.NewRedisClient(cfg.Redis), cfg.App.Name)
		sinks = append(sinks, publisher)
		closers = append(closers, publisher.Close)
		log.Info("redis broadcaster enabled", logger.String("addr", cfg.Redis.Addr))
	}

	if cfg.Kafka.Enabled {
		producer, err := broadcast.NewKafka(cfg.Kafka)
		if err != nil {
			log.Error("kafka broadcaster disabled", logger.Error(err))
		} else {
			sinks = append(sinks, producer)
			closers = append(closers, producer.Close)
			log.Info("kafka broadcaster enabled", logger.String("topic", cfg.Kafka.Topic))
		}
	}

	if len(sinks) == 0 {
		return broadcast.Nop{}, nil
	}
	return sinks, closers
}
