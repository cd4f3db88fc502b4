package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/Crsto22/Movitex-sub001/internal/config"     // Internal config loader
	"github.com/Crsto22/Movitex-sub001/internal/database"   // MySQL connection helper
	"github.com/Crsto22/Movitex-sub001/internal/handler"    // HTTP handlers
	"github.com/Crsto22/Movitex-sub001/internal/inventory"  // Seat inventory fetcher
	"github.com/Crsto22/Movitex-sub001/internal/middleware" // Response cache and rate limiting
	"github.com/Crsto22/Movitex-sub001/internal/queue"      // Reservation event consumer
	"github.com/Crsto22/Movitex-sub001/internal/repository" // DB repositories
	"github.com/Crsto22/Movitex-sub001/internal/router"     // Route registration
	"github.com/Crsto22/Movitex-sub001/internal/selection"  // Seat selection state machines
	"github.com/Crsto22/Movitex-sub001/internal/store"      // Session store backends
)

func main() {
	// Load a .env file when present.  Missing files are fine; production
	// environments set real variables instead.
	_ = godotenv.Load()

	cfg := config.Load()                   // Load environment config
	selCfg := config.LoadSelectionConfig() // Seat selection tunables (cap, TTLs)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs the session store, response cache and rate limiter.  A
	// nil client means Redis is unreachable; the session store degrades to
	// process-local memory and the middleware switch themselves off.
	rdb := config.NewRedisClient()
	var sessions store.SessionStore
	if rdb != nil {
		sessions = store.NewRedisStore(rdb)
	} else {
		log.Println("redis unavailable; session state will not survive restarts")
		sessions = store.NewMemoryStore()
	}

	users := repository.NewUserRepo(db)
	cities := repository.NewCityRepo(db)
	routes := repository.NewRouteRepo(db)
	trips := repository.NewTripRepo(db)
	fetcher := inventory.NewMySQLFetcher(db)

	manager := selection.NewManager(fetcher, sessions, trips, selection.Config{
		MaxSelected:    selCfg.MaxSeats,
		ReservationTTL: selCfg.ReservationTTL,
	})
	// Drop selection state machines whose sessions went quiet.
	stopSweep := make(chan struct{})
	manager.StartSweeper(selCfg.SweepInterval, selCfg.SessionIdleTTL, stopSweep)
	defer close(stopSweep)

	// The consumer appends confirmed-selection events to logs/reservation.log.
	// It reconnects forever on its own; a dead broker only costs the log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()          // Create Echo instance
	router.RegisterRoutes(e) // Health check

	auth := handler.NewAuthHandler(cfg, users)
	router.RegisterAuth(e, auth)

	browse := handler.NewBrowseHandler(cities, routes, trips, sessions)
	router.RegisterBrowse(e, browse, cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	sel := handler.NewSelectionHandler(manager, sessions, selCfg.MaxSeats, true)
	router.RegisterSelection(e, sel, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
