package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sahilchouksey/studynotion-api/api"
	"github.com/sahilchouksey/studynotion-api/config"
	"github.com/sahilchouksey/studynotion-api/database"
	"github.com/sahilchouksey/studynotion-api/router"
	"github.com/sahilchouksey/studynotion-api/services/cron"
	"github.com/sahilchouksey/studynotion-api/services/mail"
	"github.com/sahilchouksey/studynotion-api/services/media"
	"github.com/sahilchouksey/studynotion-api/services/payment"
	"github.com/sahilchouksey/studynotion-api/utils/cache"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		print("Or run against a local file database with:\n")
		print("  DB_DRIVER=sqlite DB_SQLITE_PATH=studynotion.db\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		print("Error running migrations:\n")
		return err
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			print("Warning: Failed to get database connection for cron jobs\n")
		} else {
			cronManager = cron.NewCronManager(db, getEnv.OTP_TTL)
			if err := cronManager.Start(); err != nil {
				print("Warning: Failed to start cron jobs\n")
				print("Error: ", err.Error(), "\n")
				// Don't fail the app, just log the warning
			}
		}
	}

	redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		redisCache = nil
	}

	// Defer Closing DB, Redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached inside)
	router.SetupRoutes(app, store, router.Dependencies{
		Config:   getEnv,
		Redis:    redisCache,
		Mailer:   mail.NewMailer(getEnv),
		Uploader: media.NewUploaderFromConfig(getEnv),
		Gateway:  payment.NewRazorpayClient(getEnv.RAZORPAY_BASE_URL, getEnv.RAZORPAY_KEY, getEnv.RAZORPAY_SECRET),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Get the PORT & Start the Server
	return server.Run()

}
