package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"digital-id-system/handlers"
	"digital-id-system/middleware"
	"digital-id-system/models"
	"digital-id-system/services"
	"digital-id-system/utils"
	"digital-id-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — avatars only, nothing bigger comes through
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Email, X-Email-Verified, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.IdentityUser{},
		&models.Profile{},
		&models.WalletLink{},
		&models.RewardEvent{},
		&models.StepCompletion{},
		&models.DaoProposal{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	rewardService := services.NewRewardService(db)
	profileService := services.NewProfileService(db)
	walletService := services.NewWalletService(db, rewardService)
	verificationService := services.NewVerificationService(db, profileService, walletService, rewardService)
	provisioningService := services.NewProvisioningService(db, walletService, rewardService, verificationService)
	daoService := services.NewDaoService(db)

	if err := daoService.SeedProposals(); err != nil {
		log.Printf("⚠️ Failed to seed DAO proposals: %v", err)
	}

	// --- CONFIGURE auth service connection ---
	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	idServiceToken := os.Getenv("ID_SERVICE_TOKEN")
	if idServiceToken == "" {
		log.Fatal("ID_SERVICE_TOKEN environment variable not set")
	}
	// --- END CONFIG ---

	authClient := services.NewAuthServiceClient(authServiceURL, idServiceToken)
	syncWorker := workers.NewAuthUserSyncWorker(db, provisioningService, authServiceURL, "/api/v1/public/users", idServiceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Auth User Sync Worker...")
		syncWorker.Start(ctx)
	}()

	// Retry Smart Wallet provisioning for verified users that missed it.
	provisioningService.StartProvisioningSweep(5 * time.Minute)

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupVerificationRoutes(app, verificationService)
	handlers.SetupWalletRoutes(app, walletService, verificationService)
	handlers.SetupRewardRoutes(app, rewardService, authClient)
	handlers.SetupProfileRoutes(app, profileService)
	handlers.SetupDaoRoutes(app, daoService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Auth User Sync Worker running")
	log.Println("✅ Provisioning sweep running (every 5m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
