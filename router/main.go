package router

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/config"
	"github.com/sahilchouksey/studynotion-api/database"
	"github.com/sahilchouksey/studynotion-api/handlers"
	auth_handlers "github.com/sahilchouksey/studynotion-api/handlers/auth"
	course_handlers "github.com/sahilchouksey/studynotion-api/handlers/course"
	payment_handlers "github.com/sahilchouksey/studynotion-api/handlers/payment"
	profile_handlers "github.com/sahilchouksey/studynotion-api/handlers/profile"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/services/mail"
	"github.com/sahilchouksey/studynotion-api/services/media"
	"github.com/sahilchouksey/studynotion-api/services/payment"
	"github.com/sahilchouksey/studynotion-api/utils"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
	"github.com/sahilchouksey/studynotion-api/utils/cache"
	"github.com/sahilchouksey/studynotion-api/utils/middleware"
	"gorm.io/gorm"
)

const (
	otpRequestLimit  = 5
	otpRequestWindow = 15 * time.Minute
)

// Dependencies are the external collaborators the routes are built on.
// Redis may be nil, in which case brute force protection and OTP throttling
// are disabled.
type Dependencies struct {
	Config   *config.EnviornmentVariable
	Redis    *cache.RedisCache
	Mailer   mail.Mailer
	Uploader media.Uploader
	Gateway  payment.Gateway
}

func SetupRoutes(app *fiber.App, store database.Storage, deps Dependencies) {
	cfg := deps.Config

	if cfg.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	// Initialize JWT manager with config
	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: cfg.JWT_SECRET,
		Expiry: cfg.JWT_EXPIRY,
		Issuer: cfg.JWT_ISSUER,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	var bruteForceProtection *middleware.BruteForceProtection
	var otpThrottle *middleware.OTPThrottle
	if deps.Redis != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(deps.Redis)
		otpThrottle = middleware.NewOTPThrottle(deps.Redis, otpRequestLimit, otpRequestWindow)
	} else {
		log.Println("Warning: Redis unavailable. Brute force protection and OTP throttling are disabled.")
	}

	// Initialize auth middleware with DB for blacklist checking
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Services
	notifier := services.NewNotificationService(db, deps.Mailer)
	signupService := services.NewSignupService(db, notifier, cfg.OTP_TTL)
	accountService := services.NewAccountService(db, jwtManager, notifier, cfg.FRONTEND_URL)
	enrollmentService := services.NewEnrollmentService(db, deps.Gateway, notifier, cfg.RAZORPAY_SECRET)
	contentService := services.NewContentService(db, deps.Uploader, cfg.MEDIA_FOLDER)
	ratingService := services.NewRatingService(db)
	profileService := services.NewProfileService(db, deps.Uploader, cfg.MEDIA_FOLDER)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(signupService, accountService, bruteForceProtection, cfg.GO_ENV == "production")
	paymentHandler := payment_handlers.NewPaymentHandler(enrollmentService)
	courseHandler := course_handlers.NewCourseHandler(contentService, ratingService)
	profileHandler := profile_handlers.NewProfileHandler(profileService)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    cfg.ALLOWED_ORIGINS,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")

	if otpThrottle != nil {
		authGroup.Post("/sendotp", otpThrottle.Limit(), authHandler.SendOTP)
	} else {
		authGroup.Post("/sendotp", authHandler.SendOTP)
	}
	authGroup.Post("/signup", authHandler.Signup)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/reset-password-token", authHandler.ResetPasswordToken)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/changepassword", authMiddleware.Required(), authHandler.ChangePassword)

	// Payment routes (students only)
	paymentGroup := api.Group("/payment", authMiddleware.Required(), middleware.RequireStudent())
	paymentGroup.Post("/capturePayment", paymentHandler.CapturePayment)
	paymentGroup.Post("/verifyPayment", paymentHandler.VerifyPayment)
	paymentGroup.Post("/sendPaymentSuccessEmail", paymentHandler.SendPaymentSuccessEmail)

	// Course routes
	courseGroup := api.Group("/course")

	instructorOnly := []fiber.Handler{authMiddleware.Required(), middleware.RequireInstructor()}
	courseGroup.Post("/addSection", append(instructorOnly, courseHandler.CreateSection)...)
	courseGroup.Post("/updateSection", append(instructorOnly, courseHandler.UpdateSection)...)
	courseGroup.Post("/deleteSection", append(instructorOnly, courseHandler.DeleteSection)...)
	courseGroup.Post("/addSubSection", append(instructorOnly, courseHandler.CreateSubSection)...)
	courseGroup.Post("/updateSubSection", append(instructorOnly, courseHandler.UpdateSubSection)...)
	courseGroup.Post("/deleteSubSection", append(instructorOnly, courseHandler.DeleteSubSection)...)

	courseGroup.Post("/createRating", authMiddleware.Required(), middleware.RequireStudent(), courseHandler.CreateRating)
	courseGroup.Get("/getAverageRating", courseHandler.GetAverageRating)
	courseGroup.Get("/getReviews", courseHandler.GetAllRatings)
	courseGroup.Get("/getCourseReviews", courseHandler.GetCourseReviews)

	// Registered last so the static paths above win
	courseGroup.Get("/:courseId", courseHandler.GetCourseDetails)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Delete("/deleteProfile", profileHandler.DeleteAccount)
	profileGroup.Put("/updateProfile", profileHandler.UpdateProfile)
	profileGroup.Get("/getUserDetails", profileHandler.GetAllUserDetails)
	profileGroup.Get("/getEnrolledCourses", profileHandler.GetEnrolledCourses)
	profileGroup.Put("/updateDisplayPicture", profileHandler.UpdateDisplayPicture)
	profileGroup.Get("/instructorDashboard", middleware.RequireInstructor(), profileHandler.InstructorDashboard)

	log.Printf("Routes registered (CORS origins: %s)", strings.TrimSpace(cfg.ALLOWED_ORIGINS))
}
