package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"lms-service/internal/db"
	"lms-service/internal/event"
	"lms-service/internal/handlers"
	"lms-service/internal/repository"
	"lms-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)
	defer db.DisconnectMongo()

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "lms_service"
	}

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	r := gin.Default()

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(dbName)

	// Catalog
	courseRepo := repository.NewCourseRepository(database)
	lessonRepo := repository.NewLessonRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	courseService := service.NewCourseService(courseRepo, lessonRepo, quizRepo, publisher)
	lessonService := service.NewLessonService(lessonRepo, courseRepo)
	quizService := service.NewQuizService(quizRepo, courseRepo)
	courseHandler := handlers.NewCourseHandler(courseService)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	quizHandler := handlers.NewQuizHandler(quizService)

	// Enrollments and progress
	enrollmentRepo := repository.NewEnrollmentRepository(database)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, lessonRepo, quizRepo, publisher)
	progressService := service.NewProgressService(enrollmentRepo, courseRepo, lessonRepo, quizRepo)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	progressHandler := handlers.NewProgressHandler(progressService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "LMS API is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public catalog routes
	publicCourse := r.Group("/public/lms/courses")
	{
		publicCourse.GET("/", courseHandler.ListCourses)
		publicCourse.GET("/:id", courseHandler.GetCourse)
		publicCourse.GET("/:id/lessons", lessonHandler.ListLessons)
		publicCourse.GET("/:id/quizzes", quizHandler.ListQuizzes)
	}

	publicLesson := r.Group("/public/lms/lessons")
	{
		publicLesson.GET("/:id", lessonHandler.GetLesson)
	}

	publicQuiz := r.Group("/public/lms/quizzes")
	{
		publicQuiz.GET("/:id", quizHandler.GetQuiz)
	}

	// Admin catalog routes
	adminCatalog := r.Group("/protected/lms")
	adminCatalog.Use(requireUser(), requireAdmin())
	{
		adminCatalog.POST("/courses", courseHandler.CreateCourse)
		adminCatalog.PUT("/courses/:id", courseHandler.UpdateCourse)
		adminCatalog.DELETE("/courses/:id", courseHandler.DeleteCourse)
		adminCatalog.POST("/courses/:id/lessons", lessonHandler.CreateLesson)
		adminCatalog.PUT("/lessons/:id", lessonHandler.UpdateLesson)
		adminCatalog.DELETE("/lessons/:id", lessonHandler.DeleteLesson)
		adminCatalog.POST("/courses/:id/quizzes", quizHandler.CreateQuiz)
		adminCatalog.GET("/quizzes/:id", quizHandler.GetQuizAdmin)
		adminCatalog.PUT("/quizzes/:id", quizHandler.UpdateQuiz)
		adminCatalog.DELETE("/quizzes/:id", quizHandler.DeleteQuiz)
		adminCatalog.GET("/admin/enrollments", enrollmentHandler.ListAllEnrollments)
	}

	// Student enrollment routes
	protectedEnrollment := r.Group("/protected/lms/enrollments")
	protectedEnrollment.Use(requireUser())
	{
		protectedEnrollment.POST("/", enrollmentHandler.Enroll)
		protectedEnrollment.GET("/", enrollmentHandler.ListMyEnrollments)
		protectedEnrollment.GET("/:id", enrollmentHandler.GetEnrollment)
		protectedEnrollment.POST("/:id/lessons/:lessonId/complete", enrollmentHandler.CompleteLesson)
		protectedEnrollment.POST("/:id/quizzes/:quizId/attempt", enrollmentHandler.SubmitQuizAttempt)
	}

	// Progress and analytics routes
	protectedProgress := r.Group("/protected/lms/progress")
	protectedProgress.Use(requireUser())
	{
		protectedProgress.GET("/report", progressHandler.GetReport)
		protectedProgress.GET("/quiz-scores", progressHandler.GetQuizScores)
		protectedProgress.GET("/analytics", progressHandler.GetAnalytics)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	r.Run(":" + port)
}

// requireUser rejects requests missing the identity header set by the
// upstream gateway.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
				"code":    "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-Role") != "admin" {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Admin role required",
				"code":    "ADMIN_ONLY",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
