// cmd/web/main.go
package main

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/AvantikaTIC/depuracionContable/internal/api/handlers"
	"github.com/AvantikaTIC/depuracionContable/internal/api/middleware"
	"github.com/AvantikaTIC/depuracionContable/internal/api/responses"
	"github.com/AvantikaTIC/depuracionContable/internal/config"
	"github.com/AvantikaTIC/depuracionContable/internal/core/auth"
	"github.com/AvantikaTIC/depuracionContable/internal/core/depuracion"
	"github.com/AvantikaTIC/depuracionContable/internal/core/notify"
	"github.com/AvantikaTIC/depuracionContable/internal/core/reporte"
	"github.com/AvantikaTIC/depuracionContable/internal/storage/snapshots"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// initFirestoreClient inicializa el cliente de Firestore para los usuarios.
func initFirestoreClient(ctx context.Context, cfg config.FirestoreConfig) *firestore.Client {
	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.DatabaseID)
	if err != nil {
		log.Fatalf("Error al inicializar cliente Firestore para la base '%s': %v\n", cfg.DatabaseID, err)
	}
	return client
}

func main() {
	responses.InitLogger()
	logger := responses.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuración inválida: %v", err)
	}

	ctx := context.Background()

	firestoreClient := initFirestoreClient(ctx, cfg.Firestore)
	defer firestoreClient.Close()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Error al conectar con la base de datos: %v", err)
	}
	defer pool.Close()

	store := snapshots.NewStore(snapshots.NewDB(pool))
	mailer := notify.NewSMTPMailer(cfg.SMTP)

	depuracionService := depuracion.NewService(store)
	reporteService := reporte.NewService(store, mailer, cfg.Reporte)
	authService := auth.NewService(firestoreClient, []byte(cfg.JWT.Secret))

	depuracionHandler := handlers.NewDepuracionHandler(depuracionService)
	reporteHandler := handlers.NewReporteHandler(reporteService)
	authHandler := handlers.NewAuthHandler(authService)

	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.Login)
		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware([]byte(cfg.JWT.Secret)))
		{
			protected.POST("/depuracion/dian", depuracionHandler.HandleProcesarDian)
			protected.POST("/depuracion/dms", depuracionHandler.HandleProcesarDms)
			protected.POST("/reporte/enviar-correo", reporteHandler.HandleEnviarCorreo)
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	if cfg.Reporte.Intervalo > 0 {
		go programarReporte(ctx, reporteService, cfg.Reporte.Intervalo, logger)
	}

	logger.Info("servidor iniciado", zap.String("puerto", cfg.Server.Port))

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Falla al iniciar el servidor: ", err)
	}
}

// programarReporte envía el resumen periódicamente. El endpoint sigue
// disponible como disparador manual o vía cron externo.
func programarReporte(ctx context.Context, servicio reporte.Service, intervalo time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(intervalo)
	defer ticker.Stop()

	logger.Info("envío periódico de reporte habilitado", zap.Duration("intervalo", intervalo))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := servicio.EnviarReporte(ctx); err != nil {
				logger.Error("falla en envío periódico del reporte", zap.Error(err))
			}
		}
	}
}
