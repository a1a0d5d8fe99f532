package main

import (
	"fmt"
	"net/http"

	"github.com/lojaops/commission-backend-go/internal/config"
	appHTTP "github.com/lojaops/commission-backend-go/internal/handler/http"
	"github.com/lojaops/commission-backend-go/internal/pkg/database"
	"github.com/lojaops/commission-backend-go/internal/pkg/jwt"
	"github.com/lojaops/commission-backend-go/internal/repository/postgresql"
	commissionService "github.com/lojaops/commission-backend-go/internal/service/commission"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	commissionRepo := postgresql.NewCommissionRepository(db)
	auditLogRepo := postgresql.NewAuditLogRepository(db)
	productRepo := postgresql.NewProductRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	commissionSvc := commissionService.NewCommissionService(db, commissionRepo, auditLogRepo, productRepo)

	commissionHandler := appHTTP.NewCommissionHandler(commissionSvc)

	router := appHTTP.NewRouter(
		JWTService,
		commissionHandler,
		cfg.App.Env,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
