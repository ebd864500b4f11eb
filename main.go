// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/VA7DBI/userauthAPI/auth"
	"github.com/VA7DBI/userauthAPI/config"
	_ "github.com/VA7DBI/userauthAPI/docs"
	"github.com/VA7DBI/userauthAPI/middleware"
	"github.com/VA7DBI/userauthAPI/session"
	"github.com/VA7DBI/userauthAPI/token"
	"github.com/VA7DBI/userauthAPI/users"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	configFile = flag.String("config", "config.yaml", "Path to configuration file")
)

// @title           User Auth API
// @version         1.0
// @description     Account registration, login, bearer-token sessions, and logout revocation.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("jwt.secret must be set in %s", *configFile)
	}

	codec, err := token.NewCodec(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}

	userStore, err := users.NewPostgresStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize user store: %v", err)
	}
	defer userStore.Close()

	revocations, stopSweeper, err := newRevocationStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize revocation store: %v", err)
	}
	defer stopSweeper()

	authority := session.NewAuthority(userStore, codec, revocations)
	service := NewUserService(authority, cfg)
	gate := middleware.NewTokenAuth(codec, revocations)

	r := gin.Default()

	r.POST("/register", service.RegisterHandler)
	r.POST("/login", service.LoginHandler)
	r.POST("/logout", gate.Handler(), service.LogoutHandler)
	r.GET("/userAuth", gate.Handler(), service.UserAuthHandler)
	r.GET("/profile/:id", gate.Handler(), service.UserByIDHandler)

	// These endpoints remain public
	r.GET("/health", healthCheck)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Add Prometheus metrics endpoint if enabled
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	r.Run(addr)
}

// newRevocationStore wires the blacklist from config: Redis alone, Postgres
// alone, or tiered with Redis in front of Postgres. The returned stop
// function halts the Postgres expiry sweeper when one is running.
func newRevocationStore(cfg *config.Config) (auth.RevocationStore, func(), error) {
	redisEnabled := cfg.Blacklist.Redis.Enabled
	pgEnabled := cfg.Blacklist.Postgres.Enabled

	switch {
	case redisEnabled && pgEnabled:
		fast, err := auth.NewRedisRevocationStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		durable, err := auth.NewPostgresRevocationStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		stop := durable.StartSweeper(time.Duration(cfg.Blacklist.Postgres.SweepMin) * time.Minute)
		return auth.NewTieredRevocationStore(fast, durable), stop, nil

	case redisEnabled:
		store, err := auth.NewRedisRevocationStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case pgEnabled:
		store, err := auth.NewPostgresRevocationStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		stop := store.StartSweeper(time.Duration(cfg.Blacklist.Postgres.SweepMin) * time.Minute)
		return store, stop, nil

	default:
		return nil, nil, fmt.Errorf("no blacklist store enabled; logout cannot revoke tokens")
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// @Summary     Health check endpoint
// @Description Get API health status
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Router      /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(200, HealthResponse{Status: "ok"})
}
