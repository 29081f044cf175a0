// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package wayfinder

import (
	"github.com/AleutianAI/wayfinder/services/wayfinder/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RegisterRoutes registers all wayfinder routes with the router.
//
// Description:
//
//	Registers all /v1/wayfinder/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	GET /v1/wayfinder/health - Health check
//	GET /v1/wayfinder/ready - Readiness check
//	GET /v1/wayfinder/stats - Graph statistics
//	GET /v1/wayfinder/resolve?q=&choice= - Rank and resolve a topic name
//	GET /v1/wayfinder/path?from=&to= - Shortest hyperlink path
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	wayfinder := rg.Group("/wayfinder")
	{
		// Health checks
		wayfinder.GET("/health", handlers.HandleHealth)
		wayfinder.GET("/ready", handlers.HandleReady)

		// Queries
		wayfinder.GET("/stats", handlers.HandleStats)
		wayfinder.GET("/resolve", handlers.HandleResolve)
		wayfinder.GET("/path", handlers.HandlePath)
	}
}

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// ServiceName names the otelgin server spans.
	ServiceName string

	// RateLimit is the sustained request rate. Zero disables limiting.
	RateLimit float64

	// RateBurst is the token bucket size. Zero uses RateLimit.
	RateBurst int

	// Metrics records HTTP instruments. Nil disables request metrics.
	Metrics *telemetry.Metrics
}

// NewRouter builds the gin engine with middleware and every route.
//
// /metrics is mounted when telemetry.Init installed the Prometheus
// exporter.
func NewRouter(cfg RouterConfig, handlers *Handlers) *gin.Engine {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "wayfinder"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(RequestID())
	if cfg.Metrics != nil {
		router.Use(Metrics(cfg.Metrics))
	}

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	v1 := router.Group("/v1")
	v1.Use(RateLimit(cfg.RateLimit, cfg.RateBurst, cfg.Metrics))
	RegisterRoutes(v1, handlers)
	return router
}
