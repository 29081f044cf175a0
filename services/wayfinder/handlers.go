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
	"errors"
	"log/slog"
	"net/http"

	"github.com/AleutianAI/wayfinder/services/wayfinder/resolve"
	"github.com/AleutianAI/wayfinder/services/wayfinder/telemetry"
	"github.com/gin-gonic/gin"
)

// Handlers contains the HTTP handlers for the wayfinder API.
type Handlers struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc, logger: svc.logger}
}

func (h *Handlers) requestLogger(c *gin.Context, handler string) *slog.Logger {
	return telemetry.LoggerWithTrace(c.Request.Context(), h.logger).
		With("request_id", getRequestID(c), "handler", handler)
}

// HandleHealth handles GET /v1/wayfinder/health.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/wayfinder/ready.
//
// Response:
//
//	200 OK: ReadyResponse with Ready true
//	503 Service Unavailable: ReadyResponse with Ready false
func (h *Handlers) HandleReady(c *gin.Context) {
	g, err := h.svc.Graph()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{Ready: false})
		return
	}
	c.JSON(http.StatusOK, ReadyResponse{Ready: true, NodeCount: g.NodeCount()})
}

// HandleStats handles GET /v1/wayfinder/stats.
//
// Response:
//
//	200 OK: StatsResponse
//	503 Service Unavailable: graph not loaded
func (h *Handlers) HandleStats(c *gin.Context) {
	stats, err := h.svc.Stats()
	if err != nil {
		h.writeError(c, h.requestLogger(c, "HandleStats"), err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HandleResolve handles GET /v1/wayfinder/resolve.
//
// Description:
//
//	Ranks q against every topic. With choice, applies a 1-based
//	selection from the short list; choice equal to the short-list
//	length plus one means "none of these".
//
// Query Parameters:
//
//	q: Topic name (required)
//	choice: Short-list selection (optional)
//
// Response:
//
//	200 OK: ResolveResponse
//	400 Bad Request: Missing query or invalid selection
//	503 Service Unavailable: graph not loaded
func (h *Handlers) HandleResolve(c *gin.Context) {
	logger := h.requestLogger(c, "HandleResolve")

	var req ResolveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Invalid query parameters", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid query parameters",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Resolve(req.Query, req.Choice)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}

	logger.Debug("Resolved query",
		"query", req.Query,
		"exact", resp.Match.Exact,
		"candidates", len(resp.Match.ShortList))
	c.JSON(http.StatusOK, resp)
}

// HandlePath handles GET /v1/wayfinder/path.
//
// Description:
//
//	Finds the shortest hyperlink path between two exact topic names.
//	"No path" is a successful answer with found=false.
//
// Query Parameters:
//
//	from: Starting topic (required)
//	to: Target topic (required)
//
// Response:
//
//	200 OK: graph.PathResult
//	400 Bad Request: Missing parameters
//	404 Not Found: Unknown topic, with suggestions
//	503 Service Unavailable: graph not loaded
func (h *Handlers) HandlePath(c *gin.Context) {
	logger := h.requestLogger(c, "HandlePath")

	var req PathRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Invalid query parameters", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid query parameters",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	result, err := h.svc.ShortestPath(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}

	logger.Info("Path query",
		"from", req.From,
		"to", req.To,
		"found", result.Found,
		"length", result.Length,
		"visited", result.Visited)
	c.JSON(http.StatusOK, result)
}

// writeError maps service errors to status codes.
func (h *Handlers) writeError(c *gin.Context, logger *slog.Logger, err error) {
	var notFound *NodeNotFoundError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:       err.Error(),
			Code:        "NODE_NOT_FOUND",
			Input:       notFound.Input,
			Suggestions: notFound.Suggestions,
		})
	case errors.Is(err, ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_READY",
		})
	case errors.Is(err, ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "EMPTY_QUERY",
		})
	case errors.Is(err, resolve.ErrInvalidSelection):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_SELECTION",
		})
	default:
		logger.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "INTERNAL",
		})
	}
}
