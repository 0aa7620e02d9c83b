// ABOUTME: MCP resource implementations for the food and exercise log.
// ABOUTME: Provides fitlog://today and fitlog://catalog resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI   = "fitlog://today"
	catalogURI = "fitlog://catalog"
)

func (s *Server) registerResources() {
	// fitlog://today - the server user's entries and totals for today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Log",
		Description: "Food and exercise logged today with nutrient totals",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// fitlog://catalog - every food and exercise that can be logged
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         catalogURI,
		Name:        "Catalog",
		Description: "All catalog foods with reference nutrients, and all exercises",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	view, err := s.day(s.user, models.Today())
	if err != nil {
		return nil, err
	}
	return jsonResource(todayURI, view)
}

func (s *Server) handleCatalogResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	foods, err := s.repo.ListFoods("", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	exercises, err := s.repo.ListExercises("", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	result := struct {
		Foods     []foodView     `json:"foods"`
		Exercises []exerciseView `json:"exercises"`
	}{
		Foods:     make([]foodView, 0, len(foods)),
		Exercises: make([]exerciseView, 0, len(exercises)),
	}
	for _, f := range foods {
		result.Foods = append(result.Foods, newFoodView(f))
	}
	for _, e := range exercises {
		result.Exercises = append(result.Exercises, newExerciseView(e))
	}

	return jsonResource(catalogURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
