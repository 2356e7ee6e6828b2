package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gigevision/camnode/internal/api/models"
	"github.com/gigevision/camnode/internal/config"
)

// registerInventoryRoutes registers the persisted camera inventory
// endpoints. Definitions edited here take effect on the next daemon start;
// open sessions are managed under /api/cameras.
func (s *Server) registerInventoryRoutes() {
	// List definitions
	huma.Register(s.api, huma.Operation{
		OperationID: "list-camera-definitions",
		Method:      http.MethodGet,
		Path:        "/api/config/cameras",
		Summary:     "List Camera Definitions",
		Description: "Get the persisted camera inventory",
		Tags:        []string{"inventory"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.CameraDefinitionListResponse, error) {
		all := s.store.All()

		ids := make([]string, 0, len(all))
		for id := range all {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		definitions := make([]models.CameraDefinitionData, 0, len(ids))
		for _, id := range ids {
			definitions = append(definitions, definitionToAPI(all[id]))
		}

		return &models.CameraDefinitionListResponse{
			Body: models.CameraDefinitionListData{
				Cameras: definitions,
				Count:   len(definitions),
			},
		}, nil
	})

	// Create or replace a definition
	huma.Register(s.api, huma.Operation{
		OperationID: "save-camera-definition",
		Method:      http.MethodPut,
		Path:        "/api/config/cameras/{id}",
		Summary:     "Save Camera Definition",
		Description: "Create or replace a persisted camera definition",
		Tags:        []string{"inventory"},
		Errors:      []int{400, 401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.SaveCameraDefinitionRequest) (*models.CameraDefinitionResponse, error) {
		definition := config.CameraConfig{
			ID:          input.ID,
			Name:        input.Body.Name,
			Device:      input.Body.Device,
			Source:      input.Body.Source,
			Enabled:     input.Body.Enabled,
			BufferCount: input.Body.BufferCount,
			PacketSize:  input.Body.PacketSize,
			QueueLength: input.Body.QueueLength,
		}

		var err error
		if _, exists := s.store.Get(input.ID); exists {
			err = s.store.Update(input.ID, definition)
		} else {
			err = s.store.Add(definition)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to save camera definition", err)
		}

		saved, _ := s.store.Get(input.ID)
		return &models.CameraDefinitionResponse{Body: definitionToAPI(saved)}, nil
	})

	// Delete a definition
	huma.Register(s.api, huma.Operation{
		OperationID: "delete-camera-definition",
		Method:      http.MethodDelete,
		Path:        "/api/config/cameras/{id}",
		Summary:     "Delete Camera Definition",
		Description: "Remove a persisted camera definition",
		Tags:        []string{"inventory"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		ID string `path:"id" example:"lab-cam" doc:"Definition identifier"`
	}) (*struct{}, error) {
		if _, exists := s.store.Get(input.ID); !exists {
			return nil, huma.Error404NotFound("no camera definition " + input.ID)
		}
		if err := s.store.Remove(input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to remove camera definition", err)
		}
		return &struct{}{}, nil
	})
}

// definitionToAPI converts a persisted definition to its API representation.
func definitionToAPI(definition config.CameraConfig) models.CameraDefinitionData {
	data := models.CameraDefinitionData{
		ID:          definition.ID,
		Name:        definition.Name,
		Device:      definition.Device,
		Source:      definition.Source,
		Enabled:     definition.Enabled,
		BufferCount: definition.BufferCount,
		PacketSize:  definition.PacketSize,
		QueueLength: definition.QueueLength,
	}
	if !definition.CreatedAt.IsZero() {
		data.CreatedAt = definition.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !definition.UpdatedAt.IsZero() {
		data.UpdatedAt = definition.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return data
}
