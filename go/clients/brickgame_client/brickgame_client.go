package brickgame_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/brickgame/go/clients"
	"github.com/mcdev12/brickgame/go/internal/models"
)

// Client talks to the brick game server's REST API
type Client struct {
	*clients.BaseClient
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// ListGames returns the catalogue used to populate the selection menu
func (c *Client) ListGames(ctx context.Context) ([]models.GameInfo, error) {
	body, err := c.Get(ctx, GamesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	var games []models.GameInfo
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("failed to unmarshal games: %w, raw response: %s", err, string(body))
	}
	return games, nil
}

// ChooseGame starts a server-side session for the game id
func (c *Client) ChooseGame(ctx context.Context, id int) error {
	if _, err := c.Post(ctx, fmt.Sprintf("%s/%d", GamesEndpoint, id), nil); err != nil {
		return fmt.Errorf("failed to choose game %d: %w", id, err)
	}
	return nil
}

func (c *Client) GetState(ctx context.Context) (*models.BoardSnapshot, error) {
	body, err := c.Get(ctx, StateEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	var state models.BoardSnapshot
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

func (c *Client) GetStatus(ctx context.Context) (*models.StatusSnapshot, error) {
	body, err := c.Get(ctx, StatusEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	var status models.StatusSnapshot
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return &status, nil
}

func (c *Client) SubmitAction(ctx context.Context, action models.UserAction) error {
	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to marshal action: %w", err)
	}

	if _, err := c.Post(ctx, ActionsEndpoint, bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("failed to submit action %s: %w", action.ID, err)
	}
	return nil
}
