package brickgame_client

const (
	// Base URL
	DefaultBaseURL = "http://localhost:8080"

	// API Endpoints
	GamesEndpoint   = "/api/games"
	StateEndpoint   = "/api/state"
	StatusEndpoint  = "/api/status"
	ActionsEndpoint = "/api/actions"
)
