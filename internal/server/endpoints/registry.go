package endpoints

import (
	"github.com/jackzampolin/ocrstudio/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Run endpoints
		&CreateRunEndpoint{},
		&ListRunsEndpoint{},
		&GetRunEndpoint{},
		&RunFileEndpoint{},
		&RunMetricsEndpoint{},

		// History endpoints
		&ListHistoryEndpoint{},
		&ClearHistoryEndpoint{},

		// Document endpoints
		&InspectEndpoint{},
		&ThumbnailEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}

// RunCommands returns endpoints grouped under the "runs" subcommand.
func RunCommands() []api.Endpoint {
	return []api.Endpoint{
		&CreateRunEndpoint{},
		&ListRunsEndpoint{},
		&GetRunEndpoint{},
		&RunFileEndpoint{},
		&RunMetricsEndpoint{},
	}
}

// HistoryCommands returns endpoints grouped under the "history" subcommand.
func HistoryCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListHistoryEndpoint{},
		&ClearHistoryEndpoint{},
	}
}

// DocumentCommands returns endpoints grouped under the "documents" subcommand.
func DocumentCommands() []api.Endpoint {
	return []api.Endpoint{
		&InspectEndpoint{},
		&ThumbnailEndpoint{},
	}
}

// TopLevelCommands returns endpoints whose commands sit directly under "api".
func TopLevelCommands() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}
