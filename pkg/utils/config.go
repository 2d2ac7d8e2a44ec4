package utils

import "os"

type ServerConfig struct {
	HTTPAddr  string
	EventAddr string
	// FrontendOrigin is the single allowed CORS origin; "*" means allow all
	// (dev default, same as the frontend-less deployment).
	FrontendOrigin string
}

func LoadServerConfig() ServerConfig {
	httpAddr := os.Getenv("BOSSHUB_HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	eventAddr := os.Getenv("BOSSHUB_EVENT_ADDR")
	if eventAddr == "" {
		eventAddr = ":7070"
	}

	origin := os.Getenv("FRONTEND_URL")
	if origin == "" {
		origin = "*"
	}

	return ServerConfig{
		HTTPAddr:       httpAddr,
		EventAddr:      eventAddr,
		FrontendOrigin: origin,
	}
}
