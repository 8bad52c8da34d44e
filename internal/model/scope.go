package model

// Source identifies the transport a message arrived on.
type Source string

const (
	SourceTelegram Source = "telegram"
	SourceHTTP     Source = "http"
)

// Scope carries who sent a message and through which transport.
type Scope struct {
	ChatID   int64
	Username string
	Source   Source
}

// Environment names the deployment the service runs in.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)
