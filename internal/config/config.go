package config

import "time"

// Config is filled from the environment in app.NewApplication.
// Store is "postgres" or "memory"; Otp.Channel is "email" or "log".
// An empty RedisServer keeps verification challenges in process memory.
type Config struct {
	BaseURL  string
	HttpPort int
	Store    string
	Db       struct {
		Dsn         string
		Automigrate bool
	}
	RedisServer string
	Jwt         struct {
		SecretKey string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
		TLS      bool
	}
	KafkaServers string
	Directory    struct {
		URL           string
		APIKey        string
		LookupTimeout time.Duration
	}
	Otp struct {
		Secret  string
		TTL     time.Duration
		Channel string
	}
	SessionIdleTimeout time.Duration
	SeedDemoData       bool
}
