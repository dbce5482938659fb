package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Dispatcher backends.
const (
	DispatchPrint   = "print"
	DispatchBackend = "backend"
	DispatchDirect  = "direct"
)

// Status stores.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FlowPath string // .hcl files or canvas documents
	// StartNode overrides the flow's declared start node.
	StartNode string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	Dispatch    string
	StatusStore string
	// AudioDir, when set, receives synthesized speech as files.
	AudioDir string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowPath == "" {
		return nil, errors.New("FlowPath is a required configuration field and cannot be empty")
	}
	if cfg.Dispatch == "" {
		cfg.Dispatch = DispatchPrint
	}
	switch cfg.Dispatch {
	case DispatchPrint, DispatchBackend, DispatchDirect:
	default:
		return nil, fmt.Errorf("invalid dispatch %q: must be '%s', '%s' or '%s'", cfg.Dispatch, DispatchPrint, DispatchBackend, DispatchDirect)
	}
	if cfg.StatusStore == "" {
		cfg.StatusStore = StoreMemory
	}
	switch cfg.StatusStore {
	case StoreMemory, StoreRedis:
	default:
		return nil, fmt.Errorf("invalid status store %q: must be '%s' or '%s'", cfg.StatusStore, StoreMemory, StoreRedis)
	}
	return &cfg, nil
}

// Env holds endpoints and secrets read from the environment.
type Env struct {
	BackendURL  string        `envconfig:"BOTGRID_BACKEND_URL" default:"http://localhost:8000"`
	HTTPTimeout time.Duration `envconfig:"BOTGRID_HTTP_TIMEOUT" default:"30s"`

	RobotURL      string        `envconfig:"BOTGRID_ROBOT_URL"`
	RobotEvent    string        `envconfig:"BOTGRID_ROBOT_EVENT" default:"drive"`
	RobotAckEvent string        `envconfig:"BOTGRID_ROBOT_ACK_EVENT"`
	RobotAutoStop time.Duration `envconfig:"BOTGRID_ROBOT_AUTO_STOP" default:"1s"`
	RobotInsecure bool          `envconfig:"BOTGRID_ROBOT_INSECURE"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	ElevenLabsAPIKey string `envconfig:"ELEVENLABS_API_KEY"`
	ElevenLabsVoice  string `envconfig:"ELEVENLABS_VOICE"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	RedisURL string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisTTL time.Duration `envconfig:"BOTGRID_REDIS_TTL" default:"60m"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &env, nil
}
