package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/oomph-ac/charsim/movement"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for the authority server and its clients.
type Settings struct {
	Server struct {
		// Address is the address the server listens on.
		Address string
		// TickRate is the amount of simulation ticks per second.
		TickRate int
		// InputRate is the amount of inputs a single character may send per second. InputBurst
		// inputs may arrive at once.
		InputRate  float64
		InputBurst int
		// LogLevel is the level of the per-character logs, such as "info" or "debug".
		LogLevel string
		// StatsAddress is the address the statsview page is served on. It is disabled if empty.
		StatsAddress string
	}
	Sentry struct {
		DSN string
	}
	Client struct {
		RenderDelayMs       int64
		StateBufferCapacity int
	}
	Character Character
}

// Character are the default movement parameters of new characters.
type Character struct {
	Height      float32
	Radius      float32
	StepHeight  float32
	SlopeFactor float32

	SpeedMultiplier float32
	RunFactor       float32
	JumpSpeed       float32
	MaxJumps        int

	DistanceBetweenFootsteps float32
	FaceMovementDirection    bool
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	settings := Settings{}
	settings.Server.Address = ":19133"
	settings.Server.TickRate = 20
	settings.Server.InputRate = 30
	settings.Server.InputBurst = 10
	settings.Server.LogLevel = "info"

	settings.Client.RenderDelayMs = 100
	settings.Client.StateBufferCapacity = 128

	p := movement.DefaultParams()
	settings.Character = Character{
		Height:      p.Height,
		Radius:      p.Radius,
		StepHeight:  p.StepHeight,
		SlopeFactor: p.SlopeFactor,

		SpeedMultiplier: p.SpeedMultiplier,
		RunFactor:       p.RunFactor,
		JumpSpeed:       p.JumpSpeed,
		MaxJumps:        p.BaseJumpsMax,

		DistanceBetweenFootsteps: p.DistanceBetweenFootsteps,
		FaceMovementDirection:    p.FaceMovementDirection,
	}
	return settings
}

// TickInterval returns the time between two simulation ticks.
func (s Settings) TickInterval() time.Duration {
	if s.Server.TickRate <= 0 {
		return time.Second / 20
	}
	return time.Second / time.Duration(s.Server.TickRate)
}

// RenderDelay returns the delay remote characters are rendered with.
func (s Settings) RenderDelay() time.Duration {
	return time.Duration(s.Client.RenderDelayMs) * time.Millisecond
}

// Params returns the movement parameters of a new character.
func (c Character) Params() (movement.Params, error) {
	p := movement.DefaultParams()
	p.Height = c.Height
	p.Radius = c.Radius
	p.StepHeight = c.StepHeight
	p.SlopeFactor = c.SlopeFactor
	p.SpeedMultiplier = c.SpeedMultiplier
	p.RunFactor = c.RunFactor
	p.JumpSpeed = c.JumpSpeed
	p.BaseJumpsMax = c.MaxJumps
	p.JumpsMax = c.MaxJumps
	p.JumpsLeft = c.MaxJumps
	p.DistanceBetweenFootsteps = c.DistanceBetweenFootsteps
	p.FaceMovementDirection = c.FaceMovementDirection
	if err := p.Validate(); err != nil {
		return movement.Params{}, fmt.Errorf("invalid character settings: %w", err)
	}
	return p, nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %v", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Fields missing from the file keep their default value.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	return settings, nil
}
