package system

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/config"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/keyring"
)

type ConfigCmd struct {
	Show         ConfigShowCmd         `cmd:"" help:"Show the current configuration." default:"1"`
	Set          ConfigSetCmd          `cmd:"" help:"Change a configuration value."`
	SetAPIKey    ConfigSetAPIKeyCmd    `cmd:"" name:"set-api-key" help:"Store the coach API key in the OS keyring."`
	DeleteAPIKey ConfigDeleteAPIKeyCmd `cmd:"" name:"delete-api-key" help:"Remove the coach API key from the OS keyring."`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	data, err := yaml.Marshal(ctx.Settings())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if ctx.ConfigPath != "" {
		fmt.Printf("# %s\n", ctx.ConfigPath)
	}
	fmt.Print(string(data))

	key, source, err := keyring.ResolveAPIKey()
	if err != nil {
		fmt.Println("\nCoach API key: not set")
		return nil
	}
	fmt.Printf("\nCoach API key: %s (from %s)\n", keyring.Mask(key), source)
	return nil
}

type ConfigSetCmd struct {
	Key   string `arg:"" enum:"timezone,mood-window-days,completion-window-days,coach-provider,coach-model,coach-timeout,coach-max-attempts,server-addr,server-origins" help:"Setting to change."`
	Value string `arg:"" help:"New value."`
}

func (c *ConfigSetCmd) Run(ctx *cli.Context) error {
	if ctx.ConfigPath == "" {
		return fmt.Errorf("no config file path set")
	}

	cfg := *ctx.Settings()
	if err := applySetting(&cfg, c.Key, c.Value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := config.Save(ctx.ConfigPath, &cfg); err != nil {
		return err
	}

	ctx.Config = &cfg
	fmt.Printf("✓ %s set to %s\n", c.Key, c.Value)
	return nil
}

func applySetting(cfg *config.Config, key, value string) error {
	value = strings.TrimSpace(value)

	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, apperrors.Invalid("%s must be a number, got %q", key, value)
		}
		return n, nil
	}

	var err error
	switch key {
	case "timezone":
		cfg.Timezone = value
	case "mood-window-days":
		cfg.MoodWindowDays, err = atoi()
	case "completion-window-days":
		cfg.CompletionWindowDays, err = atoi()
	case "coach-provider":
		cfg.Coach.Provider = strings.ToLower(value)
	case "coach-model":
		cfg.Coach.Model = value
	case "coach-timeout":
		cfg.Coach.TimeoutSeconds, err = atoi()
	case "coach-max-attempts":
		cfg.Coach.MaxAttempts, err = atoi()
	case "server-addr":
		cfg.Server.Addr = value
	case "server-origins":
		var origins []string
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	default:
		return apperrors.Invalid("unknown setting %q", key)
	}
	return err
}

type ConfigSetAPIKeyCmd struct {
	Key string `arg:"" optional:"" help:"API key. Prompted for when omitted."`
}

func (c *ConfigSetAPIKeyCmd) Run(ctx *cli.Context) error {
	key := c.Key
	if key == "" {
		err := huh.NewInput().
			Title("Coach API key").
			EchoMode(huh.EchoModePassword).
			Value(&key).
			Run()
		if err != nil {
			return err
		}
	}

	if err := keyring.SetAPIKey(key); err != nil {
		return err
	}
	fmt.Println("✓ API key stored successfully in OS keyring")
	return nil
}

type ConfigDeleteAPIKeyCmd struct{}

func (c *ConfigDeleteAPIKeyCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return err
	}
	fmt.Println("✓ API key removed from OS keyring")
	return nil
}
