package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gsog/shoplist/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage user settings",
	Long: `View and change the user settings stored in settings.json: language,
theme and the MQTT broker used for synchronisation.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting",
	Long: `Change one setting and save it. Changing a broker setting reconnects.

Keys:
  language       DE, EN or FR
  dark_theme     true or false
  mqtt_server    broker host, optionally host:port
  mqtt_topic     topic the list is published on
  mqtt_username  broker user name (empty for none)
  mqtt_password  broker password; prompted without echo when no value is given`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[General]")
	cmd.Printf("  Language: %s (%s)\n", settings.Language.Description(), settings.Language)
	cmd.Printf("  Dark theme: %s\n", yesNo(settings.DarkTheme))
	cmd.Println()

	cmd.Println("[Sync]")
	cmd.Printf("  Server: %s\n", settings.MQTTServer)
	cmd.Printf("  Topic: %s\n", settings.MQTTTopic)
	if settings.MQTTUsername != "" {
		cmd.Printf("  Username: %s\n", settings.MQTTUsername)
	} else {
		cmd.Printf("  Username: (not set)\n")
	}
	if settings.MQTTPassword != "" {
		cmd.Printf("  Password: %s\n", maskSecret(settings.MQTTPassword))
	} else {
		cmd.Printf("  Password: (not set)\n")
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Settings are valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := strings.ToLower(strings.TrimSpace(args[0]))
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == "mqtt_password":
		cmd.Print("MQTT password: ")
		value = readPassword(cmd.InOrStdin())
		cmd.Println()
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	patch, err := parseSettingsPatch(key, value)
	if err != nil {
		return err
	}
	updated, err := settingsService.Update(patch)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	cmd.Printf("Set %s.\n", key)

	if key == "dark_theme" {
		applyTheme(updated.DarkTheme)
	}
	if strings.HasPrefix(key, "mqtt_") && !offline {
		if err := connectSync(cmd.Context()); err != nil {
			return err
		}
		if syncService != nil {
			cmd.Printf("Broker: %s\n", syncService.State())
		}
	}
	return nil
}

// settingKeys lists the keys accepted by settings set.
var settingKeys = map[string]func(string) (domain.SettingsPatch, error){
	"language": func(v string) (domain.SettingsPatch, error) {
		lang, err := domain.ParseLanguage(v)
		if err != nil {
			return domain.SettingsPatch{}, err
		}
		return domain.SettingsPatch{Language: &lang}, nil
	},
	"dark_theme": func(v string) (domain.SettingsPatch, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return domain.SettingsPatch{}, fmt.Errorf("%w: dark_theme must be true or false", domain.ErrValidation)
		}
		return domain.SettingsPatch{DarkTheme: &b}, nil
	},
	"mqtt_server": func(v string) (domain.SettingsPatch, error) {
		return domain.SettingsPatch{MQTTServer: &v}, nil
	},
	"mqtt_topic": func(v string) (domain.SettingsPatch, error) {
		return domain.SettingsPatch{MQTTTopic: &v}, nil
	},
	"mqtt_username": func(v string) (domain.SettingsPatch, error) {
		return domain.SettingsPatch{MQTTUsername: &v}, nil
	},
	"mqtt_password": func(v string) (domain.SettingsPatch, error) {
		return domain.SettingsPatch{MQTTPassword: &v}, nil
	},
}

// parseSettingsPatch turns a key and its textual value into a patch.
func parseSettingsPatch(key, value string) (domain.SettingsPatch, error) {
	parse, ok := settingKeys[key]
	if !ok {
		keys := make([]string, 0, len(settingKeys))
		for k := range settingKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return domain.SettingsPatch{}, fmt.Errorf("%w: unknown setting %q (one of %s)",
			domain.ErrValidation, key, strings.Join(keys, ", "))
	}
	return parse(value)
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	// Try to read password without echo
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
