package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/liminos-studio/site/internal/prefs"
)

// detectAssetsDir returns a local assets directory when the working
// directory already carries the site's data files.
func detectAssetsDir() string {
	for _, dir := range []string{"assets", "web/assets", "public"} {
		if _, err := os.Stat(dir + "/projects.json"); err == nil {
			return dir
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to liminos! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Default language.
	langPrompt := promptui.Select{
		Label: "Default language",
		Items: []string{"ja", "en"},
	}
	_, lang, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}
	cfg.Defaults.Language = lang

	// 2. Default theme.
	themePrompt := promptui.Select{
		Label: "Default theme",
		Items: []string{string(prefs.ThemeDark), string(prefs.ThemeLight)},
	}
	_, themeStr, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	cfg.Defaults.Theme = prefs.Theme(themeStr)

	// 3. Languages offered.
	languagesPrompt := promptui.Prompt{
		Label:   "Languages offered (comma-separated)",
		Default: strings.Join(cfg.Languages, ","),
	}
	languagesStr, err := languagesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}
	cfg.Languages = splitAndTrim(languagesStr)

	// 4. Assets directory. Blank means the embedded assets.
	detected := detectAssetsDir()
	if detected != "" {
		fmt.Printf("Detected assets directory: %s\n\n", detected)
	}
	assetsPrompt := promptui.Prompt{
		Label:   "Assets directory (blank for built-in)",
		Default: detected,
	}
	assetsDir, err := assetsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}
	cfg.Assets.Dir = strings.TrimSpace(assetsDir)

	// 5. Port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace from
// each element, dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
