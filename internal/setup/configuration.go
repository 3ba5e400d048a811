//go:build linux

package setup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/installer"
)

// The name of the application, which determines the names of the configuration file and directories
const appName = "wine-gaming-setup"

// The prefix shared by all of our environment variables
const envPrefix = "WINE_GAMING_SETUP_"

// Config represents the available configuration options
type Config struct {

	// The install path, which becomes the prefix root
	InstallPath string

	// The directory that translation-layer archives are cached in
	CacheDir string

	// Specifies whether debug-level log output is enabled
	Verbose bool

	// Treat registry import, library install and translation-layer failures as fatal
	FailOnInstallError bool

	// The upper bound on prefix initialization
	PrefixInitTimeout time.Duration

	// The runtime version below which verification reports a warning
	MinimumRuntimeVersion string

	// The free disk space below which a warning is logged
	MinimumFreeDiskMB uint64

	// Compatibility libraries to install in addition to the profile's list
	ExtraLibraries []string

	// The Direct3D 9/10/11 translation layer
	DXVK installer.TranslationLayer `mapstructure:"dxvk"`

	// The Direct3D 12 translation layer
	VKD3D installer.TranslationLayer `mapstructure:"vkd3d"`
}

// Returns the installer options for the configuration
func (c *Config) InstallerOptions() installer.Options {
	return installer.Options{
		InstallPath:           c.InstallPath,
		CacheDir:              c.CacheDir,
		FailOnInstallError:    c.FailOnInstallError,
		PrefixInitTimeout:     c.PrefixInitTimeout,
		MinimumFreeDiskMB:     c.MinimumFreeDiskMB,
		MinimumRuntimeVersion: c.MinimumRuntimeVersion,
		ExtraLibraries:        c.ExtraLibraries,
		FirstLayer:            c.DXVK,
		SecondLayer:           c.VKD3D,
	}
}

// Sets the defaults and environment bindings for a translation layer's keys
func bindLayer(v *viper.Viper, key string, envName string, defaults installer.TranslationLayer) {
	fields := map[string]string{
		"name":        defaults.Name,
		"version":     defaults.Version,
		"url":         defaults.URL,
		"setupScript": defaults.SetupScript,
	}

	for field, value := range fields {
		v.SetDefault(key+"."+field, value)
	}

	v.BindEnv(key+".version", fmt.Sprint(envPrefix, envName, "_VERSION"))
	v.BindEnv(key+".url", fmt.Sprint(envPrefix, envName, "_URL"))
}

// Expands a leading "~" and makes the path absolute
func expandPath(path string, home string) (string, error) {
	if path == "~" {
		path = home
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[2:])
	}

	return filepath.Abs(path)
}

// LoadConfig loads the configuration data from the runtime environment. A non-empty installPathArg
// (the positional command-line argument) takes precedence over every other source.
func LoadConfig(installPathArg string, logger *zap.SugaredLogger) (*Config, error) {

	// Resolve the directories our defaults are based on
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine the home directory: %w", err)
	}
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		cacheRoot = filepath.Join(home, ".cache")
	}

	// Set our default configuration values
	v := viper.New()
	v.SetDefault("installPath", filepath.Join(home, ".wine_gaming"))
	v.SetDefault("cacheDir", filepath.Join(cacheRoot, appName))
	v.SetDefault("verbose", false)
	v.SetDefault("failOnInstallError", false)
	v.SetDefault("prefixInitTimeout", "60s")
	v.SetDefault("minimumRuntimeVersion", "7.0")
	v.SetDefault("minimumFreeDiskMB", 4096)
	v.SetDefault("extraLibraries", []string{})
	bindLayer(v, "dxvk", "DXVK", installer.DefaultDXVK)
	bindLayer(v, "vkd3d", "VKD3D", installer.DefaultVKD3DProton)

	// The names of our environment variables share a common prefix
	v.BindEnv("installPath", fmt.Sprint(envPrefix, "INSTALL_PATH"))
	v.BindEnv("cacheDir", fmt.Sprint(envPrefix, "CACHE_DIR"))
	v.BindEnv("verbose", fmt.Sprint(envPrefix, "VERBOSE"))
	v.BindEnv("failOnInstallError", fmt.Sprint(envPrefix, "FAIL_ON_INSTALL_ERROR"))
	v.BindEnv("prefixInitTimeout", fmt.Sprint(envPrefix, "PREFIX_INIT_TIMEOUT"))
	v.BindEnv("minimumRuntimeVersion", fmt.Sprint(envPrefix, "MINIMUM_RUNTIME_VERSION"))
	v.BindEnv("minimumFreeDiskMB", fmt.Sprint(envPrefix, "MINIMUM_FREE_DISK_MB"))
	v.BindEnv("extraLibraries", fmt.Sprint(envPrefix, "EXTRA_LIBRARIES"))

	// Check if a config file path was explicitly specified through an environment variable
	configPath, configPathExists := os.LookupEnv(fmt.Sprint(envPrefix, "CONFIG_FILE"))
	if configPathExists {

		// Verify that the specified value is an absolute path
		if !filepath.IsAbs(configPath) {
			return nil, errors.New("configuration file path must be an absolute path")
		}

		// Verify that the specified file exists
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("specified configuration file does not exist: %s", configPath)
		}

		// Use the specified path
		v.SetConfigFile(configPath)

	} else {

		// The default name of our YAML configuration file reflects the application name
		v.SetConfigName(appName)
		v.SetConfigType("yaml")

		// We search for the configuration file in both the user's config directory and the current working directory
		v.AddConfigPath(".")
		if configRoot, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configRoot, appName))
		}
	}

	// Attempt to parse our YAML configuration file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Debugw("Configuration file not found, using configuration values from environment variables")
		} else {
			return nil, err
		}
	} else {
		logger.Debugw("Loaded configuration file", "path", v.ConfigFileUsed())
	}

	// The positional argument overrides every other source
	if installPathArg != "" {
		v.Set("installPath", installPathArg)
	}

	// Load the parsed configuration values into our struct
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}

	// Normalise the paths
	if c.InstallPath, err = expandPath(c.InstallPath, home); err != nil {
		return nil, fmt.Errorf("invalid install path: %w", err)
	}
	if c.CacheDir, err = expandPath(c.CacheDir, home); err != nil {
		return nil, fmt.Errorf("invalid cache directory: %w", err)
	}

	// Validate the values that would otherwise fail late in the run
	if c.PrefixInitTimeout <= 0 {
		return nil, fmt.Errorf("prefixInitTimeout must be positive, got %s", c.PrefixInitTimeout)
	}
	for _, layer := range []installer.TranslationLayer{c.DXVK, c.VKD3D} {
		if err := layer.Validate(); err != nil {
			return nil, err
		}
	}

	// Log the parsed configuration values
	logger.Debugw("Parsed configuration data", "config", c)

	return c, nil
}
