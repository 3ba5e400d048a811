//go:build linux

package materialize

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/profile"
)

// Describes the files written by Materialize
type Result struct {

	// The shell-sourceable environment file
	EnvFile string

	// The translation-layer configuration file, or an empty string if the profile has none
	DXVKConfigFile string

	// The scratch registry import file, which is removed by Cleanup
	RegistryFile string
}

// Removes the scratch registry import file once it has been consumed
func (r *Result) Cleanup() error {
	if r.RegistryFile == "" {
		return nil
	}

	err := os.Remove(r.RegistryFile)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove %s", r.RegistryFile)
	}

	r.RegistryFile = ""
	return nil
}

// Writes a ConfigProfile to disk under the install path
type Materializer struct {
	logger *zap.SugaredLogger
}

func NewMaterializer(logger *zap.SugaredLogger) *Materializer {
	return &Materializer{logger: logger}
}

// Writes the environment file, the translation-layer configuration (if any) and a scratch registry import file.
// The install path must already exist.
func (m *Materializer) Materialize(config profile.ConfigProfile, paths profile.Paths) (*Result, error) {
	result := &Result{}

	// Create the cache directories that the environment file points at
	for _, dir := range []string{paths.StateCacheDir(), paths.ShaderCacheDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create cache directory %s", dir)
		}
	}

	// Write the environment file
	envFile := &bytes.Buffer{}
	if err := WriteEnvFile(envFile, config.EnvVars); err != nil {
		return nil, err
	}
	if err := writeFile(paths.EnvFile(), envFile.Bytes(), 0755); err != nil {
		return nil, err
	}
	result.EnvFile = paths.EnvFile()
	m.logger.Infow("✅ Wrote environment file", "path", result.EnvFile, "variables", len(config.EnvVars))

	// Write the translation-layer configuration if the profile has one
	if config.TranslationLayerConfigPath != "" {
		conf := &bytes.Buffer{}
		if err := WriteDXVKConf(conf, config.DXVKConfig); err != nil {
			return nil, err
		}
		if err := writeFile(config.TranslationLayerConfigPath, conf.Bytes(), 0644); err != nil {
			return nil, err
		}
		result.DXVKConfigFile = config.TranslationLayerConfigPath
		m.logger.Infow("✅ Wrote translation-layer configuration", "path", result.DXVKConfigFile)
	}

	// Write the registry import file into the install path so a sandboxed runtime can read it
	registry := &bytes.Buffer{}
	if err := WriteRegistryFile(registry, config.RegistryEntries); err != nil {
		return nil, err
	}
	scratch, err := os.CreateTemp(paths.InstallPath, ".registry-*.reg")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the registry import file")
	}
	result.RegistryFile = scratch.Name()
	if _, err := scratch.Write(registry.Bytes()); err != nil {
		scratch.Close()
		result.Cleanup()
		return nil, errors.Wrapf(err, "failed to write %s", result.RegistryFile)
	}
	if err := scratch.Close(); err != nil {
		result.Cleanup()
		return nil, errors.Wrapf(err, "failed to write %s", result.RegistryFile)
	}

	m.logger.Debugw("Wrote registry import file", "path", result.RegistryFile, "entries", len(config.RegistryEntries))
	return result, nil
}

// Writes a file and applies the requested mode regardless of the umask
func writeFile(path string, contents []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, contents, mode); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := os.Chmod(path, mode); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", path)
	}

	return nil
}
