// Package config discovers and loads the optional YAML defaults file used
// by cmd/filelockctl. The lock engine itself (internal/filelock) never
// reads a config file; every setting flows through explicit Options.
// This package exists solely to give the CLI a place to keep its own
// defaults (stale/update intervals, audit log directory) without having to
// repeat flags on every invocation.
//
// Discovery precedence:
// 1. FILELOCKD_CONFIG environment variable (explicit path).
// 2. Git common dir (for worktree support): <git-common-dir>/filelockd.yml.
// 3. .filelockd.yml in the current working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "FILELOCKD_CONFIG"
	fileName      = ".filelockd.yml"
)

// getwdFn is a seam for testing the error path of os.Getwd.
var getwdFn = os.Getwd

// DiscoveryMethod indicates how the config path was discovered.
type DiscoveryMethod int

const (
	MethodEnvVar DiscoveryMethod = iota
	MethodGit
	MethodLocalDir
)

func (m DiscoveryMethod) String() string {
	switch m {
	case MethodEnvVar:
		return "env"
	case MethodGit:
		return "git"
	case MethodLocalDir:
		return "local"
	default:
		return "unknown"
	}
}

// Settings holds persistent CLI defaults loaded from a YAML config file.
type Settings struct {
	Stale        time.Duration `yaml:"stale"`
	Update       time.Duration `yaml:"update"`
	Realpath     *bool         `yaml:"realpath,omitempty"`
	AuditLogDir  string        `yaml:"audit_log_dir,omitempty"`
	SentinelPath string        `yaml:"sentinel_path,omitempty"`
}

// Find locates the config file using the documented precedence.
func Find() (string, error) {
	path, _, err := FindWithMethod()
	return path, err
}

// FindWithMethod locates the config file and reports which method was used.
func FindWithMethod() (string, DiscoveryMethod, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return envPath, MethodEnvVar, nil
	}

	if gitRoot, err := findGitCommonDir(); err == nil {
		return filepath.Join(gitRoot, "filelockd.yml"), MethodGit, nil
	}

	cwd, err := getwdFn()
	if err != nil {
		return "", MethodLocalDir, err
	}
	return filepath.Join(cwd, fileName), MethodLocalDir, nil
}

func findGitCommonDir() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--git-common-dir")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	gitDir := strings.TrimSpace(string(out))

	if !filepath.IsAbs(gitDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		gitDir = filepath.Join(cwd, gitDir)
	}
	return gitDir, nil
}

// LoadSettings reads a YAML config file into Settings. If the file does
// not exist, it returns zero-value Settings and nil error, since the CLI's
// built-in defaults are a legitimate configuration on their own.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &s, nil
}
