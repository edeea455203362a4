// Package config loads connection definitions from YAML or TOML files.
//
// A config file looks like:
//
//	version: 1.0.0
//	log_level: info
//	default_connection: widgets-api
//	connections:
//	  - identity: widgets-api
//	    host: api.example.com
//	    port: 443
//	    protocol: https
//	    pathname: /v1
//	    headers:
//	      Authorization: Bearer {{ .ENV.WIDGETS_TOKEN }}
//	    collections:
//	      widgets:
//	        url: /widgets
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/tansive/restadapter/internal/connection"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name looked up in the user config directory.
const DefaultConfigFile = "config.yaml"

// File is the decoded content of a config file.
type File struct {
	Version           string       `mapstructure:"version"`
	LogLevel          string       `mapstructure:"log_level"`
	DefaultConnection string       `mapstructure:"default_connection"`
	Connections       []Connection `mapstructure:"connections"`
}

// Connection is one entry of the connections list.
type Connection struct {
	connection.Config `mapstructure:",squash"`
	Collections       map[string]connection.Collection `mapstructure:"collections"`
}

// DefaultPath returns the default location of the config file, e.g.
// ~/.config/restadapter/config.yaml on Linux.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", ErrReadConfig.MsgErr("failed to get user config directory", err)
	}
	return filepath.Join(configDir, "restadapter", DefaultConfigFile), nil
}

// Load reads, expands and decodes the config file at path. An empty path
// selects DefaultPath. .env files are looked up next to the config file and
// in the working directory.
func Load(path string) (*File, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadConfig.MsgErr("unable to read config file "+path, err)
	}

	envDirs := []string{filepath.Dir(path)}
	if cwd, err := os.Getwd(); err == nil && cwd != filepath.Dir(path) {
		envDirs = append(envDirs, cwd)
	}
	expanded, err := Preprocess(raw, envDirs...)
	if err != nil {
		return nil, err
	}

	f, err := Parse(expanded, formatOf(path))
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("connections", len(f.Connections)).Msg("config loaded")
	return f, nil
}

// Format names a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return Format(strings.TrimPrefix(filepath.Ext(path), "."))
	}
}

// Parse decodes already expanded config content.
func Parse(data []byte, format Format) (*File, error) {
	raw := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, ErrParseConfig.Err(err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, ErrParseConfig.Err(err)
		}
	default:
		return nil, ErrUnsupportedFormat.Msg("unsupported config file format: " + string(format))
	}

	f, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if !IsVersionCompatible(f.Version) {
		return nil, ErrUnsupportedVersion.Msg("unsupported config file version: " + f.Version)
	}
	return f, nil
}

func decode(raw map[string]any) (*File, error) {
	f := &File{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           f,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, ErrDecodeConfig.Err(err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, ErrDecodeConfig.Err(err)
	}
	for i := range f.Connections {
		f.Connections[i].applyDefaults()
	}
	return f, nil
}

// applyDefaults fills fields left out of the file. Headers are not merged:
// a connection that lists headers replaces the default set.
func (c *Connection) applyDefaults() {
	d := connection.DefaultConfig()
	if c.Protocol == "" {
		c.Protocol = d.Protocol
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.UpdateMethod == "" {
		c.UpdateMethod = d.UpdateMethod
	}
	if len(c.Headers) == 0 {
		c.Headers = d.Headers
	}
}

// Connection returns the named connection, or the default connection when
// name is empty. With a single configured connection and no default, that
// connection is returned.
func (f *File) Connection(name string) (*Connection, error) {
	if len(f.Connections) == 0 {
		return nil, ErrNoConnections
	}
	if name == "" {
		name = f.DefaultConnection
	}
	if name == "" {
		if len(f.Connections) == 1 {
			return &f.Connections[0], nil
		}
		return nil, ErrUnknownConnection.Msg("several connections configured; select one with default_connection or --connection")
	}
	for i := range f.Connections {
		if f.Connections[i].Identity == name {
			return &f.Connections[i], nil
		}
	}
	return nil, ErrUnknownConnection.Msg("connection not found in config: " + name)
}

// Register adds every configured connection to reg.
func (f *File) Register(reg *connection.Registry) error {
	for _, c := range f.Connections {
		if err := reg.Register(c.Config, c.Collections); err != nil {
			return err
		}
	}
	return nil
}
