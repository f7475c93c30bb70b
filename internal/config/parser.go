// This file implements the file-level parser entry points.

package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Parser reads, executes and validates configuration scripts.
type Parser struct {
	lua *LuaConfigParser
}

// NewParser creates a Parser with a fresh Lua runtime.
func NewParser() (*Parser, error) {
	lua, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}
	return &Parser{lua: lua}, nil
}

// Lua returns the underlying Lua parser.
func (p *Parser) Lua() *LuaConfigParser { return p.lua }

// ParseFile reads and parses the configuration file at path.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse executes content, expands environment variables in string settings
// and validates the result.
func (p *Parser) Parse(content []byte) (*Config, error) {
	cfg, err := p.lua.Parse(content)
	if err != nil {
		return nil, err
	}
	ExpandEnvConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseFromFS reads and parses a configuration file from fsys.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}
	return p.Parse(content)
}

// ParseReader parses configuration from r.
func (p *Parser) ParseReader(r io.Reader) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return p.Parse(content)
}

// Close releases resources associated with the parser.
func (p *Parser) Close() error {
	if p.lua != nil {
		return p.lua.Close()
	}
	return nil
}
