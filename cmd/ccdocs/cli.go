package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/chrisboden/ccdocs"
	"github.com/chrisboden/ccdocs/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *ccdocs.Config
	Files  ccdocs.ReferenceStore
	Index  ccdocs.IndexDocument
	Syncer *crawl.Syncer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Validate    bool          `help:"Only validate the index document against existing files"`
	UpdateSkill bool          `name:"update-skill" help:"Append unreferenced files to the index document"`
	SkillDir    string        `name:"skill-dir" env:"CCDOCS_SKILL_DIR" default:"." help:"Skill directory holding the index document and references"`
	Config      string        `name:"config" env:"CCDOCS_CONFIG" help:"YAML configuration file"`
	Timeout     time.Duration `help:"Per-request timeout (overrides the configuration)"`
	LogLevel    string        `name:"log-level" enum:"debug,info,warn,error" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat   string        `name:"log-format" enum:"text,json" default:"text" help:"Log format (text, json)"`
}
