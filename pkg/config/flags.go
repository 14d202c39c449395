package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --target
// on both "llmock models" and "llmock chat").
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddBoolFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagListen       = "listen"
	FlagAPIKey       = "api-key"
	FlagAllowOrigins = "allow-origins"
	FlagDelay        = "delay"
	FlagStrategy     = "strategy"
	FlagReply        = "reply"
	FlagModelsFile   = "models-file"
	FlagMCP          = "mcp"
	FlagLogJSON      = "log-json"
	FlagLogFile      = "log-file"
	FlagTarget       = "target"
	FlagModel        = "model"
)

// Flags is the llmock flag registry.
var Flags = FlagSet{
	FlagListen:       {Name: "listen", Shorthand: "l", ViperKey: "server.listen", Description: "Address for the mock server to listen on"},
	FlagAPIKey:       {Name: "api-key", ViperKey: "auth.api_key", Description: "Require this bearer key on /v1 routes (empty disables auth)"},
	FlagAllowOrigins: {Name: "allow-origins", ViperKey: "cors.allow_origins", Description: "Allowed CORS origins, separated by ';'"},
	FlagDelay:        {Name: "delay", ViperKey: "stream.delay", Description: "Pause between streamed deltas (e.g. 10ms, 0s)"},
	FlagStrategy:     {Name: "strategy", ViperKey: "strategy.name", Description: "Reply strategy (mirror, static)"},
	FlagReply:        {Name: "reply", ViperKey: "strategy.reply", Description: "Fixed reply text for the static strategy"},
	FlagModelsFile:   {Name: "models-file", ViperKey: "catalog.models_file", Description: "YAML file with a top-level models list"},
	FlagMCP:          {Name: "mcp", ViperKey: "mcp.enabled", Description: "Serve the MCP endpoint at /mcp"},
	FlagLogJSON:      {Name: "log-json", ViperKey: "log.json", Description: "Write logs as JSON"},
	FlagLogFile:      {Name: "log-file", ViperKey: "log.file", Description: "Also write JSON logs to this file"},
	FlagTarget:       {Name: "target", Shorthand: "t", ViperKey: "client.target", Description: "Base URL of a running llmock server"},
	FlagModel:        {Name: "model", Shorthand: "m", ViperKey: "client.model", Description: "Model ID to request"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
// List keys are joined with ListSeparator.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	if list, ok := v.Get(viperKey).([]string); ok {
		return strings.Join(list, ListSeparator)
	}
	return v.GetString(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	v := viper.New()
	setViperDefaults(v)
	return v.GetBool(viperKey)
}
