package diagrams

import (
	"time"

	"github.com/charmbracelet/log"
)

// Rendering modes.
const (
	// ModePreRender renders diagrams to image files at build time.
	ModePreRender = "pre-render"
	// ModeRuntime embeds diagram source for in-browser rendering.
	ModeRuntime = "runtime"
)

// Artifact formats the mermaid CLI can produce from a path extension.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Defaults applied when a key is absent from book.toml or invalid.
const (
	DefaultCommand       = "mmdc"
	DefaultRenderTimeout = 2 * time.Minute
)

// Keys under [preprocessor.diagrams] in book.toml.
const (
	keyRenderMode    = "render-mode"
	keyCommand       = "mmdc-cmd"
	keyOutputFormat  = "output-format"
	keyEnableCache   = "enable-cache"
	keyRenderTimeout = "render-timeout"
)

// Config is the resolved preprocessor configuration. Zero value is not
// usable; start from DefaultConfig or ResolveConfig.
type Config struct {
	// Mode is ModePreRender or ModeRuntime.
	Mode string
	// Command is the renderer executable, resolved via PATH.
	Command string
	// Format is the artifact format, FormatSVG or FormatPNG.
	Format string
	// CacheEnabled reuses artifacts across runs and removes stale ones.
	CacheEnabled bool
	// RenderTimeout bounds a single render; zero disables the limit.
	RenderTimeout time.Duration
}

// DefaultConfig returns the configuration used when book.toml carries no
// [preprocessor.diagrams] table.
func DefaultConfig() Config {
	return Config{
		Mode:          ModePreRender,
		Command:       DefaultCommand,
		Format:        FormatSVG,
		CacheEnabled:  true,
		RenderTimeout: DefaultRenderTimeout,
	}
}

// ResolveConfig builds a Config from the preprocessor's book.toml table as
// mdbook hands it over. A nil table yields DefaultConfig. Configuration alone
// can never fail a build: every invalid or mistyped value falls back to its
// default with a warning naming the accepted values.
func ResolveConfig(table map[string]any, logger *log.Logger) Config {
	cfg := DefaultConfig()
	if table == nil {
		return cfg
	}

	if v, ok := table[keyRenderMode]; ok {
		switch s, _ := v.(string); s {
		case ModePreRender, ModeRuntime:
			cfg.Mode = s
		default:
			logger.Warn("invalid render-mode, falling back",
				"value", v, "fallback", cfg.Mode, "accepted", "pre-render, runtime")
		}
	}

	if v, ok := table[keyCommand]; ok {
		if s, isString := v.(string); isString && s != "" {
			cfg.Command = s
		} else {
			logger.Warn("invalid mmdc-cmd, falling back",
				"value", v, "fallback", cfg.Command, "accepted", "a non-empty command")
		}
	}

	if v, ok := table[keyOutputFormat]; ok {
		switch s, _ := v.(string); s {
		case FormatSVG, FormatPNG:
			cfg.Format = s
		default:
			logger.Warn("invalid output-format, falling back",
				"value", v, "fallback", cfg.Format, "accepted", "svg, png")
		}
	}

	if v, ok := table[keyEnableCache]; ok {
		if b, isBool := v.(bool); isBool {
			cfg.CacheEnabled = b
		} else {
			logger.Warn("invalid enable-cache, falling back",
				"value", v, "fallback", cfg.CacheEnabled, "accepted", "true, false")
		}
	}

	if v, ok := table[keyRenderTimeout]; ok {
		if d, valid := timeoutValue(v); valid {
			cfg.RenderTimeout = d
		} else {
			logger.Warn("invalid render-timeout, falling back",
				"value", v, "fallback", cfg.RenderTimeout.String(),
				"accepted", "a duration like 90s or 2m, 0 disables the limit")
		}
	}

	return cfg
}

// timeoutValue parses a render-timeout table value. mdbook passes config
// through as JSON, so durations arrive as strings.
func timeoutValue(v any) (time.Duration, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
