// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"dnsrake/internal/core/domain"
	platformerrors "dnsrake/internal/platform/errors"
	"dnsrake/internal/platform/logx"
	"dnsrake/internal/platform/validator"
)

// Config agrupa toda la configuración del run. Se construye una sola vez en main
// y se pasa por valor a cada componente.
type Config struct {
	Core     CoreConfig     `yaml:"core" json:"core"`
	Resolver ResolverConfig `yaml:"resolver" json:"resolver"`
	Wordlist WordlistConfig `yaml:"wordlist" json:"wordlist"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	UI       UIConfig       `yaml:"ui" json:"ui"`

	// Flags de control (no persistidos)
	PrintVersion bool   `yaml:"-" json:"-"`
	ConfigPath   string `yaml:"-" json:"config_path,omitempty"`
}

type CoreConfig struct {
	Target    string `yaml:"target" json:"target"`
	Workers   int    `yaml:"worker_count" json:"worker_count"`
	ChunkSize int    `yaml:"chunk_size" json:"chunk_size"`
	TimeoutS  int    `yaml:"timeout_seconds" json:"timeout_seconds"` // 0 = sin timeout global
}

type ResolverConfig struct {
	Servers          []string `yaml:"upstream_servers" json:"upstream_servers"`
	TimeoutS         float64  `yaml:"query_timeout_seconds" json:"query_timeout_seconds"`
	LifetimeS        float64  `yaml:"query_lifetime_seconds" json:"query_lifetime_seconds"`
	Transport        string   `yaml:"transport" json:"transport"`
	RateLimit        float64  `yaml:"rate_limit" json:"rate_limit"` // qps, 0 = sin límite
	BreakerThreshold int      `yaml:"breaker_threshold" json:"breaker_threshold"`
	BreakerCooldownS int      `yaml:"breaker_cooldown_seconds" json:"breaker_cooldown_seconds"`
	CacheSize        int      `yaml:"cache_size" json:"cache_size"` // 0 = sin cache
}

type WordlistConfig struct {
	Path     string `yaml:"path" json:"path"`
	Encoding string `yaml:"encoding" json:"encoding"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir" json:"dir"`
	DBPath string `yaml:"db_path" json:"db_path"` // vacío = SQLite deshabilitado
}

type UIConfig struct {
	Mode           string `yaml:"mode" json:"mode"`
	MaxLiveDisplay int    `yaml:"max_live_display" json:"max_live_display"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
}

// Valores admitidos.
const (
	TransportUDP = "udp"
	TransportTCP = "tcp"

	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
	EncodingAuto   = "auto"

	UIAuto  = "auto"
	UIPTerm = "pterm"
	UIPlain = "plain"
	UIQuiet = "quiet"
)

const (
	defaultOutputDir = "."
	defaultChunkSize = 10000
	defaultTimeoutS  = 1.0
	defaultCacheSize = 4096
	cacheTTL         = 10 * time.Minute
	envPrefix        = "DNSRAKE_"
	envConfigPath    = envPrefix + "CONFIG"
)

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			Target:    "",
			Workers:   75,
			ChunkSize: defaultChunkSize,
			TimeoutS:  0,
		},
		Resolver: ResolverConfig{
			Servers:          []string{"1.1.1.1", "1.0.0.1"},
			TimeoutS:         defaultTimeoutS,
			LifetimeS:        defaultTimeoutS,
			Transport:        TransportUDP,
			RateLimit:        0,
			BreakerThreshold: 5,
			BreakerCooldownS: 30,
			CacheSize:        defaultCacheSize,
		},
		Wordlist: WordlistConfig{
			Path:     "wordlist.txt",
			Encoding: EncodingUTF8,
		},
		Output: OutputConfig{
			Dir:    defaultOutputDir,
			DBPath: "",
		},
		UI: UIConfig{
			Mode:           UIAuto,
			MaxLiveDisplay: 25,
			LogLevel:       "info",
		},
	}
}

// Load inicializa la configuración a partir de os.Args.
// Orden: defaults -> archivo YAML -> ENV -> FLAGS (flags tienen prioridad).
// --help y --version se resuelven aquí mismo y terminan el proceso.
func Load(version, commit, date string) (Config, error) {
	cfg, showHelp, err := LoadArgs(os.Args[1:])
	if err != nil {
		return cfg, err
	}
	if showHelp {
		PrintHelp()
	}
	if cfg.PrintVersion {
		PrintVersion(version, commit, date)
	}
	return cfg, nil
}

// LoadArgs es Load sin efectos secundarios sobre el proceso.
// El segundo valor indica que se pidió la ayuda.
func LoadArgs(args []string) (Config, bool, error) {
	cfg := DefaultConfig()

	path := findConfigPath(args)
	if path == "" {
		path = getenv(envConfigPath, "")
	}
	if path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			return cfg, false, err
		}
		cfg.ConfigPath = path
	}

	loadFromEnv(&cfg)

	showHelp, err := loadFromFlags(&cfg, args)
	if err != nil {
		return cfg, false, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if showHelp || cfg.PrintVersion {
		return cfg, showHelp, nil
	}

	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, false, err
	}

	return cfg, false, nil
}

// loadFromFile superpone el YAML sobre los valores actuales. Claves desconocidas son error.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open config file %q: %v", domain.ErrInvalidConfig, path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: parse config file %q: %v", domain.ErrInvalidConfig, path, err)
	}
	return nil
}

// loadFromEnv carga configuración desde variables de entorno DNSRAKE_*.
func loadFromEnv(cfg *Config) {
	if v := getenv(envPrefix+"TARGET", ""); v != "" {
		cfg.Core.Target = v
	}
	if v := getenv(envPrefix+"WORKERS", ""); v != "" {
		cfg.Core.Workers = parseInt(v, cfg.Core.Workers)
	}
	if v := getenv(envPrefix+"CHUNK_SIZE", ""); v != "" {
		cfg.Core.ChunkSize = parseInt(v, cfg.Core.ChunkSize)
	}
	if v := getenv(envPrefix+"TIMEOUT", ""); v != "" {
		cfg.Core.TimeoutS = parseInt(v, cfg.Core.TimeoutS)
	}

	// Resolver
	if v := getenv(envPrefix+"SERVERS", ""); v != "" {
		cfg.Resolver.Servers = splitList(v)
	}
	if v := getenv(envPrefix+"QUERY_TIMEOUT", ""); v != "" {
		cfg.Resolver.TimeoutS = parseFloat(v, cfg.Resolver.TimeoutS)
	}
	if v := getenv(envPrefix+"QUERY_LIFETIME", ""); v != "" {
		cfg.Resolver.LifetimeS = parseFloat(v, cfg.Resolver.LifetimeS)
	}
	if v := getenv(envPrefix+"TRANSPORT", ""); v != "" {
		cfg.Resolver.Transport = v
	}
	if v := getenv(envPrefix+"RATE_LIMIT", ""); v != "" {
		cfg.Resolver.RateLimit = parseFloat(v, cfg.Resolver.RateLimit)
	}
	if v := getenv(envPrefix+"BREAKER_THRESHOLD", ""); v != "" {
		cfg.Resolver.BreakerThreshold = parseInt(v, cfg.Resolver.BreakerThreshold)
	}
	if v := getenv(envPrefix+"BREAKER_COOLDOWN", ""); v != "" {
		cfg.Resolver.BreakerCooldownS = parseInt(v, cfg.Resolver.BreakerCooldownS)
	}
	if v := getenv(envPrefix+"CACHE_SIZE", ""); v != "" {
		cfg.Resolver.CacheSize = parseInt(v, cfg.Resolver.CacheSize)
	}

	// Wordlist
	if v := getenv(envPrefix+"WORDLIST", ""); v != "" {
		cfg.Wordlist.Path = v
	}
	if v := getenv(envPrefix+"WORDLIST_ENCODING", ""); v != "" {
		cfg.Wordlist.Encoding = v
	}

	// Output
	if v := getenv(envPrefix+"OUTPUT_DIR", ""); v != "" {
		cfg.Output.Dir = v
	}
	if v := getenv(envPrefix+"DB", ""); v != "" {
		cfg.Output.DBPath = v
	}

	// UI
	if v := getenv(envPrefix+"UI", ""); v != "" {
		cfg.UI.Mode = v
	}
	if v := getenv(envPrefix+"MAX_LIVE_DISPLAY", ""); v != "" {
		cfg.UI.MaxLiveDisplay = parseInt(v, cfg.UI.MaxLiveDisplay)
	}
	if v := getenv(logx.EnvLevel, ""); v != "" {
		cfg.UI.LogLevel = v
	}
}

// loadFromFlags parsea flags de CLI con pflag (long + short).
// Un argumento posicional se acepta como target si no se pasó --target.
func loadFromFlags(cfg *Config, args []string) (bool, error) {
	fs := pflag.NewFlagSet("dnsrake", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	var showHelp bool
	var configPath string

	// Core
	fs.StringVarP(&cfg.Core.Target, "target", "t", cfg.Core.Target, "Target domain")
	fs.IntVarP(&cfg.Core.Workers, "workers", "w", cfg.Core.Workers, "Concurrent resolutions")
	fs.IntVarP(&cfg.Core.ChunkSize, "chunk-size", "n", cfg.Core.ChunkSize, "Candidates per chunk")
	fs.IntVarP(&cfg.Core.TimeoutS, "timeout", "T", cfg.Core.TimeoutS, "Global timeout in seconds (0 = none)")

	// Resolver
	fs.StringSliceVarP(&cfg.Resolver.Servers, "resolvers", "r", cfg.Resolver.Servers, "Upstream DNS servers")
	fs.Float64Var(&cfg.Resolver.TimeoutS, "query-timeout", cfg.Resolver.TimeoutS, "Per-attempt timeout in seconds")
	fs.Float64Var(&cfg.Resolver.LifetimeS, "query-lifetime", cfg.Resolver.LifetimeS, "Per-query lifetime in seconds")
	fs.StringVar(&cfg.Resolver.Transport, "transport", cfg.Resolver.Transport, "udp or tcp")
	fs.Float64Var(&cfg.Resolver.RateLimit, "rate", cfg.Resolver.RateLimit, "Max queries per second (0 = unlimited)")
	fs.IntVar(&cfg.Resolver.BreakerThreshold, "breaker-threshold", cfg.Resolver.BreakerThreshold, "Consecutive failures before skipping an upstream")
	fs.IntVar(&cfg.Resolver.BreakerCooldownS, "breaker-cooldown", cfg.Resolver.BreakerCooldownS, "Seconds an upstream stays skipped")
	fs.IntVar(&cfg.Resolver.CacheSize, "cache-size", cfg.Resolver.CacheSize, "Definitive answers kept in memory (0 = disabled)")

	// Wordlist
	fs.StringVarP(&cfg.Wordlist.Path, "wordlist", "W", cfg.Wordlist.Path, "Wordlist path")
	fs.StringVarP(&cfg.Wordlist.Encoding, "encoding", "e", cfg.Wordlist.Encoding, "utf-8, latin-1 or auto")

	// Output
	fs.StringVarP(&cfg.Output.Dir, "out", "o", cfg.Output.Dir, "Output directory")
	fs.StringVar(&cfg.Output.DBPath, "db", cfg.Output.DBPath, "SQLite mirror path (optional)")

	// UI
	fs.StringVarP(&cfg.UI.Mode, "ui", "u", cfg.UI.Mode, "auto, pterm, plain or quiet")
	fs.IntVarP(&cfg.UI.MaxLiveDisplay, "max-display", "m", cfg.UI.MaxLiveDisplay, "Hits printed live")
	fs.StringVarP(&cfg.UI.LogLevel, "log-level", "l", cfg.UI.LogLevel, "debug, info, warn or error")

	// Info
	fs.StringVarP(&configPath, "config", "c", "", "YAML config file")
	fs.BoolVarP(&cfg.PrintVersion, "version", "v", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return false, err
	}

	if !fs.Changed("target") && fs.NArg() > 0 {
		cfg.Core.Target = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return false, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}

	return showHelp, nil
}

// findConfigPath busca --config/-c antes del parseo completo: el archivo
// debe aplicarse antes que ENV y flags.
func findConfigPath(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return ""
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-c="):
			return strings.TrimPrefix(a, "-c=")
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
	}
	return ""
}

func normalize(c *Config) {
	c.Core.Target = strings.TrimSpace(strings.ToLower(strings.TrimSuffix(strings.TrimSpace(c.Core.Target), ".")))
	if c.Core.Workers < 1 {
		c.Core.Workers = 1
	}
	if c.Core.ChunkSize < 1 {
		c.Core.ChunkSize = defaultChunkSize
	}
	if c.Core.TimeoutS < 0 {
		c.Core.TimeoutS = 0
	}

	servers := make([]string, 0, len(c.Resolver.Servers))
	for _, s := range c.Resolver.Servers {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	c.Resolver.Servers = servers
	if c.Resolver.TimeoutS <= 0 {
		c.Resolver.TimeoutS = defaultTimeoutS
	}
	if c.Resolver.LifetimeS <= 0 {
		c.Resolver.LifetimeS = c.Resolver.TimeoutS
	}
	c.Resolver.Transport = strings.ToLower(strings.TrimSpace(c.Resolver.Transport))
	if c.Resolver.Transport == "" {
		c.Resolver.Transport = TransportUDP
	}
	if c.Resolver.RateLimit < 0 {
		c.Resolver.RateLimit = 0
	}
	if c.Resolver.BreakerCooldownS < 0 {
		c.Resolver.BreakerCooldownS = 0
	}
	if c.Resolver.CacheSize < 0 {
		c.Resolver.CacheSize = 0
	}

	c.Wordlist.Path = strings.TrimSpace(c.Wordlist.Path)
	c.Wordlist.Encoding = normalizeEncoding(c.Wordlist.Encoding)

	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	c.Output.DBPath = strings.TrimSpace(c.Output.DBPath)

	c.UI.Mode = strings.ToLower(strings.TrimSpace(c.UI.Mode))
	if c.UI.Mode == "" {
		c.UI.Mode = UIAuto
	}
	if c.UI.MaxLiveDisplay < 0 {
		c.UI.MaxLiveDisplay = 0
	}
	c.UI.LogLevel = strings.ToLower(strings.TrimSpace(c.UI.LogLevel))
}

func normalizeEncoding(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1
	case "auto":
		return EncodingAuto
	default:
		return strings.ToLower(strings.TrimSpace(v))
	}
}

// Validate comprueba los valores ya normalizados. El target no se valida aquí:
// puede llegar más tarde por el prompt interactivo.
func (c Config) Validate() error {
	var errs []error

	if c.Wordlist.Path == "" {
		errs = append(errs, fmt.Errorf("%w: wordlist path is empty", domain.ErrInvalidConfig))
	}
	if len(c.Resolver.Servers) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one upstream server is required", domain.ErrInvalidConfig))
	}
	for _, s := range c.Resolver.Servers {
		if _, err := validator.NormalizeNameserver(s); err != nil {
			errs = append(errs, fmt.Errorf("%w: upstream %q: %v", domain.ErrInvalidConfig, s, err))
		}
	}
	switch c.Resolver.Transport {
	case TransportUDP, TransportTCP:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown transport %q", domain.ErrInvalidConfig, c.Resolver.Transport))
	}
	switch c.Wordlist.Encoding {
	case EncodingUTF8, EncodingLatin1, EncodingAuto:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown wordlist encoding %q", domain.ErrInvalidConfig, c.Wordlist.Encoding))
	}
	switch c.UI.Mode {
	case UIAuto, UIPTerm, UIPlain, UIQuiet:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown ui mode %q", domain.ErrInvalidConfig, c.UI.Mode))
	}
	if _, ok := logx.LookupLevel(c.UI.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("%w: unknown log level %q", domain.ErrInvalidConfig, c.UI.LogLevel))
	}

	return platformerrors.Join(errs...)
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el timeout global del run.
func (c Config) Timeout() time.Duration {
	if c.Core.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Core.TimeoutS) * time.Second
}

// QueryTimeout devuelve el timeout por intento.
func (r ResolverConfig) QueryTimeout() time.Duration {
	return seconds(r.TimeoutS)
}

// QueryLifetime devuelve el presupuesto total por consulta.
func (r ResolverConfig) QueryLifetime() time.Duration {
	return seconds(r.LifetimeS)
}

func (r ResolverConfig) BreakerCooldown() time.Duration {
	return time.Duration(r.BreakerCooldownS) * time.Second
}

// CacheTTL devuelve cuánto vive una respuesta cacheada.
func (r ResolverConfig) CacheTTL() time.Duration {
	return cacheTTL
}

// Helpers

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
