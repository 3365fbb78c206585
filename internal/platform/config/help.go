// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"
)

const helpText = `
dnsrake - Wildcard-aware DNS subdomain brute-forcer

USAGE:
  dnsrake -t <domain> [options]
  dnsrake <domain> [options]

  If no target is given and stdin is a terminal, dnsrake asks for one.

CORE OPTIONS:
  -t, --target string        Target domain (e.g., example.com)
  -w, --workers int          Simultaneous resolutions (default: 75)
  -n, --chunk-size int       Candidates read per chunk (default: 10000)
  -T, --timeout int          Global timeout in seconds, 0=no timeout (default: 0)

RESOLVER OPTIONS:
  -r, --resolvers list       Upstream servers, host or host:port (default: 1.1.1.1,1.0.0.1)
      --query-timeout float  Per-attempt timeout in seconds (default: 1.0)
      --query-lifetime float Total budget per name across upstreams (default: 1.0)
      --transport string     udp or tcp (default: "udp")
      --rate float           Max queries per second, 0=unlimited (default: 0)
      --breaker-threshold int Consecutive failures before an upstream is skipped (default: 5)
      --breaker-cooldown int  Seconds a skipped upstream stays out (default: 30)
      --cache-size int       Definitive answers kept in memory, 0=disabled (default: 4096)

WORDLIST OPTIONS:
  -W, --wordlist string      Newline-delimited candidate labels (default: "wordlist.txt")
  -e, --encoding string      utf-8, latin-1 or auto (default: "utf-8")

OUTPUT OPTIONS:
  -o, --out string           Output directory (default: ".")
      --db string            Also record hits in this SQLite database (optional)

UI OPTIONS:
  -u, --ui string            auto, pterm, plain or quiet (default: "auto")
  -m, --max-display int      Hits printed live above the progress bar (default: 25)
  -l, --log-level string     debug, info, warn or error (default: "info")

INFO:
  -c, --config string        YAML config file (also DNSRAKE_CONFIG)
  -v, --version              Print version information and exit
  -h, --help                 Show this help message

EXAMPLES:
  Basic scan:
    dnsrake -t example.com -W best-dns-wordlist.txt

  Own resolvers over TCP, throttled:
    dnsrake -t example.com -r 9.9.9.9,8.8.8.8:53 --transport tcp --rate 500

  Legacy latin-1 wordlist, SQLite mirror:
    dnsrake -t example.com -e latin-1 --db recon.db

ENVIRONMENT VARIABLES:
  DNSRAKE_TARGET, DNSRAKE_WORKERS, DNSRAKE_CHUNK_SIZE, DNSRAKE_TIMEOUT
  DNSRAKE_SERVERS=1.1.1.1,9.9.9.9   DNSRAKE_QUERY_TIMEOUT, DNSRAKE_QUERY_LIFETIME
  DNSRAKE_TRANSPORT, DNSRAKE_RATE_LIMIT
  DNSRAKE_BREAKER_THRESHOLD, DNSRAKE_BREAKER_COOLDOWN, DNSRAKE_CACHE_SIZE
  DNSRAKE_WORDLIST, DNSRAKE_WORDLIST_ENCODING
  DNSRAKE_OUTPUT_DIR, DNSRAKE_DB
  DNSRAKE_UI, DNSRAKE_MAX_LIVE_DISPLAY, DNSRAKE_LOG_LEVEL

  Precedence: defaults < config file < environment < flags.

OUTPUT:
  Confirmed names are appended to <out>/found_<target>.txt, one per line.
  The file is never truncated; re-running a scan may append duplicates.

EXIT CODES:
  0 scan completed, 1 fatal error, 2 bad configuration or target, 130 interrupted
`

// PrintHelp prints the custom help message and exits.
func PrintHelp() {
	fmt.Fprint(os.Stdout, helpText)
	os.Exit(0)
}

// PrintVersion prints version information and exits.
func PrintVersion(version, commit, date string) {
	fmt.Printf("dnsrake %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", getGoVersion())
	os.Exit(0)
}

func getGoVersion() string {
	return runtime.Version()
}
