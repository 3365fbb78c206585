// internal/platform/ui/banner.go
package ui

// BannerCompact cabecera para terminales de 80 columnas o más
const BannerCompact = `
     _                       _
  __| |_ __  ___ _ __ __ _  | | _____
 / _' | '_ \/ __| '__/ _' | | |/ / _ \
| (_| | | | \__ \ | | (_| | |   <  __/
 \__,_|_| |_|___/_|  \__,_| |_|\_\___|
`

// BannerMinimal para terminales estrechas
const BannerMinimal = `
dnsrake :: wildcard-aware subdomain brute-force
`

// GetBanner retorna el banner apropiado según el ancho del terminal
func GetBanner(terminalWidth int) string {
	if terminalWidth < 80 {
		return BannerMinimal
	}
	return BannerCompact
}
