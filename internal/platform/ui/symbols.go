// internal/platform/ui/symbols.go
package ui

// Icons para la cabecera y el resumen
var (
	IconTarget    = "🎯"
	IconWordlist  = "📜"
	IconWorkers   = "⚙️"
	IconResolvers = "🛰"
	IconOutput    = "💾"
	IconWildcard  = "✱"
	IconTime      = "⏱"
	IconStats     = "📊"
)

// Separadores
var (
	SeparatorHeavy = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	SeparatorLight = "────────────────────────────────────────────"
)
