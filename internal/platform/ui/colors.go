// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta
var (
	// EmberOrange cabeceras y elementos principales
	EmberOrange = pterm.NewRGB(255, 107, 53)

	// InfernoRed errores
	InfernoRed = pterm.NewRGB(215, 38, 56)

	// MoltenGold wildcard y advertencias
	MoltenGold = pterm.NewRGB(255, 182, 39)

	// AshGray texto secundario
	AshGray = pterm.NewRGB(120, 120, 120)

	// GhostCyan hallazgos confirmados
	GhostCyan = pterm.NewRGB(0, 206, 209)
)

// Estilos preconfigurados
var (
	StylePrimary   = EmberOrange.ToRGBStyle()
	StyleSuccess   = GhostCyan.ToRGBStyle()
	StyleWarning   = MoltenGold.ToRGBStyle()
	StyleError     = InfernoRed.ToRGBStyle()
	StyleSecondary = AshGray.ToRGBStyle()
)
