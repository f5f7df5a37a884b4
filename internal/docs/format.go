package docs

import (
	"encoding/json"
	"fmt"
	"strings"
)

type moduleOverview struct {
	Klasse          int        `json:"klasse"`
	Schuljahr       string     `json:"schuljahr"`
	AbgabeHalbjahr1 string     `json:"abgabeHalbjahr1"`
	AbgabeHalbjahr2 string     `json:"abgabeHalbjahr2"`
	Halbjahre       []halfYear `json:"halbjahre"`
}

type halfYear struct {
	Name    string           `json:"name"`
	Faecher []subjectModules `json:"faecher"`
}

type subjectModules struct {
	Fach   string        `json:"fach"`
	Module []moduleEntry `json:"module"`
}

type moduleEntry struct {
	Name         string      `json:"name"`
	Sozialform   string      `json:"sozialform"`
	Zeitraum     string      `json:"zeitraum"`
	Dauer        json.Number `json:"dauer"`
	DauerEinheit string      `json:"dauerEinheit"`
	Ergebnis     string      `json:"ergebnis"`
	Hinweise     []string    `json:"hinweise"`
}

// FormatModuleOverview turns the raw module overview JSON into the text block
// handed to the model. Pure and order-preserving: half-years, subjects and
// modules render in source order.
func FormatModuleOverview(raw []byte) (string, error) {
	var overview moduleOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return "", fmt.Errorf("parsing module overview: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Modulübersicht für Klasse %d\n", overview.Klasse)
	fmt.Fprintf(&b, "Schuljahr: %s\n", overview.Schuljahr)
	fmt.Fprintf(&b, "Abgabetermin 1. Halbjahr: %s\n", overview.AbgabeHalbjahr1)
	fmt.Fprintf(&b, "Abgabetermin 2. Halbjahr: %s\n", overview.AbgabeHalbjahr2)

	for _, hj := range overview.Halbjahre {
		fmt.Fprintf(&b, "\n== %s ==\n", hj.Name)
		for _, fach := range hj.Faecher {
			fmt.Fprintf(&b, "Fach: %s\n", fach.Fach)
			if len(fach.Module) == 0 {
				b.WriteString("- keine Module\n")
				continue
			}
			for _, m := range fach.Module {
				fmt.Fprintf(&b, "- Modul: %s | Sozialform: %s | Zeitraum: %s | Dauer: %s %s | Ergebnis: %s",
					m.Name, m.Sozialform, m.Zeitraum, m.Dauer.String(), m.DauerEinheit, m.Ergebnis)
				if len(m.Hinweise) > 0 {
					fmt.Fprintf(&b, " | Hinweise: %s", strings.Join(m.Hinweise, ", "))
				}
				b.WriteString("\n")
			}
		}
	}

	return b.String(), nil
}
