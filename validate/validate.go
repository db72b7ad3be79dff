// Command validate provides a small CLI that validates the mission presets
// (JSON, YAML or TOML) in the ../configs directory. It checks:
//   - the file decodes and passes engine validation after defaults are applied
//   - a target is always placed
//   - the largest draw fits on the board
//   - glyph overrides name known kinds and stay distinguishable
//   - the preview lasts long enough for the dogs to move
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/t1000mission/game/config"
	"github.com/wricardo/mcp-training/t1000mission/game/engine"
)

// crowdedDensity is the share of occupied cells above which routes get rare
const crowdedDensity = 0.5

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	mission, err := config.LoadFile(filePath)
	if err != nil {
		result.fail("Failed to load preset: %v", err)
		return result
	}

	validatePlayability(mission, &result)
	if result.Valid {
		minDensity, maxDensity := mission.Density()
		result.info("✓ %q: board %dx%d, %d instruction slots", mission.Name, mission.BoardSize, mission.BoardSize, mission.InstructionSlots)
		result.info("✓ density %.0f%%-%.0f%%", minDensity*100, maxDensity*100)
		if maxDensity > crowdedDensity {
			result.info("⚠ more than %.0f%% of the board may be occupied; routes will be rare", crowdedDensity*100)
		}
	}
	return result
}

// validatePlayability checks what engine validation accepts but makes a bad mission
func validatePlayability(mission *engine.MissionConfig, result *ValidationResult) {
	targets := 0
	maxTotal := 0
	for _, spec := range mission.Items {
		if spec.Kind == engine.Target {
			targets += spec.Min
		}
		maxTotal += spec.Max
	}
	if targets == 0 {
		result.fail("No target is guaranteed: set min >= 1 for kind 'target'")
	}

	cells := mission.BoardSize * mission.BoardSize
	if maxTotal > cells {
		result.fail("Up to %d items may be drawn but the board only has %d cells", maxTotal, cells)
	}

	validateGlyphs(mission, result)

	t := mission.Timings
	if t.PreviewDurationMS < t.TickIntervalMS {
		result.fail("preview_duration_ms (%d) is shorter than one dog tick (%d)", t.PreviewDurationMS, t.TickIntervalMS)
	}
}

// validateGlyphs rejects overrides for unknown kinds and glyphs shared by two kinds
func validateGlyphs(mission *engine.MissionConfig, result *ValidationResult) {
	keys := make([]string, 0, len(mission.Glyphs))
	for key := range mission.Glyphs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !engine.Kind(key).Valid() {
			result.fail("Glyph override for unknown kind '%s'", key)
		}
	}

	owner := make(map[string]engine.Kind)
	for _, kind := range engine.Kinds {
		glyph := mission.Glyph(kind)
		if glyph == engine.ExplosionGlyph {
			result.fail("Kind '%s' uses the explosion glyph", kind)
			continue
		}
		if other, taken := owner[glyph]; taken {
			result.fail("Kinds '%s' and '%s' share the glyph %s", other, kind, glyph)
			continue
		}
		owner[glyph] = kind
	}
}

// presetFiles lists every preset in dir
func presetFiles(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// main scans ../configs (or the directory given as first argument) and
// validates each preset, printing a concise report and exiting with non-zero
// status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := presetFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
