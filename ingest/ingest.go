// ABOUTME: Tabular ingestion boundary turning spreadsheet rows into typed records
// ABOUTME: All normalization (header aliases, priority synonyms) happens here

package ingest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/planwise/capacity-planner/models"
)

// Header aliases accepted for process tables. The original planning
// spreadsheets circulate with both Spanish and English headings.
var processColumns = map[string][]string{
	"id":           {"id", "id_proceso", "codigo"},
	"name":         {"name", "nombre"},
	"priority":     {"priority", "prioridad", "nivel_prioridad"},
	"hours":        {"estimated_hours", "tiempo_estimado", "tiempo_estimado_horas", "horas"},
	"capabilities": {"required_capabilities", "capabilities", "habilidades", "skills", "competencias"},
}

// Header aliases accepted for resource tables.
var resourceColumns = map[string][]string{
	"id":           {"id", "id_recurso", "codigo"},
	"name":         {"name", "nombre"},
	"capacity":     {"capacity_hours", "capacidad", "capacidad_maxima", "capacity"},
	"cost":         {"cost_per_hour", "costo_por_hora", "costo"},
	"capabilities": {"capabilities", "habilidades", "skills", "competencias"},
}

// prioritySynonyms maps normalized spreadsheet values onto canonical
// priorities.
var prioritySynonyms = map[string]models.Priority{
	"critical": models.PriorityCritical,
	"critica":  models.PriorityCritical,
	"crítica":  models.PriorityCritical,
	"high":     models.PriorityHigh,
	"alta":     models.PriorityHigh,
	"medium":   models.PriorityMedium,
	"media":    models.PriorityMedium,
	"low":      models.PriorityLow,
	"baja":     models.PriorityLow,
}

// LoadProcesses reads a process table from a .csv or .xlsx file.
func LoadProcesses(path string) ([]models.Process, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	return ParseProcessRows(rows)
}

// LoadResources reads a resource table from a .csv or .xlsx file.
func LoadResources(path string) ([]models.Resource, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	return ParseResourceRows(rows)
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVFile(path)
	case ".xlsx":
		return readXLSXFile(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// ParseProcessRows converts a header row plus data rows into processes.
// Blank rows are skipped; a malformed row aborts with its line number.
func ParseProcessRows(rows [][]string) ([]models.Process, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("process table is empty")
	}
	cols, err := mapColumns(rows[0], processColumns)
	if err != nil {
		return nil, fmt.Errorf("process table: %w", err)
	}

	processes := make([]models.Process, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		line := i + 2 // 1-based, after header

		hours, err := parseFloat(cell(row, cols["hours"]))
		if err != nil {
			return nil, fmt.Errorf("process row %d: estimated hours: %w", line, err)
		}
		priority, err := parsePriorityValue(cell(row, cols["priority"]))
		if err != nil {
			return nil, fmt.Errorf("process row %d: %w", line, err)
		}

		processes = append(processes, models.Process{
			ID:                   strings.TrimSpace(cell(row, cols["id"])),
			Name:                 strings.TrimSpace(cell(row, cols["name"])),
			Priority:             priority,
			EstimatedHours:       hours,
			RequiredCapabilities: splitCapabilities(cell(row, cols["capabilities"])),
		})
	}
	return processes, nil
}

// ParseResourceRows converts a header row plus data rows into resources.
func ParseResourceRows(rows [][]string) ([]models.Resource, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("resource table is empty")
	}
	cols, err := mapColumns(rows[0], resourceColumns)
	if err != nil {
		return nil, fmt.Errorf("resource table: %w", err)
	}

	resources := make([]models.Resource, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		line := i + 2

		capacity, err := parseFloat(cell(row, cols["capacity"]))
		if err != nil {
			return nil, fmt.Errorf("resource row %d: capacity: %w", line, err)
		}
		cost, err := parseFloat(cell(row, cols["cost"]))
		if err != nil {
			return nil, fmt.Errorf("resource row %d: cost per hour: %w", line, err)
		}

		resources = append(resources, models.Resource{
			ID:            strings.TrimSpace(cell(row, cols["id"])),
			Name:          strings.TrimSpace(cell(row, cols["name"])),
			CapacityHours: capacity,
			CostPerHour:   cost,
			Capabilities:  splitCapabilities(cell(row, cols["capabilities"])),
		})
	}
	return resources, nil
}

// mapColumns resolves each expected field to a column index via its aliases.
func mapColumns(header []string, expected map[string][]string) (map[string]int, error) {
	normalized := make(map[string]int, len(header))
	for i, h := range header {
		normalized[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int, len(expected))
	for field, aliases := range expected {
		found := -1
		for _, alias := range aliases {
			if idx, ok := normalized[alias]; ok {
				found = idx
				break
			}
		}
		if found == -1 {
			return nil, fmt.Errorf("missing column for %s (accepted: %s)", field, strings.Join(aliases, ", "))
		}
		cols[field] = found
	}
	return cols, nil
}

func parsePriorityValue(s string) (models.Priority, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if p, ok := prioritySynonyms[norm]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unrecognized priority %q", s)
}

// splitCapabilities splits a tag cell on commas and semicolons and
// normalizes the result.
func splitCapabilities(s string) models.CapabilitySet {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	return models.NewCapabilitySet(parts...)
}

func parseFloat(s string) (float64, error) {
	// Spreadsheets exported with Spanish locales use a decimal comma.
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
