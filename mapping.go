package xlbudget

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CellMapping declares that one source cell on every partner sheet lands in
// a fixed column of the overview sheet. The destination row comes from the
// partner's ordinal, so only the column is declared here.
type CellMapping struct {
	SourceCell string `yaml:"source"`
	DestColumn string `yaml:"column"`
}

// mappingEntry is a CellMapping validated at table construction.
type mappingEntry struct {
	src     CellRef
	destCol string
}

// MappingTable is the static, read-only set of cell mappings shared by all
// partners for one consolidation run.
type MappingTable struct {
	entries []mappingEntry
}

// NewMappingTable validates the mappings and builds a table. Source cells
// must be valid single-cell references; destination columns must be plain
// column names within the sheet bounds.
func NewMappingTable(mappings []CellMapping) (*MappingTable, error) {
	if len(mappings) == 0 {
		return nil, fmt.Errorf("mapping table is empty")
	}
	table := &MappingTable{entries: make([]mappingEntry, 0, len(mappings))}
	for i, m := range mappings {
		src, err := ParseCellRef(m.SourceCell)
		if err != nil {
			return nil, fmt.Errorf("mapping %d: source cell: %w", i, err)
		}
		col := strings.ToUpper(strings.TrimSpace(m.DestColumn))
		idx, err := NameToCol(col)
		if err != nil {
			return nil, fmt.Errorf("mapping %d: destination column: %w", i, err)
		}
		if idx >= MaxCols {
			return nil, fmt.Errorf("mapping %d: destination column %q beyond XFD", i, col)
		}
		table.entries = append(table.entries, mappingEntry{src: src, destCol: col})
	}
	return table, nil
}

// Len returns the number of mapping entries.
func (t *MappingTable) Len() int { return len(t.entries) }

// destCell builds the destination coordinate for an entry on a given
// 1-based overview row.
func (e mappingEntry) destCell(row int) string {
	return e.destCol + strconv.Itoa(row)
}

// Config is the on-disk consolidation configuration: which cells move and
// where each overview sheet places its partner rows.
type Config struct {
	Overviews []OverviewSpec `yaml:"overviews"`
	Mappings  []CellMapping  `yaml:"mappings"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if len(cfg.Overviews) == 0 {
		return nil, fmt.Errorf("config %q: no overview sheets defined", path)
	}
	if _, err := NewMappingTable(cfg.Mappings); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

// Overview returns the spec for the named overview sheet.
func (c *Config) Overview(sheet string) (OverviewSpec, bool) {
	for _, o := range c.Overviews {
		if o.Sheet == sheet {
			return o, true
		}
	}
	return OverviewSpec{}, false
}
