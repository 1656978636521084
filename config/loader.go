package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	regionOverride RegionTable
	regionLock     sync.RWMutex
	regionPath     = "config/regions.json"
)

// LoadRegionTable loads a region table override from file. Missing file is
// not an error: the built-in table stays in effect.
func LoadRegionTable() error {
	regionLock.Lock()
	defer regionLock.Unlock()

	absPath, err := filepath.Abs(regionPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read region config: %v", err)
	}

	var table RegionTable
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse region config: %v", err)
	}

	if _, ok := table[DefaultRegionKey]; !ok {
		return fmt.Errorf("region config must include a %s entry", DefaultRegionKey)
	}

	regionOverride = table
	return nil
}

// ActiveRegionTable returns the loaded override if one exists, otherwise the
// built-in table.
func ActiveRegionTable() RegionTable {
	regionLock.RLock()
	defer regionLock.RUnlock()

	if regionOverride != nil {
		return regionOverride
	}
	return UKRegions
}
