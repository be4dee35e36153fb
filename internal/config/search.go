// Package config defines the JSON search configuration. All fields are
// pointers so a partial file only overrides what it names; the Get* methods
// supply defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/crossing.report/internal/geom"
)

// SearchConfig is the root configuration for a grid search run.
type SearchConfig struct {
	// ConflictAreas lists the monitored polygons as [x, y] vertex rings,
	// one pedestrian per area.
	ConflictAreas *[][][2]float64 `json:"conflict_areas,omitempty"`

	// AV speed grid.
	AVSpeedMin   *float64 `json:"av_speed_min,omitempty"`
	AVSpeedMax   *float64 `json:"av_speed_max,omitempty"`
	AVSpeedSteps *int     `json:"av_speed_steps,omitempty"`

	// Monte-Carlo trial parameters.
	TrialsPerSpeed    *int     `json:"trials_per_speed,omitempty"`
	PETThreshold      *float64 `json:"pet_threshold_seconds,omitempty"`
	TargetProbability *float64 `json:"target_probability,omitempty"`

	// Pedestrian speed distribution: floored normal.
	PedSpeedMean   *float64 `json:"ped_speed_mean,omitempty"`
	PedSpeedStdDev *float64 `json:"ped_speed_stddev,omitempty"`
	PedSpeedFloor  *float64 `json:"ped_speed_floor,omitempty"`

	// Engine parameters.
	SimConfigPath *string `json:"sim_config_path,omitempty"`
	SimSteps      *int    `json:"sim_steps,omitempty"`

	// Containment selects the point-in-polygon strategy: "winding" or
	// "crossing".
	Containment *string `json:"containment,omitempty"`

	Workers *int   `json:"workers,omitempty"`
	Seed    *int64 `json:"seed,omitempty"`
}

// EmptySearchConfig returns a SearchConfig with every field unset.
func EmptySearchConfig() *SearchConfig {
	return &SearchConfig{}
}

// LoadSearchConfig loads a SearchConfig from a JSON file. The file must
// have a .json extension and stay under the max file size. Fields omitted
// from the file fall back to defaults, so partial configs are safe.
func LoadSearchConfig(path string) (*SearchConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySearchConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every set field for sanity.
func (c *SearchConfig) Validate() error {
	if c.AVSpeedMin != nil && *c.AVSpeedMin <= 0 {
		return fmt.Errorf("av_speed_min must be positive, got %f", *c.AVSpeedMin)
	}
	if c.AVSpeedMin != nil && c.AVSpeedMax != nil && *c.AVSpeedMax < *c.AVSpeedMin {
		return fmt.Errorf("av_speed_max %f below av_speed_min %f", *c.AVSpeedMax, *c.AVSpeedMin)
	}
	if c.AVSpeedSteps != nil && *c.AVSpeedSteps < 1 {
		return fmt.Errorf("av_speed_steps must be at least 1, got %d", *c.AVSpeedSteps)
	}
	if c.TrialsPerSpeed != nil && *c.TrialsPerSpeed < 1 {
		return fmt.Errorf("trials_per_speed must be at least 1, got %d", *c.TrialsPerSpeed)
	}
	if c.TargetProbability != nil {
		if *c.TargetProbability < 0 || *c.TargetProbability > 1 {
			return fmt.Errorf("target_probability must be between 0 and 1, got %f", *c.TargetProbability)
		}
	}
	if c.PedSpeedStdDev != nil && *c.PedSpeedStdDev < 0 {
		return fmt.Errorf("ped_speed_stddev must be non-negative, got %f", *c.PedSpeedStdDev)
	}
	if c.PedSpeedFloor != nil && *c.PedSpeedFloor < 0 {
		return fmt.Errorf("ped_speed_floor must be non-negative, got %f", *c.PedSpeedFloor)
	}
	if c.Containment != nil {
		switch *c.Containment {
		case "", "winding", "crossing":
		default:
			return fmt.Errorf("containment must be \"winding\" or \"crossing\", got %q", *c.Containment)
		}
	}
	if c.ConflictAreas != nil {
		for i, ring := range *c.ConflictAreas {
			if len(ring) < 3 {
				return fmt.Errorf("conflict_areas[%d] has %d vertices, need at least 3", i, len(ring))
			}
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

func (c *SearchConfig) GetAVSpeedMin() float64 {
	if c.AVSpeedMin == nil {
		return 5.0
	}
	return *c.AVSpeedMin
}

func (c *SearchConfig) GetAVSpeedMax() float64 {
	if c.AVSpeedMax == nil {
		return 20.0
	}
	return *c.AVSpeedMax
}

func (c *SearchConfig) GetAVSpeedSteps() int {
	if c.AVSpeedSteps == nil {
		return 10
	}
	return *c.AVSpeedSteps
}

func (c *SearchConfig) GetTrialsPerSpeed() int {
	if c.TrialsPerSpeed == nil {
		return 30
	}
	return *c.TrialsPerSpeed
}

func (c *SearchConfig) GetPETThreshold() float64 {
	if c.PETThreshold == nil {
		return 2.0
	}
	return *c.PETThreshold
}

func (c *SearchConfig) GetTargetProbability() float64 {
	if c.TargetProbability == nil {
		return 0.90
	}
	return *c.TargetProbability
}

// Defaults follow the commonly used pedestrian walking speed distribution
// of mean 1.34 m/s with 0.26 m/s standard deviation.
func (c *SearchConfig) GetPedSpeedMean() float64 {
	if c.PedSpeedMean == nil {
		return 1.34
	}
	return *c.PedSpeedMean
}

func (c *SearchConfig) GetPedSpeedStdDev() float64 {
	if c.PedSpeedStdDev == nil {
		return 0.26
	}
	return *c.PedSpeedStdDev
}

func (c *SearchConfig) GetPedSpeedFloor() float64 {
	if c.PedSpeedFloor == nil {
		return 0.2
	}
	return *c.PedSpeedFloor
}

func (c *SearchConfig) GetSimConfigPath() string {
	if c.SimConfigPath == nil {
		return ""
	}
	return *c.SimConfigPath
}

func (c *SearchConfig) GetSimSteps() int {
	if c.SimSteps == nil {
		return 200
	}
	return *c.SimSteps
}

func (c *SearchConfig) GetContainment() string {
	if c.Containment == nil {
		return ""
	}
	return *c.Containment
}

func (c *SearchConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

func (c *SearchConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// Areas converts the configured conflict areas into polygons. With no
// areas configured it returns the default pair of crossing zones.
func (c *SearchConfig) Areas() []geom.Polygon {
	if c.ConflictAreas == nil || len(*c.ConflictAreas) == 0 {
		return defaultAreas()
	}
	out := make([]geom.Polygon, len(*c.ConflictAreas))
	for i, ring := range *c.ConflictAreas {
		poly := make(geom.Polygon, len(ring))
		for j, v := range ring {
			poly[j] = geom.Point{X: v[0], Y: v[1]}
		}
		out[i] = poly
	}
	return out
}

// defaultAreas matches the demo scenario's two pedestrian crossings on the
// monitored segment.
func defaultAreas() []geom.Polygon {
	return []geom.Polygon{
		{{X: 3.5, Y: -1.5}, {X: 6.5, Y: -1.5}, {X: 6.5, Y: 1.5}, {X: 3.5, Y: 1.5}},
		{{X: 23.5, Y: -1.5}, {X: 26.5, Y: -1.5}, {X: 26.5, Y: 1.5}, {X: 23.5, Y: 1.5}},
	}
}
