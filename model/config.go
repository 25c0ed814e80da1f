package model

import (
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig represents the configuration for a document processing run
type PipelineConfig struct {
	// Model parameters
	Model       string  `yaml:"model" json:"model"`
	VisionModel string  `yaml:"vision_model" json:"vision_model"`
	BaseURL     string  `yaml:"base_url" json:"base_url"`
	Temperature float64 `yaml:"temperature" json:"temperature"`

	// Context window half-width for non-text chunks
	Delta int `yaml:"delta" json:"delta"`

	// Image placement during segmentation: trailing (default) or midpage
	PlaceImagesMidpage bool `yaml:"place_images_midpage" json:"place_images_midpage"`

	// Directories for persisted images and archive records
	ImageDir   string `yaml:"image_dir" json:"image_dir"`
	ArchiveDir string `yaml:"archive_dir" json:"archive_dir"`
}

// DefaultPipelineConfig returns a sensible default configuration
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Model:       "gemma3:1b",
		VisionModel: "llava:7b",
		BaseURL:     "http://localhost:11434",
		Temperature: 0.0,
		Delta:       2,
		ImageDir:    "extracted_images",
		ArchiveDir:  "archive",
	}
}

// LoadPipelineConfig reads a PipelineConfig from a YAML file, filling unset
// fields from the defaults.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultPipelineConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if config.Delta < 0 {
		config.Delta = 0
	}

	return &config, nil
}
