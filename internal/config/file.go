package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile overlays settings from a YAML file onto cfg. Keys absent from the
// file keep their current values; unknown keys are an error so typos do not
// silently fall back to defaults. An empty file is accepted.
//
//	input_dir: ./videos
//	output_dir: ./compressed_videos
//	extensions: [.mp4, .mkv]
//	crf: 26
//	preset: medium
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}
