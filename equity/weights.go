package equity

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/twai/twai/cache"
	"github.com/twai/twai/config"
)

// Weights are the coefficients of the cost function, one per board
// feature. The sign of each weight decides whether its feature is a
// penalty or a reward; the lowest total cost wins.
type Weights struct {
	HoleCount             float64 `yaml:"hole_count"`
	OpenHoleCount         float64 `yaml:"open_hole_count"`
	BlocksAboveHoles      float64 `yaml:"blocks_above_holes"`
	NonTetrisClear        float64 `yaml:"non_tetris_clear"`
	TetrisReward          float64 `yaml:"tetris_reward"`
	MaximumLineHeight     float64 `yaml:"maximum_line_height"`
	LastBlockAddedHeight  float64 `yaml:"last_block_added_height"`
	PillarCount           float64 `yaml:"pillar_count"`
	BlocksInRightmostLane float64 `yaml:"blocks_in_rightmost_lane"`
	Bumpiness             float64 `yaml:"bumpiness"`
}

// DefaultWeights returns the tuned defaults.
func DefaultWeights() Weights {
	return Weights{
		HoleCount:             61.156956,
		OpenHoleCount:         98.64193,
		BlocksAboveHoles:      4.9402747,
		NonTetrisClear:        -8.505343,
		TetrisReward:          10.133134,
		MaximumLineHeight:     -2.1128924,
		LastBlockAddedHeight:  15.88824,
		PillarCount:           16.198757,
		BlocksInRightmostLane: -21.910303,
		Bumpiness:             15.483239,
	}
}

var ErrUnknownWeight = errors.New("unknown weight")

// WeightNames lists the weight names in the order used by Slice.
var WeightNames = []string{
	"hole_count",
	"open_hole_count",
	"blocks_above_holes",
	"non_tetris_clear",
	"tetris_reward",
	"maximum_line_height",
	"last_block_added_height",
	"pillar_count",
	"blocks_in_rightmost_lane",
	"bumpiness",
}

func (w *Weights) fields() []*float64 {
	return []*float64{
		&w.HoleCount,
		&w.OpenHoleCount,
		&w.BlocksAboveHoles,
		&w.NonTetrisClear,
		&w.TetrisReward,
		&w.MaximumLineHeight,
		&w.LastBlockAddedHeight,
		&w.PillarCount,
		&w.BlocksInRightmostLane,
		&w.Bumpiness,
	}
}

// Slice returns the weights as a vector, ordered like WeightNames. This is
// the form an external optimizer works with.
func (w Weights) Slice() []float64 {
	out := make([]float64, 0, len(WeightNames))
	for _, f := range w.fields() {
		out = append(out, *f)
	}
	return out
}

// WeightsFromSlice is the inverse of Slice.
func WeightsFromSlice(v []float64) (Weights, error) {
	var w Weights
	fs := w.fields()
	if len(v) != len(fs) {
		return w, fmt.Errorf("expected %d weights, got %d", len(fs), len(v))
	}
	for i, f := range fs {
		*f = v[i]
	}
	return w, nil
}

// Set changes a single weight by name.
func (w *Weights) Set(name string, val float64) error {
	name = strings.ReplaceAll(strings.ToLower(name), "-", "_")
	for i, n := range WeightNames {
		if n == name {
			*w.fields()[i] = val
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownWeight, name)
}

// Get returns a single weight by name.
func (w Weights) Get(name string) (float64, error) {
	name = strings.ReplaceAll(strings.ToLower(name), "-", "_")
	for i, n := range WeightNames {
		if n == name {
			return *w.fields()[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownWeight, name)
}

// ReadWeights parses YAML weights. Missing keys keep their default value.
func ReadWeights(r io.Reader) (Weights, error) {
	w := DefaultWeights()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return w, nil
		}
		return w, fmt.Errorf("decoding weights: %w", err)
	}
	return w, nil
}

// LoadWeights reads a YAML weights file.
func LoadWeights(path string) (Weights, error) {
	f, err := os.Open(path)
	if err != nil {
		return Weights{}, err
	}
	defer f.Close()
	w, err := ReadWeights(f)
	if err != nil {
		return w, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("loaded-weights")
	return w, nil
}

// WriteYAML writes the weights in the format ReadWeights accepts.
func (w Weights) WriteYAML(wr io.Writer) error {
	enc := yaml.NewEncoder(wr)
	if err := enc.Encode(w); err != nil {
		return err
	}
	return enc.Close()
}

// WeightsCacheLoadFunc loads a weights file for the object cache. Keys look
// like weightsfile:path.
func WeightsCacheLoadFunc(cfg *config.Config, key string) (any, error) {
	path, ok := strings.CutPrefix(key, "weightsfile:")
	if !ok {
		return nil, errors.New("weightscacheloadfunc - bad cache key: " + key)
	}
	return LoadWeights(path)
}

// WeightsFromConfig returns the weights named by the weights-path setting,
// or the defaults if it is empty.
func WeightsFromConfig(cfg *config.Config) (Weights, error) {
	path := cfg.GetString(config.ConfigWeightsPath)
	if path == "" {
		return DefaultWeights(), nil
	}
	return cache.LoadTyped[Weights](cfg, "weightsfile:"+path, WeightsCacheLoadFunc)
}
