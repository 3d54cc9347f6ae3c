package portfolio

import (
	"errors"
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
)

var (
	// ErrMissingTicker is returned for a portfolio file without a ticker.
	ErrMissingTicker = errors.New("portfolio file: ticker is required")

	// ErrNoAssets is returned for a portfolio file with an empty asset list.
	ErrNoAssets = errors.New("portfolio file: no assets defined")
)

// File is a portfolio definition document. HJSON is accepted so analysts can
// keep commented, hand-edited asset lists; plain JSON parses too.
type File struct {
	Ticker string  `json:"ticker"`
	Assets []Asset `json:"assets"`
}

// LoadFile reads and validates a portfolio definition.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile parses a portfolio definition document and validates every asset
// up front, so malformed definitions are rejected at the boundary rather than
// mid-valuation.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := hjson.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse portfolio file: %w", err)
	}
	if f.Ticker == "" {
		return nil, ErrMissingTicker
	}
	if len(f.Assets) == 0 {
		return nil, ErrNoAssets
	}
	for _, a := range f.Assets {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("portfolio file: %w", err)
		}
	}
	return &f, nil
}
