package tableio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aristath/irc-engine/internal/fx"
)

// FXFormat selects how ReadFXTable interprets a JSON rate table's keys.
type FXFormat string

const (
	// FXFormatToReference accepts {"EUR": 1.08, ...}: foreign currency to
	// reference-currency rates.
	FXFormatToReference FXFormat = "to_reference"
	// FXFormatMarket accepts {"EURUSD": 1.08, ...}: market-convention
	// six-letter base/quote pairs.
	FXFormatMarket FXFormat = "market"
	// FXFormatAuto selects to_reference or market per key, based on key
	// length (3 letters vs 6), per spec.md §6's two documented shapes.
	FXFormatAuto FXFormat = ""
)

// ReadFXTable parses one of the two JSON shapes documented in spec.md §6 and
// builds an fx.Store from it via fx.FromToReference / fx.FromMarketPairs,
// the same constructors internal/fx already exposes for this purpose, so the
// market-pair-key-splitting and to-reference conventions live in one place.
// referenceCurrency is required when format is FXFormatToReference or
// FXFormatAuto encounters a three-letter key.
func ReadFXTable(r io.Reader, format FXFormat, referenceCurrency string) (*fx.Store, error) {
	var raw map[string]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tableio: decoding FX table: %w", err)
	}

	toReference := make(map[string]float64)
	market := make(map[string]float64)

	for rawKey, value := range raw {
		key := strings.ToUpper(strings.TrimSpace(rawKey))
		keyFormat := format
		if keyFormat == FXFormatAuto {
			keyFormat = detectFXFormat(key)
		}

		switch keyFormat {
		case FXFormatToReference:
			if referenceCurrency == "" {
				return nil, fmt.Errorf("tableio: FX table entry %q requires a reference currency", key)
			}
			toReference[key] = value
		case FXFormatMarket:
			if len(key) != 6 {
				return nil, fmt.Errorf("tableio: market-format FX key %q must be 6 letters (e.g. EURUSD)", key)
			}
			market[key] = value
		default:
			return nil, fmt.Errorf("tableio: unknown FX format %q", format)
		}
	}

	store := fx.FromToReference(toReference, referenceCurrency)
	if len(market) > 0 {
		marketStore, err := fx.FromMarketPairs(market)
		if err != nil {
			return nil, fmt.Errorf("tableio: %w", err)
		}
		store.Merge(marketStore)
	}
	return store, nil
}

// detectFXFormat guesses a key's shape: a six-letter key is a market pair
// (e.g. "EURUSD"); a three-letter key is a bare currency code meant to be
// read against the reference currency.
func detectFXFormat(key string) FXFormat {
	if len(key) == 6 {
		return FXFormatMarket
	}
	return FXFormatToReference
}
