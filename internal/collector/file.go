package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"CryptoLens/internal/model"
)

// FileFetcher implements Fetcher by reading <Dir>/<SYMBOL>_<tf>.json, a JSON
// array of candles. Useful for offline runs and replaying captured history.
type FileFetcher struct {
	Fs  afero.Fs
	Dir string
}

func NewFileFetcher(fs afero.Fs, dir string) *FileFetcher {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileFetcher{Fs: fs, Dir: dir}
}

func (f *FileFetcher) Name() string { return "file" }

// Path returns the file the fetcher reads for symbol and tf.
func (f *FileFetcher) Path(symbol string, tf model.TimeFrame) string {
	return filepath.Join(f.Dir, fmt.Sprintf("%s_%s.json", symbol, tf))
}

func (f *FileFetcher) FetchCandles(ctx context.Context, symbol string, tf model.TimeFrame) ([]model.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := f.Path(symbol, tf)
	data, err := afero.ReadFile(f.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	candles := []model.Candle{}
	if err := json.Unmarshal(data, &candles); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return candles, nil
}

// WriteCandles stores candles where FetchCandles will find them.
func (f *FileFetcher) WriteCandles(symbol string, tf model.TimeFrame, candles []model.Candle) error {
	if err := f.Fs.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", f.Dir, err)
	}
	data, err := json.Marshal(candles)
	if err != nil {
		return err
	}
	return afero.WriteFile(f.Fs, f.Path(symbol, tf), data, 0o644)
}
