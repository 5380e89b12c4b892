package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/newthinker/riskattr/internal/config"
	"github.com/newthinker/riskattr/internal/core"
)

// ResultsDir is the storage prefix of saved results
const ResultsDir = "results"

// Encode writes v to w in format, "json" or "msgpack". Both formats use the
// json field names.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(v)
	default:
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown output format %q", format))
	}
}

// Write encodes v in the configured format
func (a *App) Write(w io.Writer, v any) error {
	return Encode(w, a.cfg.Output.Format, v)
}

// Save encodes v in the configured format and stores it as results/<name>.<format>.
// It returns the storage path.
func (a *App) Save(ctx context.Context, name string, v any) (string, error) {
	var buf bytes.Buffer
	if err := a.Write(&buf, v); err != nil {
		return "", err
	}

	p := path.Join(ResultsDir, name+"."+a.cfg.Output.Format)
	if err := a.storage.Write(ctx, p, buf.Bytes()); err != nil {
		return "", fmt.Errorf("saving %s: %w", p, err)
	}
	return p, nil
}
