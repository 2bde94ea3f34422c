// Package histgath keeps a history of program runs. Every record is one
// zstd frame holding a JSON document, appended to a single file.
package histgath

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/crun/internal/build"
	"github.com/programme-lv/crun/internal/logger"
	"github.com/programme-lv/crun/internal/monitor"
	"github.com/programme-lv/crun/internal/runner"
)

const FileName = "history.zst"

type Record struct {
	ID         uuid.UUID      `json:"id"`
	Time       time.Time      `json:"time"`
	Command    string         `json:"command"`
	ExitCode   int            `json:"exit_code"`
	DurationMs uint64         `json:"duration_ms"`
	Monitoring *monitor.Stats `json:"monitoring,omitempty"`
}

type History struct {
	path string
	now  func() time.Time
}

func New(path string) *History {
	return &History{path: path, now: time.Now}
}

func (h *History) Path() string {
	return h.path
}

// Append writes rec as a new frame at the end of the history file.
func (h *History) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	frame := enc.EncodeAll(data, nil)
	_ = enc.Close()

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("failed to create history folder: %w", err)
	}
	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	if _, err := f.Write(frame); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write history: %w", err)
	}
	return f.Close()
}

// ErrDamaged is returned together with the readable records when parts of
// the history file could not be decoded.
var ErrDamaged = errors.New("history file is damaged")

// frameMagic starts every zstd frame.
var frameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Last returns up to n most recent records, oldest first; n <= 0 returns all
// of them. A missing history file is an empty history. Damaged frames, such
// as one cut short by a crash during Append, are skipped: the records around
// them are still returned, along with an error wrapping ErrDamaged.
func (h *History) Last(n int) ([]Record, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	var (
		res     []Record
		damaged int
	)
	for rest := data; len(rest) > 0; {
		rec, size, ok := decodeFrame(dec, rest)
		if ok {
			res = append(res, rec)
			rest = rest[size:]
			continue
		}
		damaged++
		next := bytes.Index(rest[1:], frameMagic)
		if next < 0 {
			break
		}
		rest = rest[next+1:]
	}

	if n > 0 && len(res) > n {
		res = res[len(res)-n:]
	}
	if damaged > 0 {
		return res, fmt.Errorf("%w: skipped %d unreadable entries in %s", ErrDamaged, damaged, h.path)
	}
	return res, nil
}

// decodeFrame decodes the record stored in the frame data starts with and
// returns the frame size. A magic number inside compressed data can look
// like the next frame, so every following magic is tried as the frame end.
func decodeFrame(dec *zstd.Decoder, data []byte) (Record, int, bool) {
	if !bytes.HasPrefix(data, frameMagic) {
		return Record{}, 0, false
	}
	end := 0
	for {
		next := bytes.Index(data[end+len(frameMagic):], frameMagic)
		if next < 0 {
			end = len(data)
		} else {
			end += len(frameMagic) + next
		}

		if out, err := dec.DecodeAll(data[:end], nil); err == nil {
			var rec Record
			if json.Unmarshal(out, &rec) == nil {
				return rec, end, true
			}
		}
		if end == len(data) {
			return Record{}, 0, false
		}
	}
}

// Gatherer records every finished program run in a History. Write failures
// are reported as warnings and never interrupt the build.
type Gatherer struct {
	hist *History
	sink logger.Sink
}

func NewGatherer(hist *History, sink logger.Sink) *Gatherer {
	return &Gatherer{hist: hist, sink: sink}
}

func (g *Gatherer) FinishCompile(build.Plan, runner.Outcome) {}

func (g *Gatherer) MissingExecutable(string) {}

func (g *Gatherer) FinishProgram(command string, outcome runner.Outcome) {
	rec := Record{
		ID:         uuid.New(),
		Time:       g.hist.now().UTC(),
		Command:    command,
		ExitCode:   outcome.ExitCode,
		DurationMs: outcome.DurationMs(),
		Monitoring: outcome.Monitoring,
	}
	if err := g.hist.Append(rec); err != nil {
		g.sink.Log(logger.LevelWarn, "Failed to save run history: "+err.Error())
	}
}

// Dump writes the readable records of the whole history to w as JSON lines.
// Like Last, it reports damage with ErrDamaged after writing what it could.
func (h *History) Dump(w io.Writer) error {
	recs, readErr := h.Last(0)
	if readErr != nil && !errors.Is(readErr, ErrDamaged) {
		return readErr
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range recs {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return readErr
}
