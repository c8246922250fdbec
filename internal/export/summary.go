package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/viz"
)

// Summary is the JSON description of a finished run.
type Summary struct {
	Stepper        string             `json:"stepper"`
	Timestamp      time.Time          `json:"timestamp"`
	Rows           int                `json:"rows"`
	Cols           int                `json:"cols"`
	Dt             float64            `json:"dt"`
	D              float64            `json:"d"`
	Iterations     int                `json:"iterations"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	CellUpdates    float64            `json:"cell_updates_per_second"`
	InitialMass    float64            `json:"initial_mass"`
	FinalMass      float64            `json:"final_mass"`
	Metrics        map[string]float64 `json:"metrics"`
}

func NewSummary(cfg experiment.Config, result *experiment.Result) Summary {
	s := Summary{
		Stepper:        result.Stepper,
		Timestamp:      time.Now(),
		Rows:           cfg.Rows,
		Cols:           cfg.Cols,
		Dt:             cfg.Dt,
		D:              cfg.D,
		Iterations:     result.Iterations,
		ElapsedSeconds: result.Elapsed.Seconds(),
		Metrics:        result.Metrics,
	}
	if result.Initial != nil {
		s.InitialMass = result.Initial.Sum()
	}
	if result.Final != nil {
		s.FinalMass = result.Final.Sum()
	}
	if secs := result.Elapsed.Seconds(); secs > 0 {
		s.CellUpdates = float64(cfg.Rows*cfg.Cols) * float64(result.Iterations) / secs
	}
	return s
}

func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func WriteJSONFile(path string, s Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, s); err != nil {
		return err
	}
	return file.Close()
}

// WriteRun writes summary.json, field.csv and field.svg for a finished
// run into dir, creating it if needed. Nothing here is read back by the
// tool; the files are for the user.
func WriteRun(dir string, cfg experiment.Config, result *experiment.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := WriteJSONFile(filepath.Join(dir, "summary.json"), NewSummary(cfg, result)); err != nil {
		return err
	}
	if err := WriteCSVFile(filepath.Join(dir, "field.csv"), result.Final); err != nil {
		return err
	}
	svg := FieldToSVG(result.Final, 128, 4, viz.CurrentTheme)
	return os.WriteFile(filepath.Join(dir, "field.svg"), []byte(svg), 0644)
}
