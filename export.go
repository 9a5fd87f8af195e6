package tkep

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ExportConfig configures the exporting of a propagation.
type ExportConfig struct {
	Filename  string
	AsCSV     bool
	Timestamp bool // Append a timestamp to the filename
}

// IsUseless returns whether this config doesn't actually export anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV || c.Filename == ""
}

func (c ExportConfig) csvPath() string {
	name := "prop-" + c.Filename
	if c.Timestamp {
		name += "-" + time.Now().UTC().Format("2006-01-02-15.04.05")
	}
	return filepath.Join(tkepConfig().outputDir, name+".csv")
}

// StreamStates streams all the states of the channel to the configured CSV
// file, one row per sample. Returns once the channel is closed.
func StreamStates(conf ExportConfig, stateChan <-chan LegState) {
	if conf.IsUseless() {
		for range stateChan {
			// Drain so the producer never blocks.
		}
		return
	}
	f, err := os.Create(conf.csvPath())
	if err != nil {
		panic(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"t(s)", "x(km)", "y(km)", "z(km)", "vx(km/s)", "vy(km/s)", "vz(km/s)", "mass(kg)", "step(s)"}); err != nil {
		panic(err)
	}
	for state := range stateChan {
		rec := make([]string, 9)
		rec[0] = fmt.Sprintf("%f", state.T)
		for i := 0; i < 3; i++ {
			rec[i+1] = strconv.FormatFloat(state.State.R[i], 'f', -1, 64)
			rec[i+4] = strconv.FormatFloat(state.State.V[i], 'f', -1, 64)
		}
		rec[7] = strconv.FormatFloat(state.State.Mass, 'f', -1, 64)
		rec[8] = fmt.Sprintf("%f", state.Step)
		if err := w.Write(rec); err != nil {
			panic(err)
		}
	}
}
