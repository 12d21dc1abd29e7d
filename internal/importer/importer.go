package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/mapty/internal/models"
)

// Sink receives imported workouts. mcp.DataSource satisfies it.
type Sink interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	ImportWorkouts(ctx context.Context, records []models.Workout) (int, error)
}

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesErrored   int

	WorkoutsRead       int
	WorkoutsInserted   int
	WorkoutsDuplicated int
	WorkoutsRejected   int

	// Rejected lists "file: id: reason" for every record that failed Validate.
	Rejected []string
}

// Importer reads workout logs, either plain JSON arrays as the browser keeps
// them or gzipped exports, and appends them to a Sink.
type Importer struct {
	sink   Sink
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. In dry-run mode nothing is written; duplicates
// are counted against the sink's current list instead.
func New(sink Sink, log *slog.Logger, dryRun bool) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{sink: sink, log: log, dryRun: dryRun}
}

// Import processes every path. A directory contributes its *.json and
// *.json.gz files in name order. Unreadable files are counted and skipped.
func (imp *Importer) Import(ctx context.Context, paths ...string) (*Stats, error) {
	files, err := expand(paths)
	if err != nil {
		return &imp.stats, err
	}

	var batch []models.Workout
	for _, f := range files {
		records, err := imp.readRecords(f)
		if err != nil {
			imp.log.Warn("import file failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		imp.stats.FilesProcessed++
		imp.stats.WorkoutsRead += len(records)

		for _, w := range records {
			if err := Validate(w); err != nil {
				imp.stats.WorkoutsRejected++
				imp.stats.Rejected = append(imp.stats.Rejected, fmt.Sprintf("%s: %s: %v", filepath.Base(f), w.ID, err))
				continue
			}
			batch = append(batch, w)
		}
	}

	if len(batch) == 0 {
		return &imp.stats, nil
	}

	if imp.dryRun {
		existing, err := imp.sink.ListWorkouts(ctx)
		if err != nil {
			return &imp.stats, fmt.Errorf("listing workouts: %w", err)
		}
		imp.stats.WorkoutsDuplicated = countDuplicates(existing, batch)
		imp.log.Info("dry run", "would_insert", len(batch)-imp.stats.WorkoutsDuplicated)
		return &imp.stats, nil
	}

	n, err := imp.sink.ImportWorkouts(ctx, batch)
	if err != nil {
		return &imp.stats, fmt.Errorf("importing workouts: %w", err)
	}
	imp.stats.WorkoutsInserted = n
	imp.stats.WorkoutsDuplicated = len(batch) - n
	imp.log.Info("import finished",
		"files", imp.stats.FilesProcessed,
		"inserted", n,
		"duplicated", imp.stats.WorkoutsDuplicated,
		"rejected", imp.stats.WorkoutsRejected,
	)
	return &imp.stats, nil
}

func (imp *Importer) readRecords(path string) ([]models.Workout, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a workout log. A JSON null is an empty log.
func Decode(data []byte) ([]models.Workout, error) {
	var records []models.Workout
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding workouts: %w", err)
	}
	return records, nil
}

// Encode renders workouts in the stored log shape, indented for people.
func Encode(ws []models.Workout) ([]byte, error) {
	if ws == nil {
		ws = []models.Workout{}
	}
	return json.MarshalIndent(ws, "", "  ")
}

// Validate checks that a record carries everything the list and the map need.
// Derived fields are only checked for presence, never recomputed.
func Validate(w models.Workout) error {
	switch {
	case w.ID == "":
		return errors.New("missing id")
	case w.Date.IsZero():
		return errors.New("missing date")
	case !positive(w.Distance) || !positive(w.Duration):
		return errors.New("distance and duration must be positive")
	}

	switch w.Type {
	case models.TypeRunning:
		if w.Cadence == nil || w.Pace == nil {
			return errors.New("running record without cadence or pace")
		}
	case models.TypeCycling:
		if w.Elevation == nil || w.Speed == nil {
			return errors.New("cycling record without elevation or speed")
		}
	default:
		return fmt.Errorf("unknown workout type %q", w.Type)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// countDuplicates counts the batch records whose id is already listed or
// appears earlier in the batch.
func countDuplicates(existing, batch []models.Workout) int {
	seen := make(map[string]bool, len(existing))
	for _, w := range existing {
		seen[w.ID] = true
	}
	dup := 0
	for _, w := range batch {
		if seen[w.ID] {
			dup++
			continue
		}
		seen[w.ID] = true
	}
	return dup
}

func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !(strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json"+gzipSuffix)) {
				continue
			}
			found = append(found, filepath.Join(p, name))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
