// Package roller rolls a small ordered collection of dice and records every
// result in a RollHistory.
package roller

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lost-woods/dice/src/dice"
	"github.com/lost-woods/dice/src/history"
	"github.com/lost-woods/dice/src/metrics"
)

// MaxDice bounds the collection. Adding beyond it drops the oldest die.
const MaxDice = 5

// DefaultFileName is used when a save or load names no file.
const DefaultFileName = "rolls"

// ErrNoSource is returned when rolling without an entropy source.
var ErrNoSource = errors.New("roller has no entropy source")

// DiceRoller is not safe for concurrent use; share it through a Handle.
type DiceRoller struct {
	dice    []dice.Die
	history *history.RollHistory

	src     io.Reader
	log     *zap.SugaredLogger
	metrics metrics.Client
	dir     string
}

type Option func(*DiceRoller)

// WithSource sets the entropy stream every die draws from.
func WithSource(r io.Reader) Option { return func(dr *DiceRoller) { dr.src = r } }

func WithLogger(log *zap.SugaredLogger) Option {
	return func(dr *DiceRoller) {
		if log != nil {
			dr.log = log
		}
	}
}

func WithMetrics(m metrics.Client) Option {
	return func(dr *DiceRoller) {
		if m != nil {
			dr.metrics = m
		}
	}
}

// WithDir sets where {name}.bin files are saved and loaded.
func WithDir(dir string) Option { return func(dr *DiceRoller) { dr.dir = dir } }

// New takes ownership of h. Dice beyond MaxDice push out the earliest ones.
// Without WithSource every roll fails with ErrNoSource.
func New(ds []dice.Die, h *history.RollHistory, opts ...Option) *DiceRoller {
	if h == nil {
		h = history.New(history.DefaultCapacity)
	}
	dr := &DiceRoller{
		history: h,
		log:     zap.NewNop().Sugar(),
		metrics: metrics.Noop(),
		dir:     ".",
	}
	for _, opt := range opts {
		opt(dr)
	}
	for _, d := range ds {
		dr.AddDie(d)
	}
	return dr
}

// AddDie appends d, first evicting the oldest die when MaxDice are held.
func (dr *DiceRoller) AddDie(d dice.Die) {
	if len(dr.dice) == MaxDice {
		copy(dr.dice, dr.dice[1:])
		dr.dice = dr.dice[:MaxDice-1]
	}
	dr.dice = append(dr.dice, d)
	_ = dr.metrics.Gauge(metrics.DiceCount, float64(len(dr.dice)), nil, 1)
}

func (dr *DiceRoller) ClearDice() {
	dr.dice = dr.dice[:0]
	_ = dr.metrics.Gauge(metrics.DiceCount, 0, nil, 1)
}

// Dice returns a copy of the collection in roll order.
func (dr *DiceRoller) Dice() []dice.Die {
	return append([]dice.Die(nil), dr.dice...)
}

func (dr *DiceRoller) History() *history.RollHistory { return dr.history }

// Roll rolls every die once, in order, and records each result. On a source
// failure the results recorded before it stay in the history.
func (dr *DiceRoller) Roll() ([]int, error) {
	if dr.src == nil && len(dr.dice) > 0 {
		return nil, ErrNoSource
	}
	results := make([]int, 0, len(dr.dice))
	for _, d := range dr.dice {
		v, err := d.Roll(dr.src)
		if err != nil {
			return results, err
		}
		dr.log.Infof("Result of a %s roll is %d.", d, v)
		dr.history.Add(int32(v))
		results = append(results, v)
		_ = dr.metrics.Incr(metrics.Rolls, []string{"sides:" + strconv.Itoa(d.Sides()), "kind:" + d.Kind().String()}, 1)
	}
	_ = dr.metrics.Gauge(metrics.HistorySize, float64(dr.history.Len()), nil, 1)
	return results, nil
}

// maxPrealloc bounds the result slice capacity reserved up front.
const maxPrealloc = 1024

// RollMultipleTimes calls Roll n times. n <= 0 rolls nothing.
func (dr *DiceRoller) RollMultipleTimes(n int) ([][]int, error) {
	rounds := make([][]int, 0, min(max(n, 0), maxPrealloc))
	dr.log.Infof("Rolling dice %d times", n)
	for i := 1; i <= n; i++ {
		dr.log.Infof("Roll %d:", i)
		results, err := dr.Roll()
		if err != nil {
			return rounds, err
		}
		rounds = append(rounds, results)
		_ = dr.metrics.Incr(metrics.RollRounds, nil, 1)
	}
	return rounds, nil
}

func (dr *DiceRoller) path(name string) string {
	if name == "" {
		name = DefaultFileName
	}
	return filepath.Join(dr.dir, name)
}

// SaveRollsToFile writes the history to {dir}/{name}.bin.
func (dr *DiceRoller) SaveRollsToFile(name string) error {
	if err := dr.history.SaveToFile(dr.path(name)); err != nil {
		return err
	}
	_ = dr.metrics.Incr(metrics.HistorySaved, nil, 1)
	return nil
}

// LoadRollsFromFile appends {dir}/{name}.bin to the history. A missing or
// short file is logged, not returned. A corrupt file is an error and leaves
// the history untouched.
func (dr *DiceRoller) LoadRollsFromFile(name string) (history.LoadStatus, error) {
	status, n, err := dr.history.LoadFromFile(dr.path(name))
	if err != nil {
		return status, err
	}

	switch status {
	case history.LoadComplete:
		dr.log.Infow("Loaded data for the last rolls.", "count", n)
	case history.LoadPartial:
		dr.log.Infow("Loaded all available data from the file.", "count", n)
	case history.LoadMissing:
		dr.log.Infow("Data for rolls does not exist.", "file", dr.path(name)+history.Ext)
	}
	_ = dr.metrics.Incr(metrics.HistoryLoad, []string{"status:" + status.String()}, 1)
	_ = dr.metrics.Gauge(metrics.HistorySize, float64(dr.history.Len()), nil, 1)
	return status, nil
}

// DisplayLastRolls logs and returns the last n results.
func (dr *DiceRoller) DisplayLastRolls(n int) []int32 {
	rolls := dr.history.Last(n)
	dr.log.Infof("Last %d rolls:", n)
	dr.log.Info(FormatRolls(rolls))
	return rolls
}

// FormatRolls renders rolls as "1, 2, 3".
func FormatRolls(rolls []int32) string {
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = strconv.Itoa(int(r))
	}
	return strings.Join(parts, ", ")
}
