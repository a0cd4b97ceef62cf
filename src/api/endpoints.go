package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lost-woods/dice/src/dice"
	"github.com/lost-woods/dice/src/history"
	"github.com/lost-woods/dice/src/rng"
	"github.com/lost-woods/dice/src/roller"
)

const (
	maxRollsPerRequest = 10000
	maxFileNameLen     = 128
)

func renderDice(ds []dice.Die) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.GoString()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (h *Handlers) AddDice(c *gin.Context) {
	sides, err := strconv.Atoi(c.Query("sides"))
	if err != nil {
		responder{c}.err(http.StatusBadRequest,
			fmt.Sprintf("Sides must be an integer between %d and %d.", dice.MinSides, dice.MaxSides))
		return
	}

	var d dice.Die
	if weights := c.Query("weights"); weights != "" {
		w, werr := dice.ParseWeights(weights)
		if werr == nil {
			d, err = dice.NewWeighted(sides, w)
		} else {
			err = werr
		}
	} else {
		d, err = dice.NewFair(sides)
	}
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}

	h.handleRoller(c, func(dr *roller.DiceRoller) (string, gin.H, int, string) {
		dr.AddDie(d)
		current := dr.Dice()
		msg := fmt.Sprintf("%s has been added to the dice list. Current list: %s", d, renderDice(current))
		return msg, gin.H{"message": msg, "dice": current}, 0, ""
	})
}

func (h *Handlers) ClearDice(c *gin.Context) {
	h.handleRoller(c, func(dr *roller.DiceRoller) (string, gin.H, int, string) {
		dr.ClearDice()
		msg := "Dice list has been cleared. Please add new dices using '/add-dice' endpoint."
		return msg, gin.H{"message": msg}, 0, ""
	})
}

func (h *Handlers) ListDice(c *gin.Context) {
	h.handleRoller(c, func(dr *roller.DiceRoller) (string, gin.H, int, string) {
		current := dr.Dice()
		return renderDice(current), gin.H{"dice": current}, 0, ""
	})
}

func (h *Handlers) RollDice(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("number_of_rolls"))
	if err != nil || n > maxRollsPerRequest {
		responder{c}.err(http.StatusBadRequest,
			fmt.Sprintf("Number of rolls must be an integer no greater than %d.", maxRollsPerRequest))
		return
	}

	h.handleRoller(c, func(dr *roller.DiceRoller) (string, gin.H, int, string) {
		rounds, err := dr.RollMultipleTimes(n)
		if err != nil {
			if errors.Is(err, rng.ErrSourceRead) && h.health != nil {
				h.health.Set(false, err.Error())
			}
			h.log.Error(err)
			return "", nil, http.StatusInternalServerError, "Error rolling the dice."
		}

		msg := fmt.Sprintf("Rolled dice %d times.", max(n, 0))
		var text strings.Builder
		text.WriteString(msg)
		for _, round := range rounds {
			text.WriteByte('\n')
			text.WriteString(roller.FormatRolls(toInt32(round)))
		}
		return text.String(), gin.H{"message": msg, "rolls": rounds}, 0, ""
	})
}

func toInt32(xs []int) []int32 {
	out := make([]int32, len(xs))
	for i, x := range xs {
		out[i] = int32(x)
	}
	return out
}

func (h *Handlers) LastRolls(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		responder{c}.err(http.StatusBadRequest, "Invalid number of rolls.")
		return
	}

	h.handleRoller(c, func(dr *roller.DiceRoller) (string, gin.H, int, string) {
		rolls := dr.History().Last(n)
		return roller.FormatRolls(rolls), gin.H{"last_rolls": rolls}, 0, ""
	})
}

// fileName reads the file_name query, defaulting to "rolls". Names must be a
// single path element.
func fileName(c *gin.Context) (string, bool) {
	name := c.DefaultQuery("file_name", roller.DefaultFileName)
	if name == "" || len(name) > maxFileNameLen || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		responder{c}.err(http.StatusBadRequest, "Invalid file name.")
		return "", false
	}
	return name, true
}

func (h *Handlers) SaveRolls(c *gin.Context) {
	name, ok := fileName(c)
	if !ok {
		return
	}

	h.handleRoller(c, func(dr *roller.DiceRoller) (string, gin.H, int, string) {
		if err := dr.SaveRollsToFile(name); err != nil {
			h.log.Error(err)
			return "", nil, http.StatusInternalServerError, "Error saving rolls."
		}
		msg := fmt.Sprintf("Rolls saved to %s%s", name, history.Ext)
		return msg, gin.H{"message": msg}, 0, ""
	})
}

func (h *Handlers) LoadRolls(c *gin.Context) {
	name, ok := fileName(c)
	if !ok {
		return
	}

	h.handleRoller(c, func(dr *roller.DiceRoller) (string, gin.H, int, string) {
		status, err := dr.LoadRollsFromFile(name)
		if err != nil {
			h.log.Error(err)
			return "", nil, http.StatusInternalServerError, "Error loading rolls."
		}
		msg := fmt.Sprintf("Rolls loaded from %s%s", name, history.Ext)
		return msg + " (" + status.String() + ")", gin.H{"message": msg, "status": status.String()}, 0, ""
	})
}

func (h *Handlers) Health(c *gin.Context) {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "UNHEALTHY: missing health monitor")
		return
	}

	ok, msg, t := h.health.Snapshot()
	if ok {
		responder{c}.ok(
			fmt.Sprintf("OK (last checked %s)", t.Format(time.RFC3339)),
			gin.H{"ok": true, "last_checked": t.Format(time.RFC3339)},
			"health-check",
		)
		return
	}

	responder{c}.err(http.StatusServiceUnavailable,
		fmt.Sprintf("UNHEALTHY: %s (last checked %s)", msg, t.Format(time.RFC3339)))
}
