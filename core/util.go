package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	PrintToggle            = false
	LevelTrace  slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintState prints the live temporaries and outputs of every lane.
func PrintState(name string, state *coreState) {
	if !PrintToggle {
		return
	}
	fmt.Println(StateTable(name, state))
}

// StateTable renders the non-zero temporaries and outputs per lane.
func StateTable(name string, state *coreState) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s @ PC %d (retired %d)", name, state.PC, state.Retired))
	t.AppendHeader(table.Row{"Lane", "Reg", "X", "Y", "Z", "W"})

	for l, lane := range state.Lanes {
		if lane.Killed {
			t.AppendRow(table.Row{l, "killed", "", "", "", ""})
			continue
		}
		for r, v := range lane.Temps {
			if v != (vec{}) {
				t.AppendRow(table.Row{l, fmt.Sprintf("r%d", r), v[0], v[1], v[2], v[3]})
			}
		}
		for r, v := range lane.Outputs {
			if v != (vec{}) {
				t.AppendRow(table.Row{l, fmt.Sprintf("o%d", r), v[0], v[1], v[2], v[3]})
			}
		}
		t.AppendSeparator()
	}

	return t.Render()
}

func LogState(name string, state *coreState) {
	slog.Debug("StateCheckpoint",
		"Core", name,
		"PC", state.PC,
		"Retired", state.Retired,
		"Taken", state.Taken,
		"Lanes", len(state.Lanes),
	)
}
