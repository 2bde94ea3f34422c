package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/crun/internal/histgath"
	"github.com/programme-lv/crun/internal/logger"
	"github.com/urfave/cli/v3"
)

func (a *app) historyAction(_ context.Context, cmd *cli.Command) error {
	hist := histgath.New(filepath.Join(a.dirs.AppStateDir(appName), histgath.FileName))

	if cmd.Bool("json") {
		err := hist.Dump(a.stdout)
		if errors.Is(err, histgath.ErrDamaged) {
			a.log.Warn(err.Error(), logger.Always())
			return nil
		}
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	}

	recs, err := hist.Last(int(cmd.Int("last")))
	if errors.Is(err, histgath.ErrDamaged) {
		a.log.Warn(err.Error(), logger.Always())
	} else if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(recs) == 0 {
		a.log.Info("No runs recorded yet")
		return nil
	}

	t := pretty_table.NewWriter()
	t.SetOutputMirror(a.stdout)
	t.AppendHeader(pretty_table.Row{"Time", "Command", "Exit", "Duration", "CPU max", "RAM max"})
	for _, rec := range recs {
		cpu, ram := "-", "-"
		if m := rec.Monitoring; m != nil {
			cpu = fmt.Sprintf("%d s", m.CPUMax)
			ram = fmt.Sprintf("%d MB", m.RAMMax)
		}
		t.AppendRow(pretty_table.Row{
			rec.Time.Local().Format("2006-01-02 15:04:05"),
			rec.Command,
			strconv.Itoa(rec.ExitCode),
			fmt.Sprintf("%d ms", rec.DurationMs),
			cpu,
			ram,
		})
	}
	t.SetStyle(pretty_table.StyleLight)
	if color.NoColor {
		text.DisableColors()
	}
	exitColor := text.Transformer(func(v interface{}) string {
		s, _ := v.(string)
		if s == "0" {
			return text.FgHiGreen.Sprint(s)
		}
		return text.FgHiRed.Sprint(s)
	})
	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{Name: "Exit", Transformer: exitColor, Align: text.AlignRight},
	})
	t.Render()
	return nil
}
