package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/pushpull/frp"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "cpuprofile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Propagate through width x height chains in push, pull and moment mode",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Pushes per graph shape",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile here, empty to disable",
				Value: "default.pgo",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func addOne(v int) int {
	return v + 1
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	log.Printf("warming up")

	benchmarkPush(iters, true)
	benchmarkPull(iters, true)
	benchmarkMoment(iters, true)
	return nil
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendResult(tbl table.Writer, w, h int, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			fmt.Sprintf("propagate: %d * %d", w, h),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func chain(src frp.Behavior[int], h int) frp.Behavior[int] {
	last := src
	for j := 0; j < h; j++ {
		last = frp.Map(last, addOne)
	}
	return last
}

// Every tail is observed, so each push walks the whole graph.
func benchmarkPush(iters int, shouldRender bool) {
	tbl := newTable("Push")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sys := frp.NewSystem()
			src := frp.NewSinkBehavior(sys, 1)
			stops := make([]func(), 0, w)
			for i := 0; i < w; i++ {
				stops = append(stops, chain(src.Behavior, h).Subscribe(func(int) {}))
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Push(src.At() + 1)
				tach.AddTime(time.Since(start))
			}
			for _, stop := range stops {
				stop()
			}

			appendResult(tbl, w, h, tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// Nothing is observed; each tail is sampled after the push.
func benchmarkPull(iters int, shouldRender bool) {
	tbl := newTable("Pull")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sys := frp.NewSystem()
			src := frp.NewSinkBehavior(sys, 1)
			tails := make([]frp.Behavior[int], 0, w)
			for i := 0; i < w; i++ {
				tails = append(tails, chain(src.Behavior, h))
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Push(src.At() + 1)
				for _, tail := range tails {
					tail.At()
				}
				tach.AddTime(time.Since(start))
			}

			appendResult(tbl, w, h, tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// Each column is a moment over its chain, so dependencies are tracked dynamically.
func benchmarkMoment(iters int, shouldRender bool) {
	tbl := newTable("Moment")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sys := frp.NewSystem()
			src := frp.NewSinkBehavior(sys, 1)
			stops := make([]func(), 0, w)
			for i := 0; i < w; i++ {
				tail := chain(src.Behavior, h)
				m := frp.Moment(sys, func(m *frp.MomentScope) int {
					return frp.At(m, tail) + frp.At(m, src.Behavior)
				})
				stops = append(stops, m.Subscribe(func(int) {}))
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Push(src.At() + 1)
				tach.AddTime(time.Since(start))
			}
			for _, stop := range stops {
				stop()
			}

			appendResult(tbl, w, h, tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
