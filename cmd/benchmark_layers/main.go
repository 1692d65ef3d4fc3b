package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/pushpull/frp"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	repeatsKey = "repeats"
	observeKey = "observe"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_layers",
		Usage: "Run layered graphs of static and dynamic nodes through frp",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Timed runs per config, the best one is reported",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  observeKey,
				Usage: "Subscribe to the read leaves so changes are pushed instead of pulled",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var perfTestCfgs = []benchmarkTestConfig{
	{
		name:           "simple component",
		width:          10,
		staticFraction: 1,
		nSources:       2,
		totalLayers:    5,
		readFraction:   0.2,
		iterations:     60000,
	},
	{
		name:           "dynamic component",
		width:          10,
		totalLayers:    10,
		staticFraction: 0.75,
		nSources:       6,
		readFraction:   0.2,
		iterations:     15000,
	},
	{
		name:           "large web app",
		width:          1000,
		totalLayers:    12,
		staticFraction: 0.95,
		nSources:       4,
		readFraction:   1,
		iterations:     700,
	},
	{
		name:           "wide dense",
		width:          1000,
		totalLayers:    5,
		staticFraction: 1,
		nSources:       25,
		readFraction:   1,
		iterations:     300,
	},
	{
		name:           "deep",
		width:          5,
		totalLayers:    500,
		staticFraction: 1,
		nSources:       3,
		readFraction:   1,
		iterations:     500,
	},
	{
		name:           "very dynamic",
		width:          100,
		totalLayers:    15,
		staticFraction: 0.5,
		nSources:       6,
		readFraction:   1,
		iterations:     2000,
	},
}

type results struct {
	sum      int
	count    int64
	checksum uint64
	duration time.Duration
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting layers benchmark, please wait...")
	defer log.Print("Finished layers benchmark")

	mode := "pull"
	if cmd.Bool(observeKey) {
		mode = "push"
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"mode", "size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "updateRate", "checksum", "title",
	})

	testRepeats := int(cmd.Uint(repeatsKey))
	for _, cfg := range perfTestCfgs {
		log.Printf("Running '%s' config", cfg.name)

		runOnce := func(counter *int64) (int, uint64) {
			sys := frp.NewSystem()
			graph := benchmarkMakeGraph(sys, &benchmarkMakeGraphConfig{
				counter:        counter,
				width:          cfg.width,
				totalLayers:    cfg.totalLayers,
				nSources:       cfg.nSources,
				staticFraction: cfg.staticFraction,
			})
			return benchmarkRunGraph(&benchmarkRunGraphConfig{
				graph:        graph,
				iteration:    cfg.iterations,
				readFraction: cfg.readFraction,
				observe:      cmd.Bool(observeKey),
			})
		}
		// run once to warm up
		_, want := runOnce(new(int64))

		bestResult := &results{
			duration: time.Hour,
		}

		for i := 0; i < testRepeats; i++ {
			log.Printf("Running '%s' config, iteration %d/%d %d%%", cfg.name, i+1, testRepeats, (i+1)*100/testRepeats)
			counter := new(int64)
			start := time.Now()
			sum, checksum := runOnce(counter)
			duration := time.Since(start)
			if checksum != want {
				return fmt.Errorf("%s: run %d observed %016x, want %016x", cfg.name, i, checksum, want)
			}

			if duration < bestResult.duration {
				bestResult.duration = duration
				bestResult.sum = sum
				bestResult.count = *counter
				bestResult.checksum = checksum
			}
		}

		makeTitle := func() string {
			sb := strings.Builder{}
			sb.WriteString(fmt.Sprintf("%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources))
			if cfg.staticFraction < 1 {
				sb.WriteString(" dynamic")
			}
			if cfg.readFraction < 1 {
				sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*cfg.readFraction))
			}
			return sb.String()
		}

		updateRate := float64(bestResult.count) / (float64(bestResult.duration) / float64(time.Millisecond))

		table.Append([]string{
			mode,
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(bestResult.duration),
			humanize.Comma(int64(updateRate)),
			fmt.Sprintf("%016x", bestResult.checksum),
			makeTitle(),
		})
	}
	table.Render()
	return nil
}

type benchmarkTestConfig struct {
	name           string  // friendly name for the test, should be unique
	width          int64   // width of dependency graph to construct
	totalLayers    int64   // depth of dependency graph to construct
	staticFraction float64 // fraction of nodes that are static
	nSources       int64   // construct a graph with number of sources in each node
	readFraction   float64 // fraction of [0, 1] elements in the last layer from which to read values in each test iteration
	iterations     int64   // number of test iterations
}

type benchmarkGraph struct {
	sources []frp.SinkBehavior[int]
	layers  [][]frp.Behavior[int]
}

type benchmarkMakeGraphConfig struct {
	counter                      *int64
	width, totalLayers, nSources int64
	staticFraction               float64
}

func benchmarkMakeGraph(sys *frp.System, cfg *benchmarkMakeGraphConfig) *benchmarkGraph {
	sinks := make([]frp.SinkBehavior[int], cfg.width)
	sources := make([]frp.Behavior[int], cfg.width)
	for i := range sinks {
		sinks[i] = frp.NewSinkBehavior(sys, i)
		sources[i] = sinks[i].Behavior
	}
	return &benchmarkGraph{
		sources: sinks,
		layers: makeBenchmarkDependentRows(&benchmarkMakeDependentRowsConfig{
			sys:            sys,
			sources:        sources,
			numRows:        cfg.totalLayers - 1,
			counter:        cfg.counter,
			staticFraction: cfg.staticFraction,
			nSources:       cfg.nSources,
		}),
	}
}

type benchmarkRunGraphConfig struct {
	graph        *benchmarkGraph
	iteration    int64
	readFraction float64
	observe      bool
}

// benchmarkRunGraph writes one source per iteration and reads some or all of
// the leaves. It returns the sum of the final leaf values and a checksum of
// every value read along the way.
func benchmarkRunGraph(cfg *benchmarkRunGraphConfig) (int, uint64) {
	random := rand.New(rand.NewSource(0))
	leaves := cfg.graph.layers[len(cfg.graph.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := benchmarkRemoveElems(leaves, skipCount, random)

	if cfg.observe {
		for _, leaf := range readLeaves {
			defer leaf.Subscribe(func(int) {})()
		}
	}

	digest := xxhash.New()
	buf := make([]byte, 0, 8)
	for i := 0; i < int(cfg.iteration); i++ {
		sourceDex := i % len(cfg.graph.sources)
		cfg.graph.sources[sourceDex].Push(i + sourceDex)

		for _, leaf := range readLeaves {
			buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(leaf.At()))
			digest.Write(buf)
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.At()
	}
	return sum, digest.Sum64()
}

func benchmarkRemoveElems[T any](src []T, rmCount int, rand *rand.Rand) []T {
	copyWithRemovals := make([]T, len(src))
	copy(copyWithRemovals, src)
	for i := 0; i < rmCount; i++ {
		rmDex := rand.Intn(len(copyWithRemovals))
		copyWithRemovals[rmDex] = copyWithRemovals[len(copyWithRemovals)-1]
		copyWithRemovals = copyWithRemovals[:len(copyWithRemovals)-1]
	}
	return copyWithRemovals
}

type benchmarkMakeDependentRowsConfig struct {
	sys               *frp.System
	sources           []frp.Behavior[int]
	numRows, nSources int64
	counter           *int64
	staticFraction    float64
}

func makeBenchmarkDependentRows(cfg *benchmarkMakeDependentRowsConfig) [][]frp.Behavior[int] {
	prevRow := cfg.sources

	random := rand.New(rand.NewSource(0))
	rows := make([][]frp.Behavior[int], cfg.numRows)
	for l := int64(0); l < cfg.numRows; l++ {
		rows[l] = makeBenchmarkRow(&benchmarkRowConfig{
			sys:            cfg.sys,
			sources:        prevRow,
			counter:        cfg.counter,
			staticFraction: cfg.staticFraction,
			nSources:       cfg.nSources,
			rand:           random,
		})
		prevRow = rows[l]
	}
	return rows
}

type benchmarkRowConfig struct {
	sys            *frp.System
	sources        []frp.Behavior[int]
	counter        *int64
	staticFraction float64
	nSources       int64
	rand           *rand.Rand
}

func makeBenchmarkRow(cfg *benchmarkRowConfig) []frp.Behavior[int] {
	row := make([]frp.Behavior[int], len(cfg.sources))

	for myDex := range cfg.sources {
		mySources := make([]frp.Behavior[int], 0, cfg.nSources)
		for sourceDex := 0; sourceDex < int(cfg.nSources); sourceDex++ {
			mySources = append(mySources, cfg.sources[(myDex+sourceDex)%len(cfg.sources)])
		}

		if cfg.rand.Float64() < cfg.staticFraction {
			row[myDex] = staticNode(cfg, mySources)
		} else {
			row[myDex] = dynamicNode(cfg, mySources)
		}
	}
	return row
}

// staticNode sums its sources as a tree of lifts.
func staticNode(cfg *benchmarkRowConfig, sources []frp.Behavior[int]) frp.Behavior[int] {
	add := func(a, b int) int {
		*cfg.counter++
		return a + b
	}
	for len(sources) > 1 {
		next := make([]frp.Behavior[int], 0, (len(sources)+1)/2)
		for i := 0; i+1 < len(sources); i += 2 {
			next = append(next, frp.Lift2(add, sources[i], sources[i+1]))
		}
		if len(sources)%2 == 1 {
			next = append(next, sources[len(sources)-1])
		}
		sources = next
	}
	return sources[0]
}

// dynamicNode reads its first source and, depending on its parity, skips one
// of the others. Even nodes track their reads in a moment; odd nodes select
// among prebuilt sums with flatMap.
func dynamicNode(cfg *benchmarkRowConfig, sources []frp.Behavior[int]) frp.Behavior[int] {
	first, tail := sources[0], sources[1:]
	if len(tail) == 0 {
		return first
	}
	sumTail := func(m *frp.MomentScope, dropDex int) int {
		sum := 0
		for i, b := range tail {
			if i != dropDex {
				sum += frp.At(m, b)
			}
		}
		return sum
	}

	if cfg.rand.Intn(2) == 0 {
		return frp.Moment(cfg.sys, func(m *frp.MomentScope) int {
			*cfg.counter++
			sum := frp.At(m, first)
			dropDex := -1
			if sum&0x1 > 0 {
				dropDex = sum % len(tail)
			}
			return sum + sumTail(m, dropDex)
		})
	}

	variants := make([]frp.Behavior[int], len(tail)+1)
	for d := range variants {
		dropDex := d - 1
		variants[d] = frp.Moment(cfg.sys, func(m *frp.MomentScope) int {
			*cfg.counter++
			return sumTail(m, dropDex)
		})
	}
	chosen := frp.FlatMap(first, func(sum int) frp.Behavior[int] {
		if sum&0x1 > 0 {
			n := len(tail)
			return variants[(sum%n+n)%n+1]
		}
		return variants[0]
	})
	return frp.Lift2(func(a, b int) int { return a + b }, first, chosen)
}
