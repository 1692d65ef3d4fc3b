package main

import (
	"context"
	"go/format"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/delaneyj/pushpull/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	arityKey = "count"
	outKey   = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate arity-N lift combinators for frp",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  arityKey,
				Usage: "Highest arity to generate Lift and LiftFuture for",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "File to write",
				Value: filepath.Join("frp", "lift_gen.go"),
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for frp lifts started !")
	defer func() {
		log.Printf("Codegen for frp lifts finished in %v", time.Since(start))
	}()

	count := int(cmd.Uint(arityKey))
	if count < 2 {
		return cli.Exit("count must be at least 2", 1)
	}
	log.Printf("Arity: 2..%d", count)

	contents, err := format.Source([]byte(templates.LiftGen(count)))
	if err != nil {
		return err
	}
	return os.WriteFile(cmd.String(outKey), contents, 0644)
}
