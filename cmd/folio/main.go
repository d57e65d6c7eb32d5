// Command folio renders folio templates from a directory.
//
//	folio render --dir site --args args.yaml blog/post
//	folio inline --args args.yaml '<h1>{{ title | upper }}</h1>'
package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {
	err := run(context.Background(), os.Stdout, os.Stderr, os.Exit, os.Args[1:]...)
	if err != nil {
		slog.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
