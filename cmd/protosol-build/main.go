package main

import (
	"context"
	"fmt"
	"os"

	"github.com/protosol/protosol-build/internal/cli"
	"github.com/protosol/protosol-build/pkg/errors"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		classified := errors.ClassifyError(err)
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n  %v\n", classified.Diagnostic(), err)
		os.Exit(1)
	}
}
