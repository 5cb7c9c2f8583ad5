package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/envdoctor/cmd/envdoctor"
)

func main() {
	os.Exit(actualMain())
}

func actualMain() int {
	ctx := context.Background()

	rootCmd := envdoctor.NewRootCmd(ctx)

	if err := envdoctor.ExecuteWithFang(ctx, rootCmd); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}
