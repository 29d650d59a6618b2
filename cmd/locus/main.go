package main

import (
	"context"
	"os"
)

func main() {
	if err := New().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
