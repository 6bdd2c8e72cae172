package main

import (
	"os"

	cityguidecmder "github.com/czestoguide/cityguide/cmd/cityguide"
)

func main() {
	cmd := cityguidecmder.NewCityguideCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
