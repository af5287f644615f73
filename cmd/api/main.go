package main

import (
	"log"
	"os"

	"momentumlab/cmd"
)

func main() {
	deps, err := cmd.InitializeDependencies(os.Getenv("LAB_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	err = deps.NewApiHandler().StartApi(deps.Config.Server.Port)
	if err != nil {
		log.Fatal(err)
	}
}
