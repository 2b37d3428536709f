package main

import (
	"fmt"
	"log"
	"os"

	"mkto/cmd"

	_ "github.com/lib/pq"
)

func main() {
	fmt.Println(os.Getenv("commit_hash"))
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	err = apiHandler.StartApi(8000)
	if err != nil {
		log.Fatal(err)
	}
}
