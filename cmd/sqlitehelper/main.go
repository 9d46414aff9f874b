package main

import (
	"context"
	"log"

	"github.com/nsqlite/sqlitehelper/internal/sqlitehelper"
)

func main() {
	if err := sqlitehelper.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
