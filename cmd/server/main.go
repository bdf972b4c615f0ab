package main

import (
	"flag"
	"fmt"
	"fortune_wheel/internal/app"
	"fortune_wheel/pkg/pass"
	"os"
)

func main() {
	hashToken := flag.String("hash-admin-token", "", "print bcrypt hash for ADMIN_TOKEN_HASH and exit")
	flag.Parse()

	if *hashToken != "" {
		hash, err := pass.HashPassword(*hashToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	if err := app.NewApp().Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
