// Command devicetoken mints a signed device token for a field unit using the
// server's device token secret.
//
//	devicetoken -s secret -device unit-07 [-ttl 720h]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fieldreports/internal/flagx"
	"github.com/dmitrijs2005/fieldreports/internal/server/auth"
	"github.com/dmitrijs2005/fieldreports/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	fs := flag.NewFlagSet("devicetoken", flag.ContinueOnError)
	deviceID := fs.String("device", "", "device id to embed in the token")
	ttl := fs.Duration("ttl", cfg.DeviceTokenTTL, "token validity")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"device", "ttl"})); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *deviceID == "" || cfg.DeviceTokenSecret == "" {
		fmt.Fprintln(os.Stderr, "usage: devicetoken -s <secret> -device <id> [-ttl 720h]")
		os.Exit(2)
	}

	token, err := auth.GenerateToken(*deviceID, []byte(cfg.DeviceTokenSecret), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(token)
}
