// Package main provides guardctl, a thin client for the guardd admin API.
//
// Usage:
//
//	guardctl -server http://localhost:8080 -caller <addr> enable-trading
//	guardctl -caller <addr> phase -phase normal
//	guardctl -caller <addr> limits -max-tx 10000000 -max-wallet 20000000
//	guardctl -caller <addr> blacklist -address <addr> -flag=true
//	guardctl token
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	server := flag.String("server", envOr("GUARD_SERVER", "http://localhost:8080"), "guardd base URL")
	caller := flag.String("caller", os.Getenv("GUARD_CALLER"), "Caller address for admin operations")
	address := flag.String("address", "", "Target address")
	addresses := flag.String("addresses", "", "Comma-separated target addresses (blacklist-batch)")
	boolFlag := flag.Bool("flag", true, "Membership flag for set toggles")
	phase := flag.String("phase", "", "Trading phase (disabled, restricted, normal)")
	maxTx := flag.Uint64("max-tx", 0, "Max transaction amount")
	maxWallet := flag.Uint64("max-wallet", 0, "Max wallet amount")
	cooldown := flag.Int64("cooldown", 0, "Cooldown seconds")
	asset := flag.String("asset", "", "Asset address for emergency-withdraw (empty = native)")
	amount := flag.Uint64("amount", 0, "Amount for emergency-withdraw")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one command is required")
		fmt.Fprintln(os.Stderr, "Commands: enable-trading, phase, limits, cooldown, exclude, blacklist,")
		fmt.Fprintln(os.Stderr, "  blacklist-batch, mark-bot, pause, unpause, emergency-pause,")
		fmt.Fprintln(os.Stderr, "  emergency-withdraw, transfer-ownership, accept-ownership,")
		fmt.Fprintln(os.Stderr, "  renounce-ownership, token, launch, cooldown-of")
		os.Exit(2)
	}
	command := flag.Arg(0)

	client := &http.Client{Timeout: *timeout}

	// Read views need no caller.
	switch command {
	case "token":
		get(client, *server+"/v1/token")
		return
	case "launch":
		get(client, *server+"/v1/launch")
		return
	case "cooldown-of":
		if *address == "" {
			fatal("--address is required")
		}
		get(client, *server+"/v1/cooldown/"+*address)
		return
	}

	if *caller == "" {
		fatal("--caller is required for admin commands")
	}

	body := map[string]any{"caller": *caller}
	var path string

	switch command {
	case "enable-trading":
		path = "/v1/admin/enable-trading"
	case "phase":
		if *phase == "" {
			fatal("--phase is required")
		}
		path = "/v1/admin/phase"
		body["phase"] = *phase
	case "limits":
		path = "/v1/admin/limits"
		body["max_transaction_amount"] = *maxTx
		body["max_wallet_amount"] = *maxWallet
	case "cooldown":
		path = "/v1/admin/cooldown"
		body["cooldown_seconds"] = *cooldown
	case "exclude":
		requireAddress(*address)
		path = "/v1/admin/exclude"
		body["address"] = *address
		body["flag"] = *boolFlag
	case "blacklist":
		requireAddress(*address)
		path = "/v1/admin/blacklist"
		body["address"] = *address
		body["flag"] = *boolFlag
	case "blacklist-batch":
		if *addresses == "" {
			fatal("--addresses is required")
		}
		path = "/v1/admin/blacklist-batch"
		body["addresses"] = strings.Split(*addresses, ",")
		body["flag"] = *boolFlag
	case "mark-bot":
		requireAddress(*address)
		path = "/v1/admin/mark-bot"
		body["address"] = *address
	case "pause":
		path = "/v1/admin/pause"
	case "unpause":
		path = "/v1/admin/unpause"
	case "emergency-pause":
		path = "/v1/admin/emergency-pause"
	case "emergency-withdraw":
		path = "/v1/admin/emergency-withdraw"
		body["asset"] = *asset
		body["amount"] = *amount
	case "transfer-ownership":
		requireAddress(*address)
		path = "/v1/admin/transfer-ownership"
		body["address"] = *address
	case "accept-ownership":
		path = "/v1/admin/accept-ownership"
	case "renounce-ownership":
		path = "/v1/admin/renounce-ownership"
	default:
		fatal(fmt.Sprintf("unknown command %q", command))
	}

	post(client, *server+path, body)
}

func get(client *http.Client, url string) {
	resp, err := client.Get(url)
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func post(client *http.Client, url string, body map[string]any) {
	payload, err := json.Marshal(body)
	if err != nil {
		fatal(err.Error())
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		fatal(err.Error())
	}
	fmt.Println(strings.TrimSpace(string(data)))
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

func requireAddress(addr string) {
	if addr == "" {
		fatal("--address is required")
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "Error: "+msg)
	os.Exit(1)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
