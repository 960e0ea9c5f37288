// Command x402pay fetches a URL through the payment-aware client,
// paying a 402 automatically when the configured signer can satisfy it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/girderdev/x402-sdk/client"
	"github.com/girderdev/x402-sdk/config"
	"github.com/girderdev/x402-sdk/logger"
)

func main() {
	url := flag.String("url", "", "URL to fetch")
	flag.Parse()
	if *url == "" {
		fmt.Fprintln(os.Stderr, "usage: x402pay -url <url>")
		os.Exit(2)
	}

	if err := run(*url); err != nil {
		fmt.Fprintln(os.Stderr, "x402pay:", err)
		os.Exit(1)
	}
}

func run(url string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewZapLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := config.NewSigner(ctx, cfg.Signer)
	if err != nil {
		return err
	}

	opts := []client.Option{
		client.WithLogger(log),
		client.WithTimeout(time.Duration(cfg.Client.TimeoutSec) * time.Second),
		client.WithAutoPay(cfg.Client.AutoPay),
	}
	if ceiling, err := cfg.Client.MaxAmountValue(); err != nil {
		return err
	} else if ceiling != nil {
		opts = append(opts, client.WithMaxAmount(ceiling))
	}

	c := client.New(s, opts...)
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", resp.Proto, resp.Status)
	fmt.Println(string(body))
	return nil
}
