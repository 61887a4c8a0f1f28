package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pior/redis"
	"github.com/pior/redis/resp"
)

var (
	addr     string
	poolSize int32
	username string
	password string
)

var rootCmd = &cobra.Command{
	Use:   "redis-cli",
	Short: "interactive RESP client",
	Long: `redis-cli reads commands from stdin and sends them through a pooled
RESP client. Replies are pretty-printed; error replies are shown inline
without terminating the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := redis.NewClient(addr, redis.Config{
			PoolSize: poolSize,
			Hello: redis.Hello{
				Username:   username,
				Password:   password,
				ClientName: "redis-cli",
			},
		})
		if err != nil {
			return err
		}
		defer client.Close()

		return repl(client)
	},
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:6379", "server address (host:port)")
	rootCmd.Flags().Int32Var(&poolSize, "pool-size", redis.DefaultPoolSize, "maximum pooled connections")
	rootCmd.Flags().StringVar(&username, "user", "", "username sent in the handshake")
	rootCmd.Flags().StringVar(&password, "pass", "", "password sent in the handshake")
}

func repl(client *redis.Client) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s> ", client.Addr())
		if !scanner.Scan() {
			break
		}

		parts := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(parts) == 0 {
			continue
		}

		switch strings.ToLower(parts[0]) {
		case "quit", "exit":
			return nil
		case "stats":
			printStats(client)
			continue
		}

		args := make([]any, len(parts)-1)
		for i, p := range parts[1:] {
			args[i] = p
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		value, err := client.Do(ctx, strings.ToUpper(parts[0]), args...)
		cancel()

		if err != nil {
			var serverErr *resp.ServerError
			if errors.As(err, &serverErr) {
				fmt.Printf("(error) %s\n", serverErr.Message)
			} else {
				fmt.Printf("error: %v\n", err)
			}
			continue
		}
		fmt.Println(value.String())
	}
	return scanner.Err()
}

func printStats(client *redis.Client) {
	stats := client.Stats()
	poolStats := client.PoolStats()

	fmt.Printf("commands: %d  transactions: %d  scans: %d  errors: %d\n",
		stats.Commands, stats.Transactions, stats.Scans, stats.Errors)
	fmt.Printf("pool: acquired=%d waited=%d created=%d destroyed=%d idle=%d active=%d\n",
		poolStats.AcquireCount, poolStats.AcquireWaitCount,
		poolStats.CreatedConns, poolStats.DestroyedConns,
		poolStats.IdleConns, poolStats.ActiveConns)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
