// Command bingoctl is an operator CLI for a running bingo hall server.
// It speaks to the REST API, so it can run against any reachable instance.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "bingoctl",
		Usage: "operate a bingo hall server over its REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:8080",
				Usage:   "base URL of the server",
				Sources: cli.EnvVars("BINGOHALL_API"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "health",
				Usage: "check server health",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(cmd, "GET", "/api/health", nil)
				},
			},
			{
				Name:  "games",
				Usage: "manage games",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list all games",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return call(cmd, "GET", "/api/games", nil)
						},
					},
					{
						Name:  "create",
						Usage: "create a game",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "organizer", Required: true, Usage: "organizer user ID"},
							&cli.IntFlag{Name: "prize", Required: true, Usage: "prize in credits"},
							&cli.IntFlag{Name: "card-price", Required: true, Usage: "card price in credits"},
							&cli.StringFlag{Name: "pattern", Value: "any_line", Usage: "winning pattern"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return call(cmd, "POST", "/api/games", map[string]interface{}{
								"organizer_id": cmd.String("organizer"),
								"prize":        cmd.Int("prize"),
								"card_price":   cmd.Int("card-price"),
								"pattern":      cmd.String("pattern"),
							})
						},
					},
					{
						Name:      "start",
						Usage:     "start a waiting game",
						ArgsUsage: "<game-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "organizer", Required: true, Usage: "organizer user ID"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							gameID, err := requireArg(cmd, "game-id")
							if err != nil {
								return err
							}
							return call(cmd, "POST", "/api/games/"+gameID+"/start", map[string]string{
								"organizer_id": cmd.String("organizer"),
							})
						},
					},
					{
						Name:      "call",
						Usage:     "call a number in a running game",
						ArgsUsage: "<game-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "organizer", Required: true, Usage: "organizer user ID"},
							&cli.IntFlag{Name: "number", Required: true, Usage: "number to call (1-75)"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							gameID, err := requireArg(cmd, "game-id")
							if err != nil {
								return err
							}
							return call(cmd, "POST", "/api/games/"+gameID+"/call", map[string]interface{}{
								"organizer_id": cmd.String("organizer"),
								"number":       cmd.Int("number"),
							})
						},
					},
					{
						Name:      "delete",
						Usage:     "delete a waiting game",
						ArgsUsage: "<game-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "organizer", Required: true, Usage: "organizer user ID"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							gameID, err := requireArg(cmd, "game-id")
							if err != nil {
								return err
							}
							return call(cmd, "DELETE", "/api/games/"+gameID, map[string]string{
								"organizer_id": cmd.String("organizer"),
							})
						},
					},
				},
			},
			{
				Name:  "users",
				Usage: "manage user accounts",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list all accounts",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return call(cmd, "GET", "/api/users", nil)
						},
					},
					{
						Name:      "register",
						Usage:     "register a new account",
						ArgsUsage: "<user-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Usage: "display name"},
							&cli.StringFlag{Name: "role", Value: "player", Usage: "player, organizer or admin"},
							&cli.IntFlag{Name: "balance", Usage: "starting balance"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							userID, err := requireArg(cmd, "user-id")
							if err != nil {
								return err
							}
							return call(cmd, "POST", "/api/users", map[string]interface{}{
								"user_id": userID,
								"name":    cmd.String("name"),
								"role":    cmd.String("role"),
								"balance": cmd.Int("balance"),
							})
						},
					},
					{
						Name:      "balance",
						Usage:     "show an account's balance",
						ArgsUsage: "<user-id>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							userID, err := requireArg(cmd, "user-id")
							if err != nil {
								return err
							}
							return call(cmd, "GET", "/api/users/"+userID+"/balance", nil)
						},
					},
				},
			},
			{
				Name:  "credits",
				Usage: "manage credits and credit requests",
				Commands: []*cli.Command{
					{
						Name:  "requests",
						Usage: "list credit requests",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return call(cmd, "GET", "/api/credits/requests", nil)
						},
					},
					{
						Name:      "approve",
						Usage:     "approve a credit request",
						ArgsUsage: "<request-id>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							requestID, err := requireArg(cmd, "request-id")
							if err != nil {
								return err
							}
							return call(cmd, "POST", "/api/credits/requests/"+requestID+"/approve", nil)
						},
					},
					{
						Name:      "reject",
						Usage:     "reject a credit request",
						ArgsUsage: "<request-id>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							requestID, err := requireArg(cmd, "request-id")
							if err != nil {
								return err
							}
							return call(cmd, "POST", "/api/credits/requests/"+requestID+"/reject", nil)
						},
					},
					{
						Name:  "transfer",
						Usage: "transfer credits between accounts",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "from", Required: true, Usage: "sender user ID"},
							&cli.StringFlag{Name: "to", Required: true, Usage: "receiver user ID"},
							&cli.IntFlag{Name: "amount", Required: true, Usage: "amount in credits"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return call(cmd, "POST", "/api/credits/transfer", map[string]interface{}{
								"from_user_id": cmd.String("from"),
								"to_user_id":   cmd.String("to"),
								"amount":       cmd.Int("amount"),
							})
						},
					},
				},
			},
			{
				Name:  "raffles",
				Usage: "manage raffles",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list all raffles",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return call(cmd, "GET", "/api/raffles", nil)
						},
					},
					{
						Name:      "draw",
						Usage:     "draw a raffle winner",
						ArgsUsage: "<raffle-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "organizer", Required: true, Usage: "organizer user ID"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							raffleID, err := requireArg(cmd, "raffle-id")
							if err != nil {
								return err
							}
							return call(cmd, "POST", "/api/raffles/"+raffleID+"/draw", map[string]string{
								"organizer_id": cmd.String("organizer"),
							})
						},
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// requireArg returns the first positional argument or an error naming it.
func requireArg(cmd *cli.Command, name string) (string, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return "", fmt.Errorf("missing required argument <%s>", name)
	}
	return arg, nil
}

// call performs one API request and pretty-prints the JSON response.
func call(cmd *cli.Command, method, path string, body interface{}) error {
	url := cmd.String("api") + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		// Not JSON, print as-is
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
