package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/config"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/directory"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/profile"
)

func main() {
	apiFlag := flag.String("api", "", "API base URL (overrides config)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(profile.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *apiFlag != "" {
		cfg.APIBase = *apiFlag
	}

	client := directory.NewClient(cfg.APIBase)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch args[0] {
	case "rooms":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: wschatctl rooms <list|create <name>>")
			os.Exit(1)
		}
		switch args[1] {
		case "list":
			cmdRoomsList(ctx, client, *jsonFlag)
		case "create":
			if len(args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: wschatctl rooms create <name>")
				os.Exit(1)
			}
			cmdRoomsCreate(ctx, client, args[2], *jsonFlag)
		default:
			fmt.Fprintf(os.Stderr, "unknown rooms subcommand: %s\n", args[1])
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: wschatctl [--api <url>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  rooms list            List rooms")
	fmt.Fprintln(os.Stderr, "  rooms create <name>   Create a room")
}

func cmdRoomsList(ctx context.Context, client *directory.Client, jsonOut bool) {
	rooms, err := client.ListRooms(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if jsonOut {
		outputJSON(rooms)
		return
	}
	if len(rooms) == 0 {
		fmt.Println("No rooms found.")
		return
	}
	for _, r := range rooms {
		fmt.Printf("%-24s %-30s %d members\n", r.ID, r.Name, r.MemberCount)
	}
}

func cmdRoomsCreate(ctx context.Context, client *directory.Client, name string, jsonOut bool) {
	room, err := client.CreateRoom(ctx, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if jsonOut {
		outputJSON(room)
		return
	}
	fmt.Printf("Created room %q (%s)\n", room.Name, room.ID)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
