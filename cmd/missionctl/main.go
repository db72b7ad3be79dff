// Command missionctl drives a mission server from the terminal, or plays a
// mission locally with the terminal UI.
//
//	missionctl sessions create --config hard
//	missionctl start ab12
//	missionctl submit --wait ab12 'right 3; down 2'
//	missionctl watch ab12
//	missionctl play --config classic
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/wricardo/mcp-training/t1000mission/game/config"
	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/mission"
	"github.com/wricardo/mcp-training/t1000mission/game/service"
	"github.com/wricardo/mcp-training/t1000mission/tui"
	wsstream "github.com/wricardo/mcp-training/t1000mission/transport/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	client := func(cmd *cli.Command) *apiClient {
		return newAPIClient(cmd.String("server"))
	}

	sessionArg := func(cmd *cli.Command) (string, error) {
		id := cmd.Args().First()
		if id == "" {
			return "", fmt.Errorf("session ID required")
		}
		return id, nil
	}

	return &cli.Command{
		Name:  "missionctl",
		Usage: "control T-1000 infiltration missions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "mission server base URL",
				Sources: cli.EnvVars("MISSION_SERVER"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "sessions",
				Usage: "manage sessions",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "create a session",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "mission preset ID"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							var info service.SessionInfo
							body := map[string]string{"config_id": cmd.String("config")}
							if err := client(cmd).call(ctx, "POST", "/sessions", body, &info); err != nil {
								return err
							}
							fmt.Fprintf(out, "Session %s created (config %s)\n", info.ID, info.ConfigID)
							return nil
						},
					},
					{
						Name:  "list",
						Usage: "list sessions, most recently used first",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Usage: "maximum sessions to show"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path := "/sessions"
							if limit := cmd.Int("limit"); limit > 0 {
								path += "?limit=" + strconv.Itoa(limit)
							}
							var resp struct {
								Sessions []*service.SessionInfo `json:"sessions"`
								Total    int                    `json:"total"`
							}
							if err := client(cmd).call(ctx, "GET", path, nil, &resp); err != nil {
								return err
							}
							printSessions(out, resp.Sessions)
							fmt.Fprintf(out, "%d of %d sessions\n", len(resp.Sessions), resp.Total)
							return nil
						},
					},
					{
						Name:      "get",
						Usage:     "show a session",
						ArgsUsage: "<session>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							id, err := sessionArg(cmd)
							if err != nil {
								return err
							}
							var info service.SessionInfo
							if err := client(cmd).call(ctx, "GET", sessionPath(id, ""), nil, &info); err != nil {
								return err
							}
							fmt.Fprintf(out, "Session %s (config %s)\n", info.ID, info.ConfigID)
							printState(out, info.MissionState)
							return nil
						},
					},
					{
						Name:      "delete",
						Usage:     "delete a session",
						ArgsUsage: "<session>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							id, err := sessionArg(cmd)
							if err != nil {
								return err
							}
							if err := client(cmd).call(ctx, "DELETE", sessionPath(id, ""), nil, nil); err != nil {
								return err
							}
							fmt.Fprintf(out, "Session %s deleted\n", id)
							return nil
						},
					},
				},
			},
			{
				Name:      "start",
				Usage:     "start a new mission with a random layout",
				ArgsUsage: "<session>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					var state engine.MissionState
					if err := client(cmd).call(ctx, "POST", sessionPath(id, "/mission"), map[string]any{}, &state); err != nil {
						return err
					}
					printState(out, &state)
					return nil
				},
			},
			{
				Name:      "state",
				Usage:     "show the current mission",
				ArgsUsage: "<session>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					var state engine.MissionState
					if err := client(cmd).call(ctx, "GET", sessionPath(id, "/state"), nil, &state); err != nil {
						return err
					}
					printState(out, &state)
					return nil
				},
			},
			{
				Name:      "submit",
				Usage:     "submit instructions as a script",
				ArgsUsage: "<session> <script...>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "wait", Aliases: []string{"w"}, Usage: "wait for the mission to resolve"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					src := strings.Join(cmd.Args().Tail(), " ")
					var result service.ExecutionResult
					body := map[string]any{"script": src, "wait": cmd.Bool("wait")}
					if err := client(cmd).call(ctx, "POST", sessionPath(id, "/instructions"), body, &result); err != nil {
						return err
					}
					printResult(out, &result)
					return nil
				},
			},
			{
				Name:      "plan",
				Usage:     "suggest a route to a target",
				ArgsUsage: "<session>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					var plan service.RoutePlan
					if err := client(cmd).call(ctx, "GET", sessionPath(id, "/plan"), nil, &plan); err != nil {
						return err
					}
					printPlan(out, &plan)
					return nil
				},
			},
			{
				Name:      "history",
				Usage:     "show resolved missions",
				ArgsUsage: "<session>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					query := url.Values{}
					query.Set("page", strconv.Itoa(cmd.Int("page")))
					query.Set("limit", strconv.Itoa(cmd.Int("limit")))
					var history service.HistoryResponse
					if err := client(cmd).call(ctx, "GET", sessionPath(id, "/history?"+query.Encode()), nil, &history); err != nil {
						return err
					}
					printHistory(out, &history)
					return nil
				},
			},
			{
				Name:  "configs",
				Usage: "list mission presets",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					var configs []*service.ConfigInfo
					if err := client(cmd).call(ctx, "GET", "/configs", nil, &configs); err != nil {
						return err
					}
					printConfigs(out, configs)
					return nil
				},
			},
			{
				Name:      "watch",
				Usage:     "stream render events of a session",
				ArgsUsage: "<session>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					return client(cmd).watch(ctx, id, func(msg wsstream.Message) {
						printEvent(out, msg)
					})
				},
			},
			{
				Name:  "autoplay",
				Usage: "play missions on the server with the suggested routes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "preset for a new session"},
					&cli.StringFlag{Name: "continue", Usage: "play on an existing session instead"},
					&cli.IntFlag{Name: "missions", Aliases: []string{"n"}, Value: 10, Usage: "missions to play"},
					&cli.IntFlag{Name: "poll-ms", Value: 250, Usage: "state polling interval during the preview"},
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print every mission"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c := client(cmd)
					sessionID := cmd.String("continue")
					if sessionID == "" {
						var info service.SessionInfo
						if err := c.call(ctx, "POST", "/sessions", map[string]string{"config_id": cmd.String("config")}, &info); err != nil {
							return err
						}
						sessionID = info.ID
						fmt.Fprintf(out, "Session %s created (config %s)\n", info.ID, info.ConfigID)
					}

					poll := time.Duration(max(cmd.Int("poll-ms"), 10)) * time.Millisecond
					stats, err := autoplay(ctx, c, sessionID, cmd.Int("missions"), poll, out, cmd.Bool("verbose"))
					printAutoplay(out, sessionID, stats)
					return err
				},
			},
			{
				Name:  "play",
				Usage: "play missions locally in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory of mission presets", Sources: cli.EnvVars("CONFIG_DIR")},
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "preset ID (default preset when empty)"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "load the preset from a file instead"},
					&cli.Uint64Flag{Name: "seed", Usage: "fixed random seed (random when 0)"},
					&cli.StringFlag{Name: "log", Value: "missionctl.log", Usage: "file receiving the mission log"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if !term.IsTerminal(int(os.Stdout.Fd())) {
						return fmt.Errorf("play needs an interactive terminal")
					}
					cfg, err := loadPreset(cmd.String("config-dir"), cmd.String("config"), cmd.String("file"))
					if err != nil {
						return err
					}

					// The alternate screen owns stdout while playing
					logFile, err := os.OpenFile(cmd.String("log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
					if err != nil {
						return fmt.Errorf("failed to open log file: %w", err)
					}
					defer logFile.Close()
					log.SetOutput(logFile)

					var opts []engine.Option
					if seed := cmd.Uint64("seed"); seed != 0 {
						opts = append(opts, engine.WithSeed(seed))
					}
					return tui.Run(ctx, cfg, opts, mission.LogPublisher{})
				},
			},
		},
	}
}

// loadPreset resolves the mission configuration for local play
func loadPreset(configDir, name, file string) (*engine.MissionConfig, error) {
	if file != "" {
		return config.LoadFile(file)
	}

	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}
