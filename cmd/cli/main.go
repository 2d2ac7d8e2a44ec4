package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"bosshub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type bossListResponse struct {
	Total int           `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
	Items []models.Boss `json:"items"`
}

func main() {
	global := flag.NewFlagSet("bosshub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "games":
		handleGames(ctx, client, *baseURL, sub, args[2:])
	case "bosses":
		handleBosses(ctx, client, *baseURL, sub, args[2:])
	case "ingest":
		handleIngest(ctx, client, *baseURL, sub, args[2:])
	case "mod":
		handleMod(ctx, client, *baseURL, sub, args[2:])
	case "watch":
		handleWatch(*baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleGames(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		var resp []models.Game
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/api/games", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "create":
		fs := flag.NewFlagSet("games create", flag.ExitOnError)
		title := fs.String("title", "", "game title")
		platform := fs.String("platform", "", "platform")
		cover := fs.String("cover", "", "cover image URL")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args)
		if *title == "" {
			log.Fatal("title is required")
		}

		payload := map[string]string{
			"title":       *title,
			"platform":    *platform,
			"cover_image": *cover,
			"description": *desc,
		}
		var resp models.Game
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/games", payload, &resp); err != nil {
			log.Fatalf("create failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: bosshub games <list|create>")
	}
}

func handleBosses(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("bosses list", flag.ExitOnError)
		gameID := fs.String("game-id", "", "filter by game id")
		query := fs.String("q", "", "name substring filter")
		skip := fs.Int("skip", 0, "skip")
		limit := fs.Int("limit", 20, "page size")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/api/bosses")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *gameID != "" {
			qv.Set("game_id", *gameID)
		}
		if *query != "" {
			qv.Set("q", *query)
		}
		qv.Set("skip", fmt.Sprintf("%d", *skip))
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		u.RawQuery = qv.Encode()

		var resp bossListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("bosses show", flag.ExitOnError)
		id := fs.String("id", "", "boss id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("boss id is required")
		}

		var resp models.BossDetail
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/api/bosses/"+url.PathEscape(*id), nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: bosshub bosses <list|show>")
	}
}

func handleIngest(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "demo":
		var resp models.Game
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/ingest/demo", nil, &resp); err != nil {
			log.Fatalf("demo ingest failed: %v", err)
		}
		printJSON(resp)
	case "scheduled-run":
		var resp []models.QueueItem
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/ingest/scheduled-run", nil, &resp); err != nil {
			log.Fatalf("scheduled run failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: bosshub ingest <demo|scheduled-run>")
	}
}

func handleMod(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "submit":
		fs := flag.NewFlagSet("mod submit", flag.ExitOnError)
		source := fs.String("source", "", "origin tag, e.g. youtube")
		game := fs.String("game", "", "game title")
		boss := fs.String("boss", "", "boss name")
		title := fs.String("title", "", "strategy title")
		video := fs.String("video", "", "video URL")
		level := fs.String("level", "", "recommended level")
		_ = fs.Parse(args)
		if *source == "" || *game == "" || *boss == "" {
			log.Fatal("source, game, and boss are required")
		}

		payload := map[string]any{
			"source":            *source,
			"game_title":        *game,
			"boss_name":         *boss,
			"strategy_title":    *title,
			"video_url":         *video,
			"recommended_level": *level,
		}
		var resp models.QueueItem
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/api/mod/submit", payload, &resp); err != nil {
			log.Fatalf("submit failed: %v", err)
		}
		printJSON(resp)
	case "queue":
		fs := flag.NewFlagSet("mod queue", flag.ExitOnError)
		status := fs.String("status", "pending", "status filter")
		_ = fs.Parse(args)

		var resp []models.QueueItem
		endpoint := baseURL + "/api/mod/queue?status=" + url.QueryEscape(*status)
		if err := doJSON(ctx, client, http.MethodGet, endpoint, nil, &resp); err != nil {
			log.Fatalf("queue failed: %v", err)
		}
		printJSON(resp)
	case "approve", "reject":
		fs := flag.NewFlagSet("mod "+sub, flag.ExitOnError)
		id := fs.String("id", "", "queue item id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("queue item id is required")
		}

		var resp models.QueueItem
		endpoint := baseURL + "/api/mod/" + sub + "/" + url.PathEscape(*id)
		if err := doJSON(ctx, client, http.MethodPost, endpoint, nil, &resp); err != nil {
			log.Fatalf("%s failed: %v", sub, err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: bosshub mod <submit|queue|approve|reject>")
	}
}

func handleWatch(baseURL, sub string, args []string) {
	switch sub {
	case "ws", "":
		fs := flag.NewFlagSet("watch ws", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	case "tcp":
		fs := flag.NewFlagSet("watch tcp", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP event feed address")
		_ = fs.Parse(args)
		for {
			if err := runFeedTCP(*addr); err != nil {
				log.Printf("[watch] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	default:
		log.Fatal("usage: bosshub watch [ws|tcp]")
	}
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(strings.TrimSpace(string(msg)))
	}
}

func runFeedTCP(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("[watch] connected to %s", addr)
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		fmt.Println(sc.Text())
	}
	return sc.Err()
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = path
	return u.String(), nil
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	fmt.Println(string(b))
}

func printUsage() {
	fmt.Println(`bosshub CLI

usage:
  bosshub [-api URL] games <list|create> [flags]
  bosshub [-api URL] bosses <list|show> [flags]
  bosshub [-api URL] ingest <demo|scheduled-run>
  bosshub [-api URL] mod <submit|queue|approve|reject> [flags]
  bosshub [-api URL] watch [ws|tcp] [flags]`)
}
