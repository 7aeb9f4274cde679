package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/andygrunwald/go-jira"
	"github.com/joho/godotenv"
	"github.com/kitproj/jira2json/internal/config"
	"github.com/kitproj/jira2json/internal/export"
)

var (
	baseURL    string
	token      string
	jql        string
	output     string
	maxResults int
	pageSize   int
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load .env first so its values are visible to the flag defaults below.
	_ = godotenv.Load()

	flag.StringVar(&baseURL, "u", os.Getenv("JIRA_BASE_URL"), "base URL of the Jira server (e.g., https://jira.example.com, defaults to JIRA_BASE_URL env var)")
	flag.StringVar(&token, "t", os.Getenv("JIRA_TOKEN"), "Jira API token (defaults to JIRA_TOKEN env var)")
	flag.StringVar(&jql, "q", os.Getenv("JIRA_JQL"), "JQL filter, empty selects all issues (defaults to JIRA_JQL env var)")
	flag.StringVar(&output, "o", "jira_issues.jsonl", "output file path, '-' for stdout")
	flag.IntVar(&maxResults, "n", envInt("JIRA_MAX_RESULTS", 0), "maximum number of issues to export, 0 for all")
	flag.IntVar(&pageSize, "b", envInt("JIRA_PAGE_SIZE", export.DefaultPageSize), "number of issues fetched per request")
	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage:")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  jira2json export - Export the issues matching the JQL filter as JSON lines")
		fmt.Fprintln(w, "  jira2json count - Print the number of issues matching the JQL filter")
		fmt.Fprintln(w, "  jira2json configure <host> - Save the host and token for later runs")
		fmt.Fprintln(w, "  jira2json mcp-server - Serve the export tools over MCP on stdio")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := "export"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "configure":
		if len(args) < 2 {
			return fmt.Errorf("host is required: jira2json configure <host>")
		}
		return configure(args[1])
	case "export":
		client, err := newClient()
		if err != nil {
			return err
		}
		return exportIssues(ctx, client)
	case "count":
		client, err := newClient()
		if err != nil {
			return err
		}
		return countIssues(ctx, client)
	case "mcp-server":
		return runMCPServer(ctx)
	default:
		return fmt.Errorf("unknown sub-command: %s", cmd)
	}
}

// resolveConnection returns the base URL and token for this run: flags and
// env vars first, then the saved configuration.
func resolveConnection() (string, string, error) {
	url := baseURL
	if url == "" {
		if cfg, err := config.LoadConfig(); err == nil {
			url = cfg.Host
		}
	}
	if url == "" {
		return "", "", fmt.Errorf("base URL is required (use -u, JIRA_BASE_URL, or 'jira2json configure')")
	}

	tok := token
	if tok == "" {
		if t, err := config.LoadToken(url); err == nil {
			tok = t
		}
	}
	if tok == "" {
		return "", "", fmt.Errorf("token is required (use -t, JIRA_TOKEN, or 'jira2json configure')")
	}

	return url, tok, nil
}

func newClient() (*jira.Client, error) {
	url, tok, err := resolveConnection()
	if err != nil {
		return nil, err
	}

	tp := jira.BearerAuthTransport{Token: tok}
	client, err := jira.NewClient(tp.Client(), url)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}
	return client, nil
}

func configure(host string) error {
	if token == "" {
		return fmt.Errorf("token is required (use -t or JIRA_TOKEN)")
	}
	if err := config.SaveConfig(host); err != nil {
		return err
	}
	if err := config.SaveToken(host, token); err != nil {
		return err
	}
	fmt.Printf("Configured %s\n", host)
	return nil
}

func exportIssues(ctx context.Context, client *jira.Client) error {
	var out io.Writer = os.Stdout
	var file *os.File
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		file = f
		out = f
	}

	it := export.NewIterator(ctx, client, export.Query{
		JQL:        jql,
		PageSize:   pageSize,
		MaxResults: maxResults,
	})
	count, err := export.WriteJSONLines(out, it)

	if file != nil {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}
	if err != nil {
		return err
	}

	if file != nil {
		fmt.Fprintf(os.Stderr, "Exported %d issues to %s\n", count, output)
	}
	return nil
}

func countIssues(ctx context.Context, client *jira.Client) error {
	total, err := export.Count(ctx, client, jql)
	if err != nil {
		return err
	}
	fmt.Println(total)
	return nil
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
