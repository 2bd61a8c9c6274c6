package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	sdk "github.com/kailas-cloud/patentsim/pkg/sdk"
)

var errEmptyQuery = errors.New("please enter a patent abstract")

func queryCmd() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Rank stored patents against an abstract (reads stdin when no text is given)",
		ArgsUsage: "[TEXT...]",
		Action:    queryCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Base URL of a running patentsim server",
				EnvVars: []string{"PATENTSIM_URL"},
				Value:   "http://127.0.0.1:8080",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results (0 = all)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 60 * time.Second,
			},
		},
	}
}

func queryCommand(c *cli.Context) error {
	text, err := readQuery(c.Args().Slice(), c.App.Reader)
	if err != nil {
		return err
	}

	client, err := sdk.New(c.String("url"), sdk.WithTimeout(c.Duration("timeout")))
	if err != nil {
		return err
	}

	results, err := client.Similarity(c.Context, text, c.Int("limit"))
	if err != nil {
		return err
	}
	return printResults(c.App.Writer, results)
}

func readQuery(args []string, in io.Reader) (string, error) {
	text := strings.Join(args, " ")
	if len(args) == 0 && in != nil {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmptyQuery
	}
	return text, nil
}

func printResults(w io.Writer, results []sdk.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No similar patents found.")
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "Patent Number: %s\nSimilarity: %.4f\n\n", r.PatentNumber, r.Similarity); err != nil {
			return err
		}
	}
	return nil
}
