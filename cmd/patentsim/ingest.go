package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/patentsim/internal/config"
	patentrepo "github.com/kailas-cloud/patentsim/internal/repository/patent"
	ingestuc "github.com/kailas-cloud/patentsim/internal/usecase/ingest"
)

func ingestCmd() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Scrape patent pages and store them",
		ArgsUsage: "[NUMBER...]",
		Action:    ingestCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   `JSON file of the form {"patent_numbers": [...]}`,
			},
		},
	}
}

func ingestCommand(c *cli.Context) error {
	st := stateFrom(c)

	numbers, err := configuredNumbers(st.cfg, c.String("file"), c.Args().Slice())
	if err != nil {
		return err
	}
	if len(numbers) == 0 {
		return errors.New("no patent numbers given: pass them as arguments, --file or ingest.patent_numbers")
	}

	store, err := openStore(c.Context, st.cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := newIngestService(st.cfg, patentrepo.New(store.DB()), st.logger)
	summary, err := svc.Ingest(c.Context, numbers)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	_, err = fmt.Fprintf(c.App.Writer,
		"Requested %d, inserted %d, duplicates %d, failed %d, skipped %d\n",
		summary.Requested, summary.Inserted, summary.Duplicates, summary.Failed, summary.Skipped)
	return err
}

// configuredNumbers merges the config list, the numbers file and extra args.
// file overrides ingest.patent_numbers_file when set.
func configuredNumbers(cfg config.Config, file string, args []string) ([]string, error) {
	lists := [][]string{cfg.Ingest.PatentNumbers}

	if file == "" {
		file = cfg.Ingest.PatentNumbersFile
	}
	if file != "" {
		fromFile, err := ingestuc.LoadNumbers(file)
		if err != nil {
			return nil, err
		}
		lists = append(lists, fromFile)
	}

	lists = append(lists, args)
	return ingestuc.MergeNumbers(lists...), nil
}
