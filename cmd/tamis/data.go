package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	nt "tamis/entity"
	"tamis/match"
	"tamis/store/duck"
)

func whereOf(filter nt.Node) (string, []any, error) {
	return duck.Where(filter)
}

// fieldsFrom replaces the catalog with the columns of an ndjson file.
func (ap *app) fieldsFrom(data string) (err error) {

	dk, err := duck.New(ap.logger)
	if err != nil {
		return
	}
	defer dk.Close()

	err = dk.Load(ap.ctx, data)
	if err != nil {
		return
	}

	cat, err := dk.Catalog(ap.ctx)
	if err != nil {
		return
	}
	if len(cat) == 0 {
		return errors.Errorf("no columns found in %s", data)
	}

	ap.cfg.Fields = cat
	return
}

func grepCmd() *cobra.Command {

	var invert bool

	cmd := &cobra.Command{
		Use:   "grep FILE",
		Short: "Print the lines of an ndjson file passing the configured filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			ap, done, err := setup()
			defer done()
			if err != nil {
				return err
			}

			edt, err := ap.editor(nil)
			if err != nil {
				return err
			}

			mtc, err := match.New(edt.Root())
			if err != nil {
				return err
			}

			return grep(ap, mtc, args[0], invert)
		},
	}

	cmd.Flags().BoolVarP(&invert, "invert", "v", false, "Print the lines that do not pass")
	return cmd
}

func grep(ap *app, mtc *match.Matcher, name string, invert bool) (err error) {

	file, err := os.Open(name)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", name)
	}
	defer file.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	count, skipped := 0, 0
	for scanner.Scan() {
		line := scanner.Bytes()

		data := map[string]any{}
		if json.Unmarshal(line, &data) != nil {
			skipped++
			continue
		}

		if mtc.Match(match.FromMap(data)) != invert {
			count++
			out.Write(line)
			out.WriteByte('\n')
		}
	}

	err = scanner.Err()
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", name)
	}

	ap.logger.Info(ap.ctx, "grep done", "path", name, "matched", count, "skipped", skipped)
	return
}

func queryCmd() *cobra.Command {

	var offset, limit int

	cmd := &cobra.Command{
		Use:   "query FILE",
		Short: "Load an ndjson file into duckdb and page through the rows passing the configured filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			ap, done, err := setup()
			defer done()
			if err != nil {
				return err
			}

			edt, err := ap.editor(nil)
			if err != nil {
				return err
			}

			return query(ap, edt.Root(), args[0], offset, limit)
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Rows to print")
	return cmd
}

func query(ap *app, filter nt.Node, name string, offset, limit int) (err error) {

	dk, err := duck.New(ap.logger)
	if err != nil {
		return
	}
	defer dk.Close()

	err = dk.Load(ap.ctx, name)
	if err != nil {
		return
	}

	err = dk.SetView(filter)
	if err != nil {
		return
	}

	columns, count, err := dk.GetView(ap.ctx)
	if err != nil {
		return
	}

	rows, err := dk.GetPage(ap.ctx, offset, limit)
	if err != nil {
		return
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	fmt.Println(strings.Join(names, "\t"))

	for _, row := range rows {
		vals := make([]string, len(row))
		for i, val := range row {
			vals[i] = fmt.Sprint(val)
		}
		fmt.Println(strings.Join(vals, "\t"))
	}

	fmt.Printf("-- %d of %d matching rows\n", len(rows), count)
	return
}
