package main

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/clarktrimble/sabot"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/spf13/cobra"

	"tamis"
	nt "tamis/entity"
	"tamis/util"
)

var (
	cfgFile string
	logFile string
)

type app struct {
	ctx    context.Context
	logger nt.Logger
	cfg    *tamis.Config
}

func main() {

	rootCmd := &cobra.Command{
		Use:   "tamis",
		Short: "Build and apply and/or filters over json logs",
		Long: `tamis edits a filter tree of field/operator/value rules combined with and/or groups.
The filter lives in a yaml config and can be rendered as sql or applied to newline delimited json.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tamis.yaml", "Config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "tamis.log", "Log file")

	rootCmd.AddCommand(
		editCmd(),
		whereCmd(),
		grepCmd(),
		queryCmd(),
		sampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup opens the log and loads the config, returning a func to close the log.
func setup() (ap *app, done func(), err error) {

	file := util.OpenLog(logFile, 0644)
	done = func() { util.CloseLog(file) }

	ap = &app{
		ctx:    context.Background(),
		logger: &sabot.Sabot{Writer: file},
		cfg:    &tamis.Config{},
	}

	err = util.LoadConfig(ap.cfg, cfgFile)
	if err != nil {
		ap.logger.Error(ap.ctx, "failed to load config", err, "path", cfgFile)
	}
	return
}

func (ap *app) editor(onChange tamis.Observer) (*tamis.Editor, error) {
	return ap.cfg.New(ap.ctx, onChange, ap.logger)
}

func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Write a sample config unless one exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			wrote, err := util.SampleConfig(tamis.SampleYaml, cfgFile, 0644)
			if err != nil {
				return err
			}

			if !wrote {
				fmt.Printf("%s exists, leaving it be\n", cfgFile)
				return nil
			}
			fmt.Printf("wrote %s\n", cfgFile)
			return nil
		},
	}
}

func whereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Print the configured filter as a sql where clause",
		Args:  cobra.NoArgs,
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

			return printWhere(edt.Root())
		},
	}
}

func editCmd() *cobra.Command {

	var (
		save bool
		data string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the configured filter interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			ap, done, err := setup()
			defer done()
			if err != nil {
				return err
			}

			if data != "" {
				err = ap.fieldsFrom(data)
				if err != nil {
					return err
				}
			}

			applied, err := ap.edit()
			if err != nil || applied == nil {
				return err
			}

			err = printWhere(applied)
			if err != nil || !save {
				return err
			}

			ap.cfg.Filter = nt.Tree{Root: applied}
			return util.WriteConfig(ap.cfg, cfgFile, 0644)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the applied filter back to the config")
	cmd.Flags().StringVar(&data, "data", "", "Take the field catalog from the columns of this ndjson file")
	return cmd
}

func (ap *app) edit() (applied nt.Node, err error) {

	edt, err := ap.editor(func(next, prev nt.Node) {
		ap.logger.Info(ap.ctx, "filter changed", "from", prev.Id(), "to", next.Id())
	})
	if err != nil {
		return
	}

	final, err := tea.NewProgram(newHost(ap.ctx, edt, ap.logger)).Run()
	if err != nil {
		return
	}

	applied = final.(host).applied
	return
}

func printWhere(filter nt.Node) error {

	clause, args, err := whereOf(filter)
	if err != nil {
		return err
	}

	fmt.Println(clause)
	for i, arg := range args {
		fmt.Printf("  $%d = %q\n", i+1, arg)
	}
	return nil
}
