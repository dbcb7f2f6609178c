package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"gem.dev/launcher/internal/utils"
	"github.com/spf13/cobra"
)

func migrateCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database in line with its schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(true); err != nil {
				return err
			}
			if err := app.engine.MigrateIfNeeded(nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
			return nil
		},
	}
}

func consolesCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "consoles",
		Short: "List the configured consoles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(false); err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tEMULATOR\tROMS\tEXTENSIONS")
			for _, console := range app.engine.Consoles() {
				emulator := "-"
				if console.Emulator != nil {
					emulator = console.Emulator.Name
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", console.ID(), console.Name, emulator,
					console.Path, strings.Join(console.Extensions, ","))
			}
			return writer.Flush()
		},
	}
}

func emulatorsCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "emulators",
		Short: "List the configured emulators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(false); err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tBINARY\tINSTALLED")
			for _, emulator := range app.engine.Emulators() {
				installed := "no"
				if fields := strings.Fields(emulator.Binary); len(fields) > 0 && len(utils.ResolveBinary(fields[0])) > 0 {
					installed = "yes"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", emulator.ID(), emulator.Name, emulator.Binary, installed)
			}
			return writer.Flush()
		},
	}
}

func gamesCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "games <console>",
		Short: "List the games of a console",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(false); err != nil {
				return err
			}
			if err := app.engine.LoadConsole(cmd.Context(), args[0]); err != nil {
				return err
			}
			console, err := app.engine.Console(args[0])
			if err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tPLAYED\tPLAY TIME\tLAST LAUNCH")
			for _, game := range console.GameList() {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%s\t%s\n", game.ID, game.Name, game.Played,
					utils.FormatDuration(game.PlayTime), utils.FormatDate(game.LastLaunchDate))
			}
			return writer.Flush()
		},
	}
}

func commandCommand(app *application) *cobra.Command {
	var fullscreen bool
	cmd := &cobra.Command{
		Use:   "command <console> <game>",
		Short: "Print the command line launching a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(false); err != nil {
				return err
			}
			if err := app.engine.LoadConsole(cmd.Context(), args[0]); err != nil {
				return err
			}
			argv, err := app.engine.BuildCommand(args[0], args[1], app.fullscreen(cmd, fullscreen))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(argv, " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "Use the fullscreen arguments, defaults to the preference")
	return cmd
}

func launchCommand(app *application) *cobra.Command {
	var fullscreen bool
	cmd := &cobra.Command{
		Use:   "launch <console> <game>",
		Short: "Run a game and record the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(false); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := app.engine.LoadConsole(ctx, args[0]); err != nil {
				return err
			}
			session, err := app.engine.Launch(args[0], args[1], app.fullscreen(cmd, fullscreen))
			if err != nil {
				return err
			}
			for {
				select {
				case result := <-app.engine.SessionEvents():
					if err = app.engine.CompleteSession(result); err != nil {
						return err
					}
					if result.Errored() {
						return result.Err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Played for %s\n", utils.FormatDuration(result.Elapsed))
					return nil
				case <-ctx.Done():
					if err = app.engine.Terminate(session.ConsoleID, session.GameID); err != nil {
						return err
					}
					// Wait for the terminated session to report
					ctx = context.Background()
				}
			}
		},
	}
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "Use the fullscreen arguments, defaults to the preference")
	return cmd
}
