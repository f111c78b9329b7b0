package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vadim/neo-outreach/internal/app"
	"github.com/vadim/neo-outreach/internal/config"
	"github.com/vadim/neo-outreach/internal/domain/board/entity"
	"github.com/vadim/neo-outreach/internal/domain/board/policy"
	"github.com/vadim/neo-outreach/internal/domain/board/service"
)

var (
	configPath string
	platform   string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "Operate the outreach account reassignment board",
	Long: `boardctl loads the campaign overview from the configured campaign backend and
applies board operations the way the dashboard does: moves are reconciled from a
drop position, confirmed with the campaign service and rolled back on failure.

Columns are addressed by campaign id, or by _unassigned for the unassigned bucket
of the selected platform.`,
	SilenceUsage: true,
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to environment)")
	rootCmd.PersistentFlags().StringVarP(&platform, "platform", "p", "", "platform tab: instagram or x")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log board commands to stderr")
}

func registerCommands() {
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(moveCmd())
	rootCmd.AddCommand(toggleCmd())
	rootCmd.AddCommand(toggleAllCmd(service.ActionStartAll, "Start every account of a campaign"))
	rootCmd.AddCommand(toggleAllCmd(service.ActionPauseAll, "Pause every account of a campaign"))
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the board for a platform tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd.Context(), func(ctx context.Context, b *policy.Policy) error {
				return nil
			})
		},
	}
}

func moveCmd() *cobra.Command {
	var (
		to       string
		index    int
		selected []string
	)
	cmd := &cobra.Command{
		Use:   "move <account-id>",
		Short: "Move an account (or the selection it belongs to) to another column",
		Long: `Move drops <account-id> into --to at --index. When --select is given, the listed
accounts are selected first; dragging one of them moves the whole selection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := entity.ParseColumnRef(to)
			if err != nil {
				return err
			}
			return withBoard(cmd.Context(), func(ctx context.Context, b *policy.Policy) error {
				for _, id := range selected {
					if _, err := b.ToggleSelection(id); err != nil {
						return fmt.Errorf("selecting %s: %w", id, err)
					}
				}

				view, err := b.View()
				if err != nil {
					return err
				}
				source, sourceIndex, err := locate(view, args[0])
				if err != nil {
					return err
				}

				return b.Move(ctx, service.DragEvent{
					DraggedID:   args[0],
					Source:      source,
					SourceIndex: sourceIndex,
					Dest:        dest,
					DestIndex:   index,
				})
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination column id")
	cmd.Flags().IntVar(&index, "index", 0, "position in the destination column")
	cmd.Flags().StringArrayVar(&selected, "select", []string{}, "account id to select before the move (repeatable)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <column-id> <account-id>",
		Short: "Start a paused or ready account, pause an active one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := entity.ParseColumnRef(args[0])
			if err != nil {
				return err
			}
			return withBoard(cmd.Context(), func(ctx context.Context, b *policy.Policy) error {
				return b.ToggleAccount(ctx, ref, args[1])
			})
		},
	}
}

func toggleAllCmd(action service.ToggleAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <column-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := entity.ParseColumnRef(args[0])
			if err != nil {
				return err
			}
			return withBoard(cmd.Context(), func(ctx context.Context, b *policy.Policy) error {
				return b.ToggleAll(ctx, ref, action)
			})
		},
	}
}

// withBoard loads a board, runs fn and prints the resulting tab
func withBoard(ctx context.Context, fn func(ctx context.Context, b *policy.Policy) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend, pool, err := app.NewCampaignBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	tab := cfg.Board.DefaultPlatform
	if platform != "" {
		tab = platform
	}
	p, err := entity.ParsePlatform(tab)
	if err != nil {
		return err
	}

	board := policy.New(backend, logger, policy.WithPlatform(p))
	if err := board.Refresh(ctx); err != nil {
		return err
	}

	if err := fn(ctx, board); err != nil {
		return err
	}

	view, err := board.View()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(os.Stdout, view)
	}
	renderBoard(os.Stdout, view)
	return nil
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.MustLoad(), nil
}

// locate finds the view column and position of an account on the rendered tab
func locate(view service.BoardView, accountID string) (entity.ColumnRef, int, error) {
	for _, c := range view.Columns {
		for i, a := range c.Accounts {
			if a.ID != accountID {
				continue
			}
			ref, err := entity.ParseColumnRef(c.ID)
			if err != nil {
				return entity.ColumnRef{}, 0, err
			}
			return ref, i, nil
		}
	}
	return entity.ColumnRef{}, 0, fmt.Errorf("%s: %w", accountID, entity.ErrNotVisible)
}
