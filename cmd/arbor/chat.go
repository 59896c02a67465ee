package main

import (
	"context"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the demo bot on the console",
	Long:  `Runs the demo bot locally. Messages go through the Telegram processor and replies are printed instead of sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		plain, _ := cmd.Flags().GetBool("plain")

		opts := cli.ChatOptions{In: os.Stdin, Out: os.Stdout, Renderer: tui.PlainRenderer()}
		fd := int(os.Stdout.Fd())
		if !plain && term.IsTerminal(fd) {
			width, _, err := term.GetSize(fd)
			if err != nil {
				width = 0
			}
			renderer, err := tui.NewRenderer(width)
			if err != nil {
				return err
			}
			opts.Renderer = renderer
			tui.PrintBanner(os.Stdout, version)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		return cli.RunChat(ctx, cfg, logger, opts)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("plain", false, "Print replies without markdown rendering")
}
