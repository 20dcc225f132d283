package main

import (
	"fmt"

	"github.com/sizzle/labelpress/internal/domain"
	"github.com/sizzle/labelpress/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	productID     string
	labelFontSize string
	labelOut      string

	menuChannel  string
	menuWeek     int
	menuVegan    bool
	menuFontSize string
	menuOut      string
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Render the label sheet of one product",
	RunE:  runLabel,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Render the weekly menu of a channel",
	RunE:  runMenu,
}

func init() {
	labelCmd.Flags().StringVar(&productID, "id", "", "product ID (required)")
	labelCmd.Flags().StringVar(&labelFontSize, "font-size", "", "normal, small or smaller (default: stored with the product)")
	labelCmd.Flags().StringVarP(&labelOut, "out", "o", "", "output file, - for stdout (default: label-<id>.pdf)")
	labelCmd.MarkFlagRequired("id")

	menuCmd.Flags().StringVarP(&menuChannel, "channel", "c", "standard", "standard, storytel or snack")
	menuCmd.Flags().IntVarP(&menuWeek, "week", "w", 0, "ISO week number (required)")
	menuCmd.Flags().BoolVar(&menuVegan, "vegan", false, "only vegan products")
	menuCmd.Flags().StringVar(&menuFontSize, "font-size", "normal", "normal, small or smaller")
	menuCmd.Flags().StringVarP(&menuOut, "out", "o", "", "output file, - for stdout (default: menu-<channel>-week<NN>.pdf)")
	menuCmd.MarkFlagRequired("week")
}

func runLabel(cmd *cobra.Command, args []string) error {
	var size domain.FontSize
	if labelFontSize != "" {
		var err error
		if size, err = domain.ParseFontSize(labelFontSize); err != nil {
			return err
		}
	}

	doc, err := application.Documents.Label(cmd.Context(), productID, size)
	if err != nil {
		return err
	}
	return save(cmd, doc, labelOut)
}

func runMenu(cmd *cobra.Command, args []string) error {
	channel, err := domain.ParseChannel(menuChannel)
	if err != nil {
		return err
	}
	size, err := domain.ParseFontSize(menuFontSize)
	if err != nil {
		return err
	}

	doc, err := application.Documents.Menu(cmd.Context(), usecase.MenuRequest{
		Week:      menuWeek,
		Channel:   channel,
		VeganOnly: menuVegan,
		FontSize:  size,
	})
	if err != nil {
		return err
	}
	return save(cmd, doc, menuOut)
}

func save(cmd *cobra.Command, doc *usecase.Rendered, out string) error {
	if out == "" {
		out = doc.Filename
	}
	if err := writeOutput(out, doc.Content); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	if out != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d pages, %d bytes)\n", out, doc.Pages, len(doc.Content))
	}
	return nil
}
