package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/cli/formatter"
	"github.com/alexanderramin/arecabot/internal/render"
	"github.com/spf13/cobra"
)

func newDiseaseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "disease <label>",
		Short: "Treatment protocol for a disease or classifier label",
		Example: `  arecabot disease Mahali_Koleroga
  arecabot disease "yellow leaf"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.Advice.Diagnose(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatReply(a.Text))
			if !a.Result.Known && !a.Result.Label.Healthy {
				if near := app.Advice.SuggestDiseases(a.Result.Label.Key); len(near) > 0 {
					fmt.Fprintln(out, formatter.Dim("Did you mean: "+strings.Join(near, ", ")))
				}
			}
			return nil
		},
	}
}

func newSchemesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "schemes [name]",
		Short: "List government schemes or show one",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, formatter.FormatReply(app.Advice.Schemes(cmd.Context()).Text))
				return nil
			}

			name := strings.Join(args, " ")
			s, near, ok := app.Advice.Scheme(cmd.Context(), name)
			if !ok {
				if len(near) > 0 {
					fmt.Fprintln(out, formatter.Dim("Did you mean: "+strings.Join(near, ", ")))
				}
				return fmt.Errorf("no scheme named %q", name)
			}
			fmt.Fprintln(out, formatter.FormatReply(render.Scheme(s)))
			return nil
		},
	}
}

func newTipsCmd(app *App) *cobra.Command {
	var (
		w     advisor.WeatherReading
		month int
	)

	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Cultivation tips for the current weather",
		Example: `  arecabot tips --temperature 33 --humidity 85 --rain 10,60,45`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := time.Now().Month()
			if month != 0 {
				if month < 1 || month > 12 {
					return fmt.Errorf("--month must be between 1 and 12")
				}
				m = time.Month(month)
			}
			a := app.Advice.WeatherTips(cmd.Context(), w, m)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReply(a.Text))
			return nil
		},
	}

	cmd.Flags().Float64Var(&w.Temperature, "temperature", 28, "Temperature (°C)")
	cmd.Flags().Float64Var(&w.Humidity, "humidity", 70, "Humidity (%)")
	cmd.Flags().Float64Var(&w.Precipitation, "precipitation", 0, "Rain today (mm)")
	cmd.Flags().Float64Var(&w.WindSpeed, "wind-speed", 5, "Wind speed (km/h)")
	cmd.Flags().Float64SliceVar(&w.NextDaysRain, "rain", nil, "Forecast daily rain (mm), today first")
	cmd.Flags().IntVar(&month, "month", 0, "Calendar month 1-12 (default: current)")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [conversation-id]",
		Short: "List recorded conversations or show one transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				convs, err := app.Chat.Conversations(cmd.Context(), limit)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatConversations(convs, time.Now()))
				return nil
			}

			turns, err := app.Chat.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatTranscript(args[0], turns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Most recent entries to show (0 for all)")
	return cmd
}
