package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/cli/formatter"
	"github.com/alexanderramin/arecabot/internal/extract"
	"github.com/alexanderramin/arecabot/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var adviceKinds = []string{"pesticide", "fertilizer", "harvest"}

// adviceRequest collects the readings for one advisor, starting from its
// defaults.
type adviceRequest struct {
	kind       string
	pesticide  advisor.PesticideInput
	fertilizer advisor.FertilizerInput
	harvest    advisor.HarvestInput
}

func newAdviceRequest(kind string) (*adviceRequest, error) {
	if !slices.Contains(adviceKinds, kind) {
		return nil, fmt.Errorf("unknown advice kind %q (want %s)", kind, strings.Join(adviceKinds, ", "))
	}
	return &adviceRequest{
		kind:       kind,
		pesticide:  advisor.DefaultPesticideInput(),
		fertilizer: advisor.DefaultFertilizerInput(),
		harvest:    advisor.DefaultHarvestInput(),
	}, nil
}

// reading binds a numeric input field to a flag and a form title.
type reading struct {
	flag  string
	title string
	dst   *float64
}

func (r *adviceRequest) readings() []reading {
	switch r.kind {
	case "pesticide":
		in := &r.pesticide
		return []reading{
			{"temperature", "Temperature (°C)", &in.Temperature},
			{"humidity", "Humidity (%)", &in.Humidity},
			{"rainfall", "Rainfall (mm)", &in.Rainfall},
			{"wind-speed", "Wind speed (km/h)", &in.WindSpeed},
		}
	case "fertilizer":
		in := &r.fertilizer
		return []reading{
			{"temperature", "Temperature (°C)", &in.Temperature},
			{"humidity", "Humidity (%)", &in.Humidity},
			{"rainfall", "Rainfall (mm)", &in.Rainfall},
			{"ph", "Soil pH", &in.PH},
			{"organic-matter", "Organic matter (%)", &in.OrganicMatter},
		}
	case "harvest":
		in := &r.harvest
		return []reading{
			{"fruit-maturity", "Fruit maturity (%)", &in.FruitMaturity},
			{"temperature", "Temperature (°C)", &in.Temperature},
			{"rainfall", "Rainfall (mm)", &in.Rainfall},
			{"humidity", "Humidity (%)", &in.Humidity},
			{"tree-age", "Tree age (years)", &in.TreeAge},
		}
	}
	return nil
}

// form builds a huh form prefilled with the current readings. apply copies
// the entered values back once the form completes.
func (r *adviceRequest) form() (form *huh.Form, apply func() error) {
	rs := r.readings()
	raw := make([]string, len(rs))
	fields := make([]huh.Field, 0, len(rs)+2)
	for i, rd := range rs {
		raw[i] = strconv.FormatFloat(*rd.dst, 'f', -1, 64)
		fields = append(fields, numberInput(rd.title, &raw[i]))
	}
	if r.kind == "fertilizer" {
		fields = append(fields,
			optionSelect("Growth stage", extract.Stages(), &r.fertilizer.GrowthStage),
			optionSelect("Season", extract.Seasons(), &r.fertilizer.Season),
		)
	}

	form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(arecabotHuhTheme()).
		WithShowHelp(false)
	apply = func() error {
		for i, rd := range rs {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw[i]), 64)
			if err != nil {
				return fmt.Errorf("%s: %q is not a number", rd.title, raw[i])
			}
			*rd.dst = v
		}
		return nil
	}
	return form, apply
}

// run asks the advice service and returns the rendered recommendation.
func (r *adviceRequest) run(ctx context.Context, svc service.AdviceService) (string, error) {
	switch r.kind {
	case "pesticide":
		return svc.Pesticide(ctx, r.pesticide).Text, nil
	case "fertilizer":
		if !slices.Contains(extract.Stages(), r.fertilizer.GrowthStage) {
			return "", fmt.Errorf("growth stage must be one of %s", strings.Join(extract.Stages(), ", "))
		}
		if !slices.Contains(extract.Seasons(), r.fertilizer.Season) {
			return "", fmt.Errorf("season must be one of %s", strings.Join(extract.Seasons(), ", "))
		}
		return svc.Fertilizer(ctx, r.fertilizer).Text, nil
	case "harvest":
		return svc.Harvest(ctx, r.harvest).Text, nil
	}
	return "", fmt.Errorf("unknown advice kind %q", r.kind)
}

func newAdviseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "One-shot pesticide, fertilizer or harvest advice",
	}
	cmd.AddCommand(
		newAdviceKindCmd(app, "pesticide", "Spray suitability and dosage for the weather"),
		newAdviceKindCmd(app, "fertilizer", "NPK dose for soil, weather and growth stage"),
		newAdviceKindCmd(app, "harvest", "Days to harvest and market timing"),
	)
	return cmd
}

func newAdviceKindCmd(app *App, kind, short string) *cobra.Command {
	req, _ := newAdviceRequest(kind)
	var useForm bool

	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		Long:  short + ".\nReadings left unset take their defaults; on a terminal with no flags a form asks for them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useForm || (app.interactive() && cmd.Flags().NFlag() == 0) {
				form, apply := req.form()
				if err := form.RunWithContext(cmd.Context()); err != nil {
					return err
				}
				if err := apply(); err != nil {
					return err
				}
			}
			text, err := req.run(cmd.Context(), app.Advice)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReply(text))
			return nil
		},
	}

	for _, rd := range req.readings() {
		cmd.Flags().Float64Var(rd.dst, rd.flag, *rd.dst, rd.title)
	}
	if kind == "fertilizer" {
		cmd.Flags().StringVar(&req.fertilizer.GrowthStage, "stage", req.fertilizer.GrowthStage,
			"Growth stage ("+strings.Join(extract.Stages(), ", ")+")")
		cmd.Flags().StringVar(&req.fertilizer.Season, "season", req.fertilizer.Season,
			"Season ("+strings.Join(extract.Seasons(), ", ")+")")
	}
	cmd.Flags().BoolVar(&useForm, "form", false, "Enter readings in a form")
	return cmd
}
