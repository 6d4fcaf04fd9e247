package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/options"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/urfave/cli/v3"
)

// report is the JSON document printed by the command.
type report struct {
	Contract types.OptionContractSpec `json:"contract"`
	Greeks   types.GreeksResult       `json:"greeks"`
	// ImpliedVolatility is set when a market price was given.
	ImpliedVolatility optional.Option[float64] `json:"implied_volatility"`
}

func greeksAction(ctx context.Context, cmd *cli.Command) error {
	spec := types.OptionContractSpec{
		Spot:         cmd.Float("spot"),
		Strike:       cmd.Float("strike"),
		TimeToExpiry: cmd.Float("expiry"),
		Volatility:   cmd.Float("volatility"),
		RiskFreeRate: cmd.Float("rate"),
		Kind:         types.OptionKind(cmd.String("kind")),
	}

	if cmd.IsSet("days") {
		spec.TimeToExpiry = cmd.Float("days") / 365
	}

	out := report{
		Contract:          spec,
		ImpliedVolatility: optional.None[float64](),
	}

	if cmd.IsSet("market-price") {
		iv, err := options.ImpliedVolatility(spec, cmd.Float("market-price"))
		if err != nil {
			return err
		}

		// the greeks are reported at the implied volatility
		spec.Volatility = iv
		out.Contract = spec
		out.ImpliedVolatility = optional.Some(iv)
	}

	greeks, err := options.Evaluate(spec)
	if err != nil {
		return err
	}

	out.Greeks = greeks

	encoder := json.NewEncoder(cmd.Root().Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(out)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "greeks",
		Usage: "Price a European option and print its greeks as JSON",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:     "spot",
				Usage:    "Price of the underlying",
				Required: true,
			},
			&cli.FloatFlag{
				Name:     "strike",
				Usage:    "Strike price",
				Required: true,
			},
			&cli.FloatFlag{
				Name:  "expiry",
				Usage: "Time to expiry in years",
			},
			&cli.FloatFlag{
				Name:  "days",
				Usage: "Time to expiry in calendar days. Overrides --expiry",
			},
			&cli.FloatFlag{
				Name:    "volatility",
				Aliases: []string{"vol"},
				Usage:   "Annualized volatility as a fraction (0.2 = 20%)",
				Value:   0.2,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Annualized risk free rate as a fraction",
				Value: 0.05,
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Option kind (call or put)",
				Value: string(types.OptionKindCall),
			},
			&cli.FloatFlag{
				Name:  "market-price",
				Usage: "Observed option price. When set, the implied volatility is solved and used for the greeks",
			},
		},
		Action: greeksAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
