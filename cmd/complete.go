package cmd

import (
	"flag"

	"github.com/etnz/capital"
	"github.com/etnz/capital/config"
	"github.com/etnz/capital/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the application: every
// subcommand with its flags, and the global flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(fs), Args: argPredictor(c.Name())}
	}
	root.Sub["help"] = &complete.Command{Args: predict.Set(names())}
	return root
}

func names() []string {
	var out []string
	for _, c := range commands() {
		out = append(out, c.Name())
	}
	return out
}

func typeNames() []string {
	out := []string{"deposit", "withdraw", "marketing", "buy", "sell"}
	for _, t := range capital.AllTypes {
		out = append(out, t.String())
	}
	return out
}

// flagPredictors predicts the values of the flags of fs.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	out := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case f.Name == "backend":
			out[f.Name] = predict.Set(config.Backends)
		case f.Name == "t":
			out[f.Name] = predict.Set(typeNames())
		case f.Name == "format":
			out[f.Name] = predict.Set{"csv", "json"}
		case f.Name == "o":
			out[f.Name] = predict.Files("*.png")
		case isBool(f):
			out[f.Name] = predict.Nothing
		default:
			out[f.Name] = predict.Something
		}
	})
	return out
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func argPredictor(name string) complete.Predictor {
	switch name {
	case "import":
		return predict.Or(predict.Files("*.csv"), predict.Files("*.json"))
	case "topic":
		topics, _ := docs.GetAllTopics()
		return predict.Set(topics)
	}
	return predict.Nothing
}
