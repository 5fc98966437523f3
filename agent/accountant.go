package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/etnz/capital/docs"
	"github.com/etnz/capital/renderer"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user runs a small business that keeps its capital in cash and in a stable asset.
			He is here to understand how his months went: net result, fees, marketing spend and
			how the capital base moved from one month to the next.

			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAccountant returns the expert reading the owner's book.
func NewAccountant(book *capital.Book, owner, model string) *Expert {
	lib := Tools(book, owner)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's monthly capital ledger.
		He knows every transaction, every month report and the history of closed months.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's monthly capital ledger.
				You know how to use the Tools to extract relevant information about the user's months.
				You are part of a team of experts, yours is everything about the user's ledger. They might ask
				you questions about it, pardon their approximative language and figure out what they meant.

				Use the available tools to get information about
				  - the month being worked on
				  - the report of a month: capital base, net result, fees and distribution
				  - the history of closed months
				  - the transactions, filtered by type, asset or client and city
				  - the documentation of the ledger concepts
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// text wraps a function returning markdown into a Func body.
func text(name string, f func(ctx context.Context, args map[string]any) (string, error)) func(context.Context, string, map[string]any) *genai.FunctionResponse {
	return func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		out, err := f(ctx, args)
		if err != nil {
			return failure(id, name, err)
		}
		return output(id, name, out)
	}
}

// Tools returns the functions reading owner's ledger in book.
func Tools(book *capital.Book, owner string) []*Func {
	monthDoc := "The month in YYYY-MM format. Defaults to the month being worked on."
	if dates, err := docs.GetTopic("dates"); err == nil {
		monthDoc += "\n\n" + dates
	}
	filterProps := map[string]*genai.Schema{
		"type":   {Type: genai.TypeString, Description: "Comma separated transaction types: deposit, withdraw, marketing, buy, sell."},
		"asset":  {Type: genai.TypeString, Description: "Comma separated asset tags, for instance EUR or USDT."},
		"search": {Type: genai.TypeString, Description: "Case insensitive text searched in the client and city of transactions."},
	}

	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "working_month",
				Description: "Returns the month currently being worked on, the latest closed month and the initial capital.",
				Response:    &genai.Schema{Type: genai.TypeString},
			},
			Func: text("working_month", func(ctx context.Context, args map[string]any) (string, error) {
				return workingMonth(ctx, book, owner)
			}),
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "month_report",
				Description: "Returns the markdown report of a month: capital base, portfolio value, net result, fees, marketing spend, distribution and transactions.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"month":  {Type: genai.TypeString, Description: monthDoc},
						"type":   filterProps["type"],
						"asset":  filterProps["asset"],
						"search": filterProps["search"],
					},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown report."},
			},
			Func: text("month_report", func(ctx context.Context, args map[string]any) (string, error) {
				m, err := monthArg(ctx, book, owner, args)
				if err != nil {
					return "", err
				}
				f, err := filterArgs(args)
				if err != nil {
					return "", err
				}
				v, err := book.MonthView(ctx, owner, m, f)
				if err != nil {
					return "", err
				}
				return renderer.RenderMonth(v, book.Units(), renderer.MonthOptions{}), nil
			}),
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "close_history",
				Description: "Returns the table of closed months with their capital base, net result and ending capital.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown table."},
			},
			Func: text("close_history", func(ctx context.Context, args map[string]any) (string, error) {
				sums, err := book.Summaries(ctx, owner)
				if err != nil {
					return "", err
				}
				return renderer.RenderHistory(sums), nil
			}),
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "list_transactions",
				Description: "Returns every transaction of the ledger passing the filters, across all months.",
				Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: filterProps},
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown table."},
			},
			Func: text("list_transactions", func(ctx context.Context, args map[string]any) (string, error) {
				f, err := filterArgs(args)
				if err != nil {
					return "", err
				}
				txs, err := book.Transactions(ctx, owner, f)
				if err != nil {
					return "", err
				}
				return renderer.RenderTransactions(txs), nil
			}),
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "documentation",
				Description: "Returns the documentation of a ledger concept. Call it without a topic to get the list of topics.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic": {Type: genai.TypeString, Description: "The topic name."},
					},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown document."},
			},
			Func: text("documentation", func(ctx context.Context, args map[string]any) (string, error) {
				topic, err := stringArg(args, "topic")
				if err != nil {
					return "", err
				}
				if topic == "" {
					topic = "readme"
				}
				return docs.GetTopic(topic)
			}),
		},
	}
}

func workingMonth(ctx context.Context, book *capital.Book, owner string) (string, error) {
	m, err := book.WorkingMonth(ctx, owner)
	if err != nil {
		return "", err
	}
	initial, err := book.InitialCapital(ctx, owner)
	if err != nil {
		return "", err
	}
	sums, err := book.Summaries(ctx, owner)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Working month: %s\n", m)
	if latest, ok := sums.Latest(); ok {
		fmt.Fprintf(&b, "Latest closed month: %s\n", latest.Month)
	} else {
		b.WriteString("No month closed yet.\n")
	}
	fmt.Fprintf(&b, "Initial capital: %s\n", initial)
	return b.String(), nil
}

// stringArg returns the string argument name, or "" if it is absent.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument '%s' is not a string as expected but %T", name, v)
	}
	return strings.TrimSpace(s), nil
}

func monthArg(ctx context.Context, book *capital.Book, owner string, args map[string]any) (date.Month, error) {
	s, err := stringArg(args, "month")
	if err != nil {
		return date.Month{}, err
	}
	if s == "" {
		return book.WorkingMonth(ctx, owner)
	}
	m, err := date.ParseMonth(s)
	if err != nil {
		return date.Month{}, fmt.Errorf("argument 'month' must be a valid month got %q: %w", s, err)
	}
	return m, nil
}

func filterArgs(args map[string]any) (capital.Filter, error) {
	var f capital.Filter
	types, err := stringArg(args, "type")
	if err != nil {
		return f, err
	}
	for _, v := range split(types) {
		t, err := capital.ParseType(v)
		if err != nil {
			return f, err
		}
		f.Types = append(f.Types, t)
	}
	assets, err := stringArg(args, "asset")
	if err != nil {
		return f, err
	}
	f.Assets = split(assets)
	f.Search, err = stringArg(args, "search")
	return f, err
}

func split(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
