package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/supersql/internal/cli/output"
	"github.com/leapstack-labs/supersql/pkg/lint"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show descriptions
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (e.g., syntax, structure, convention).
Use --verbose to see the description of every rule.`,
		Example: `  # List all rules
  supersql rules

  # Show details for a specific rule
  supersql rules CV01

  # List rules in the convention group
  supersql rules --group convention

  # Output as JSON
  supersql rules -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0])
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show rule descriptions")

	return cmd
}

// RuleJSON is the JSON form of a rule.
type RuleJSON struct {
	lint.RuleInfo
	Files []string `json:"files"`
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []RuleJSON `json:"rules"`
	Count int        `json:"count"`
}

func toRuleJSON(r lint.Rule) RuleJSON {
	out := RuleJSON{RuleInfo: lint.GetRuleInfo(r)}
	for _, kind := range []lint.FileKind{lint.FileQuery, lint.FileData} {
		if r.AppliesTo(kind) {
			out.Files = append(out.Files, kind.String())
		}
	}
	return out
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := NewCommandContext(cmd).Renderer

	rules := lint.GetAll()
	if opts.Group != "" {
		rules = lint.GetByGroup(opts.Group)
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := RulesJSONOutput{Rules: make([]RuleJSON, 0, len(rules)), Count: len(rules)}
		for _, rule := range rules {
			out.Rules = append(out.Rules, toRuleJSON(rule))
		}
		return r.JSON(out)
	}

	return listRulesText(r, rules, opts.Verbose)
}

// listRulesText outputs rules grouped by group, in styled text format.
func listRulesText(r *output.Renderer, rules []lint.Rule, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Bold.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
	r.Println("")

	groups := make(map[string][]lint.Rule)
	var order []string
	for _, rule := range rules {
		if _, ok := groups[rule.Group()]; !ok {
			order = append(order, rule.Group())
		}
		groups[rule.Group()] = append(groups[rule.Group()], rule)
	}

	for _, group := range order {
		r.Println(styles.Bold.Render("  " + capitalizeFirst(group)))
		for _, rule := range groups[group] {
			r.Printf("    %s  %s - %s\n",
				styles.Muted.Render(rule.ID()),
				rule.Name(),
				styles.Severity(rule.DefaultSeverity()).Render(rule.DefaultSeverity().String()),
			)
			if verbose {
				r.Println(styles.Muted.Render("        " + rule.Description()))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'supersql rules <rule-id>' for detailed documentation"))
	return nil
}

func showRule(cmd *cobra.Command, ruleID string) error {
	r := NewCommandContext(cmd).Renderer

	rule, ok := lint.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	info := toRuleJSON(rule)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Bold.Render(fmt.Sprintf("%s - %s", info.ID, info.Name)))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), info.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), styles.Severity(info.DefaultSeverity).Render(info.DefaultSeverity.String()))
	r.Printf("  %s: %s\n", styles.Bold.Render("Files"), strings.Join(info.Files, ", "))
	r.Println("")
	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + info.Description)

	if len(info.ConfigKeys) > 0 {
		r.Println("")
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(info.ConfigKeys, ", "))
	}
	return nil
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
