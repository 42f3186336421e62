package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tsheet/internal/models"
	"tsheet/internal/output"
)

var (
	ruleWhen        []string
	ruleOrWhen      []string
	ruleSkip        bool
	ruleSetTask     string
	ruleSetDuration string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage meeting classification rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		return rulesListRun()
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a classification rule",
	Long: `Add a classification rule. Conditions are "<field> <operator> <value>"
strings; --when chains with AND, --or-when with OR, evaluated left to
right without precedence.

Fields: summary, participants, duration, organizer.
Examples:
  tsheet rules add standups --when "summary contains standup" --set-task OPS-1
  tsheet rules add short --when "duration < 15m" --or-when "summary is lunch" --skip`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rulesAddRun(args[0])
	},
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rulesRemoveRun(args[0])
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export rules as YAML to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return rulesExportRun()
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import rules from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rulesImportRun(args[0])
	},
}

func init() {
	rulesAddCmd.Flags().StringArrayVar(&ruleWhen, "when", nil, `Condition "<field> <op> <value>", chained with AND`)
	rulesAddCmd.Flags().StringArrayVar(&ruleOrWhen, "or-when", nil, `Condition "<field> <op> <value>", chained with OR`)
	rulesAddCmd.Flags().BoolVar(&ruleSkip, "skip", false, "Skip matching meetings entirely")
	rulesAddCmd.Flags().StringVar(&ruleSetTask, "set-task", "", "Issue key to assign to matching meetings")
	rulesAddCmd.Flags().StringVar(&ruleSetDuration, "set-duration", "", `Override duration for matching meetings (e.g. "30m")`)

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesRemoveCmd)
	rulesCmd.AddCommand(rulesExportCmd)
	rulesCmd.AddCommand(rulesImportCmd)
	rootCmd.AddCommand(rulesCmd)
}

func rulesListRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	rules, err := s.ListRules(context.Background())
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		ui.Info("No rules defined (add one with 'tsheet rules add')")
		return nil
	}

	table := ui.Table([]string{"ID", "Name", "Conditions", "Actions"})
	for _, r := range rules {
		conds := make([]string, 0, len(r.Conditions))
		for i, c := range r.Conditions {
			part := fmt.Sprintf("%s %s %s", c.Field, c.Operator, c.Value)
			if i > 0 {
				part = strings.ToUpper(string(c.Logic)) + " " + part
			}
			conds = append(conds, part)
		}
		acts := make([]string, 0, len(r.Actions))
		for _, a := range r.Actions {
			acts = append(acts, fmt.Sprintf("%s=%s", a.Type, a.Value))
		}
		table.Append([]string{output.Cyan(r.ID), r.Name, strings.Join(conds, " "), strings.Join(acts, ", ")})
	}
	return table.Render()
}

// parseCondition parses a "<field> <op> <value>" string.
func parseCondition(text string, logic models.ConditionLogic) (models.Condition, error) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 3)
	if len(parts) != 3 {
		return models.Condition{}, fmt.Errorf("invalid condition %q (want \"<field> <op> <value>\")", text)
	}
	return models.Condition{
		Field:    models.ConditionField(parts[0]),
		Operator: models.ConditionOperator(parts[1]),
		Value:    parts[2],
		Logic:    logic,
	}, nil
}

func rulesAddRun(name string) error {
	rule := models.Rule{Name: name}

	for _, w := range ruleWhen {
		c, err := parseCondition(w, models.LogicAnd)
		if err != nil {
			return err
		}
		rule.Conditions = append(rule.Conditions, c)
	}
	for _, w := range ruleOrWhen {
		c, err := parseCondition(w, models.LogicOr)
		if err != nil {
			return err
		}
		rule.Conditions = append(rule.Conditions, c)
	}

	if ruleSkip {
		rule.Actions = append(rule.Actions, models.Action{Type: models.ActionSkip, Value: "true"})
	}
	if ruleSetTask != "" {
		rule.Actions = append(rule.Actions, models.Action{Type: models.ActionSetTask, Value: ruleSetTask})
	}
	if ruleSetDuration != "" {
		rule.Actions = append(rule.Actions, models.Action{Type: models.ActionSetDuration, Value: ruleSetDuration})
	}

	if dryRun {
		ui.DryRunMsg("Would create rule %q with %d condition(s) and %d action(s)",
			name, len(rule.Conditions), len(rule.Actions))
		return nil
	}

	s, err := getStore()
	if err != nil {
		return err
	}
	if err := s.CreateRule(context.Background(), &rule); err != nil {
		return err
	}
	ui.Success("Rule created: %s (%s)", rule.Name, rule.ID)
	return nil
}

func rulesRemoveRun(id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	if dryRun {
		ui.DryRunMsg("Would remove rule %s", id)
		return nil
	}
	if err := s.DeleteRule(context.Background(), id); err != nil {
		return err
	}
	ui.Success("Rule removed: %s", id)
	return nil
}

// ruleFile is the YAML shape for rules import/export.
type ruleFile struct {
	Rules []models.Rule `yaml:"rules"`
}

func rulesExportRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	rules, err := s.ListRules(context.Background())
	if err != nil {
		return err
	}

	file := ruleFile{Rules: make([]models.Rule, 0, len(rules))}
	for _, r := range rules {
		file.Rules = append(file.Rules, *r)
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}
	fmt.Fprint(ui.Out, string(data))
	return nil
}

func rulesImportRun(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse rules file: %w", err)
	}

	if dryRun {
		ui.DryRunMsg("Would import %d rule(s) from %s", len(file.Rules), path)
		return nil
	}

	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	imported := 0
	for i := range file.Rules {
		r := file.Rules[i]
		r.ID = "" // imported rules always get fresh ids
		if err := s.CreateRule(ctx, &r); err != nil {
			ui.Warning("Skipping rule %q: %v", r.Name, err)
			continue
		}
		imported++
	}
	ui.Success("Imported %d rule(s)", imported)
	return nil
}
