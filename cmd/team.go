package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tsheet/internal/models"
	"tsheet/internal/output"
)

var (
	memberLogin   string
	memberDisplay string
	memberEmail   string
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage the team roster",
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamListRun()
	},
}

var teamAddCmd = &cobra.Command{
	Use:   "add <uid>",
	Short: "Add a team member by tracker uid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var uid int64
		if _, err := fmt.Sscanf(args[0], "%d", &uid); err != nil || uid == 0 {
			return fmt.Errorf("invalid uid: %q", args[0])
		}
		return teamAddRun(uid)
	},
}

var teamRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamRemoveRun(args[0])
	},
}

func init() {
	teamAddCmd.Flags().StringVar(&memberLogin, "login", "", "Tracker login")
	teamAddCmd.Flags().StringVar(&memberDisplay, "display", "", "Display name for reports")
	teamAddCmd.Flags().StringVar(&memberEmail, "email", "", "Email address")
	_ = teamAddCmd.MarkFlagRequired("login")

	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamRemoveCmd)
	rootCmd.AddCommand(teamCmd)
}

func teamListRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	members, err := s.ListMembers(context.Background())
	if err != nil {
		return err
	}
	if len(members) == 0 {
		ui.Info("No team members (add one with 'tsheet team add')")
		return nil
	}

	table := ui.Table([]string{"ID", "UID", "Login", "Display", "Email"})
	for _, m := range members {
		table.Append([]string{m.ID, fmt.Sprintf("%d", m.UID), output.Cyan(m.Login), m.Display, m.Email})
	}
	return table.Render()
}

func teamAddRun(uid int64) error {
	m := &models.Member{
		UID:     uid,
		Login:   memberLogin,
		Display: memberDisplay,
		Email:   memberEmail,
	}
	if m.Display == "" {
		m.Display = m.Login
	}

	if dryRun {
		ui.DryRunMsg("Would add member %s (uid %d)", m.Login, uid)
		return nil
	}

	s, err := getStore()
	if err != nil {
		return err
	}
	if err := s.CreateMember(context.Background(), m); err != nil {
		return err
	}
	ui.Success("Member added: %s (uid %d)", m.Login, m.UID)
	return nil
}

func teamRemoveRun(id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	if dryRun {
		ui.DryRunMsg("Would remove member %s", id)
		return nil
	}
	if err := s.DeleteMember(context.Background(), id); err != nil {
		return err
	}
	ui.Success("Member removed: %s", id)
	return nil
}
