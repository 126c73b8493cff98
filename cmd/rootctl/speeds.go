package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aman-churiwal/root-panel/internal/client"
	"github.com/aman-churiwal/root-panel/internal/editor"
	"github.com/aman-churiwal/root-panel/internal/shooting"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func speedsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "speeds",
		Aliases: []string{"rate-profiles"},
		Short:   "Manage shooting speed profiles",
	}

	cmd.AddCommand(speedsListCmd(v))
	cmd.AddCommand(speedsCreateCmd(v))
	cmd.AddCommand(speedsEditCmd(v))

	return cmd
}

func speedsListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles ordered by sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := editor.New(newClient(v))
			if err := ed.Load(cmd.Context()); err != nil {
				return editorErr(ed, err)
			}

			renderProfiles(cmd.OutOrStdout(), ed)
			return nil
		},
	}
}

type profileFlags struct {
	name     string
	sequence int
	shots    int
	between  float64
	rest     float64
	inactive bool
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "profile name")
	cmd.Flags().IntVar(&f.sequence, "sequence", 0, "display order")
	cmd.Flags().IntVar(&f.shots, "shots", 0, "shots per burst")
	cmd.Flags().Float64Var(&f.between, "between", 0, "seconds between shots in a burst")
	cmd.Flags().Float64Var(&f.rest, "rest", 0, "seconds of rest after each burst")
	cmd.Flags().BoolVar(&f.inactive, "inactive", false, "mark the profile inactive")
}

// Copies the flags the user set onto the draft
func (f *profileFlags) apply(cmd *cobra.Command, ed *editor.Editor) {
	changed := cmd.Flags().Changed
	if changed("name") {
		ed.SetName(f.name)
	}
	if changed("sequence") {
		ed.SetSequence(f.sequence)
	}
	if changed("shots") {
		ed.SetNumberShots(f.shots)
	}
	if changed("between") {
		ed.SetTimeBetweenShots(f.between)
	}
	if changed("rest") {
		ed.SetTimeRest(f.rest)
	}
	if changed("inactive") {
		ed.SetStatus(!f.inactive)
	}
}

func speedsCreateCmd(v *viper.Viper) *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := editor.New(newClient(v))
			if err := ed.Load(cmd.Context()); err != nil {
				return editorErr(ed, err)
			}

			flags.apply(cmd, ed)
			return submit(cmd, ed)
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func speedsEditCmd(v *viper.Viper) *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the given fields of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 0)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid profile id %q", args[0])
			}

			ed := editor.New(newClient(v))
			if err := ed.Load(cmd.Context()); err != nil {
				return editorErr(ed, err)
			}
			if err := ed.LoadForEdit(cmd.Context(), uint(id)); err != nil {
				return editorErr(ed, err)
			}

			flags.apply(cmd, ed)
			return submit(cmd, ed)
		},
	}

	flags.register(cmd)

	return cmd
}

func submit(cmd *cobra.Command, ed *editor.Editor) error {
	out := cmd.OutOrStdout()
	draft := ed.Draft()
	printPreview(out, shooting.Params{
		NumberShots:      draft.NumberShots,
		TimeBetweenShots: draft.TimeBetweenShots,
		TimeRest:         draft.TimeRest,
	})

	verb := "created"
	if _, editing := ed.EditingID(); editing {
		verb = "updated"
	}

	if err := ed.Submit(cmd.Context()); err != nil {
		return editorErr(ed, err)
	}

	_, _ = fmt.Fprintln(out, color.GreenString("%s %q", verb, draft.Name))
	renderProfiles(out, ed)
	return nil
}

func renderProfiles(w io.Writer, ed *editor.Editor) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Seq", "Name", "Shots", "Between", "Rest", "Per day", "Status"})

	for _, p := range ed.Profiles() {
		t.AppendRow(table.Row{
			p.ID, p.Sequence, p.Name, p.NumberShots,
			p.TimeBetweenShots, p.TimeRest, p.ShootingPerDay, statusLabel(p.Status),
		})
	}

	active, total := ed.Counts()
	t.AppendFooter(table.Row{"", "", "", "", "", "", "active", fmt.Sprintf("%d/%d", active, total)})
	t.Render()
}

func statusLabel(active bool) string {
	if active {
		return color.GreenString("active")
	}
	return color.HiBlackString("inactive")
}

// Prefers the message the editor surfaced to the operator
func editorErr(ed *editor.Editor, err error) error {
	if msg := ed.Err(); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

func describeErr(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", apiErr.Message, err)
	}
	return err
}
