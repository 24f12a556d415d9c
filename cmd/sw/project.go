package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/export"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/query"
	"github.com/zulandar/southwood/internal/risk"
	"github.com/zulandar/southwood/internal/schedule"
	"github.com/zulandar/southwood/internal/store"
)

func newProjectCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Project management commands",
		Long:    "Create, inspect and update tracked projects and their phase schedules.",
	}

	cmd.AddCommand(newProjectCreateCmd(opts))
	cmd.AddCommand(newProjectListCmd(opts))
	cmd.AddCommand(newProjectShowCmd(opts))
	cmd.AddCommand(newProjectCompleteCmd(opts))
	cmd.AddCommand(newProjectContactCmd(opts))
	cmd.AddCommand(newProjectSetDateCmd(opts))
	cmd.AddCommand(newProjectSetInstallCmd(opts))
	cmd.AddCommand(newProjectSetValueCmd(opts))
	cmd.AddCommand(newProjectSetCadenceCmd(opts))
	cmd.AddCommand(newProjectDoneCmd(opts))
	cmd.AddCommand(newProjectDeleteCmd(opts))
	cmd.AddCommand(newProjectEmailCmd(opts))
	return cmd
}

func newProjectCreateCmd(opts *rootOpts) *cobra.Command {
	var (
		name, client, location, value, phaseName string
		contact, email                           string
		cadence                                  int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		Long:  "Creates a project in the given phase and seeds its milestone schedule from today.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			today, err := opts.todayDate()
			if err != nil {
				return err
			}
			ph, err := parsePhaseArg(phaseName)
			if err != nil {
				return err
			}
			if location == "" {
				location = cfg.Projects.DefaultLocation
			}
			if cadence == 0 {
				cadence = cfg.Projects.DefaultCadenceDays
			}

			p, err := store.Create(gormDB, project.CreateOpts{
				Name:          name,
				Client:        client,
				Location:      location,
				Value:         value,
				Phase:         ph,
				ContactPerson: contact,
				ContactEmail:  email,
				CadenceDays:   cadence,
				IDPrefix:      cfg.Projects.IDPrefix,
			}, today)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s: %s (%s)\n", p.ID, p.Name, p.Client)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&client, "client", "", "client name (required)")
	cmd.Flags().StringVar(&location, "location", "", "site location (default from config)")
	cmd.Flags().StringVar(&value, "value", "", "contract value, e.g. 125000 or $125,000")
	cmd.Flags().StringVar(&phaseName, "phase", "", "starting phase (default Design)")
	cmd.Flags().StringVar(&contact, "contact", "", "client contact person")
	cmd.Flags().StringVar(&email, "email", "", "client contact email")
	cmd.Flags().IntVar(&cadence, "cadence", 0, "follow-up cadence in days (default from config)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("client")
	return cmd
}

func newProjectListCmd(opts *rootOpts) *cobra.Command {
	var (
		phaseName string
		all       bool
		sortBy    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  "Lists active projects, highest priority first. Use --all to include completed projects.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			today, err := opts.todayDate()
			if err != nil {
				return err
			}
			var ph phase.Phase
			if phaseName != "" {
				if ph, err = parsePhaseArg(phaseName); err != nil {
					return err
				}
			}
			projects, err := store.List(gormDB, store.ListFilters{Phase: ph, IncludeCompleted: all})
			if err != nil {
				return err
			}
			if err := sortProjects(projects, sortBy, today); err != nil {
				return err
			}
			printProjectTable(cmd.OutOrStdout(), projects, today)
			return nil
		},
	}

	cmd.Flags().StringVar(&phaseName, "phase", "", "only projects in this phase")
	cmd.Flags().BoolVar(&all, "all", false, "include completed projects")
	cmd.Flags().StringVar(&sortBy, "sort", "priority", "sort order: priority, value, or created")
	return cmd
}

// sortProjects orders projects in place. created keeps store order.
func sortProjects(projects []project.Project, by string, today civil.Date) error {
	switch by {
	case "priority", "":
		sort.SliceStable(projects, func(i, j int) bool {
			return risk.PriorityScore(projects[i], today) > risk.PriorityScore(projects[j], today)
		})
	case "value":
		sort.SliceStable(projects, func(i, j int) bool { return projects[i].Value > projects[j].Value })
	case "created":
	default:
		return fmt.Errorf("--sort %q must be priority, value, or created", by)
	}
	return nil
}

func printProjectTable(out io.Writer, projects []project.Project, today civil.Date) {
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLIENT\tPHASE\tVALUE\tNEXT DUE\tRISK\tFOLLOW-UP")
	for _, p := range projects {
		a := risk.Assess(p, today)
		next := "-"
		if a.Next != nil {
			next = fmt.Sprintf("%s %s", a.Next.Phase, query.ShortDate(a.Next.Date))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Name, 32), truncate(p.Client, 24), p.Phase,
			query.Currency(p.Value), next, a.Tier, a.FollowUp.Text)
	}
	w.Flush()
}

func newProjectShowCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			today, err := opts.todayDate()
			if err != nil {
				return err
			}
			p, err := store.Get(gormDB, projectID(args[0]))
			if err != nil {
				return err
			}
			printProject(cmd.OutOrStdout(), p, today)
			return nil
		},
	}
}

func printProject(out io.Writer, p project.Project, today civil.Date) {
	a := risk.Assess(p, today)

	fmt.Fprintf(out, "%s — %s\n", p.ID, p.Name)
	fmt.Fprintf(out, "Client:    %s\n", p.Client)
	fmt.Fprintf(out, "Location:  %s\n", p.Location)
	fmt.Fprintf(out, "Value:     %s\n", query.Currency(p.Value))
	fmt.Fprintf(out, "Phase:     %s", p.Phase)
	if a.Age != nil {
		fmt.Fprintf(out, " (%dd", *a.Age)
		if a.Stalled {
			fmt.Fprint(out, ", stalled")
		}
		fmt.Fprint(out, ")")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Risk:      %s\n", a.Tier)
	if p.ContactPerson != "" || p.ContactEmail != "" {
		fmt.Fprintf(out, "Contact:   %s %s\n", p.ContactPerson, p.ContactEmail)
	}
	fmt.Fprintf(out, "Follow-up: %s\n", a.FollowUp.Text)
	if p.Completed() {
		fmt.Fprintf(out, "Completed: %s\n", p.CompletedAt)
	}

	fmt.Fprintln(out, "\nMilestones:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, ph := range phase.All {
		due := "-"
		rel := ""
		if d, ok := p.Milestones.Get(ph); ok {
			due = d.String()
			rel = query.RelLabel(d, today)
		}
		done := ""
		if d, ok := p.Done.Get(ph); ok {
			done = "done " + d.String()
			rel = ""
		}
		marker := " "
		if ph == p.Phase && !p.Completed() {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %s\t%s\t%s\t%s\n", marker, ph, due, rel, done)
	}
	w.Flush()
}

func newProjectCompleteCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete the current phase",
		Long:  "Marks the current phase done today and advances to the next phase, re-anchoring the remaining schedule. Completing Installing finishes the project.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, opts, args[0], "complete", func(p project.Project, today civil.Date) (project.Project, error) {
				if p.Completed() {
					return p, fmt.Errorf("project %s is already complete", p.ID)
				}
				return project.CompletePhase(p, today), nil
			})
		},
	}
}

func newProjectContactCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "contact <id>",
		Short: "Log a client contact today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, opts, args[0], "contact", func(p project.Project, today civil.Date) (project.Project, error) {
				return project.LogContact(p, today), nil
			})
		},
	}
}

func newProjectSetDateCmd(opts *rootOpts) *cobra.Command {
	var cascade bool

	cmd := &cobra.Command{
		Use:   "set-date <id> <phase> <YYYY-MM-DD|clear>",
		Short: "Set a phase due date",
		Long:  "Sets one phase's due date. With cascading on, the other phases are re-derived from it; \"clear\" removes the date.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := parsePhaseArg(args[1])
			if err != nil {
				return err
			}
			date, err := parseDateArg(args[2])
			if err != nil {
				return err
			}
			auto, err := cascadeFlag(cmd, opts, cascade)
			if err != nil {
				return err
			}
			return runMutation(cmd, opts, args[0], "edit-date", func(p project.Project, _ civil.Date) (project.Project, error) {
				out, _ := project.EditPhaseDate(p, ph, date, schedule.EditOpts{AutoCascade: auto})
				return out, nil
			})
		},
	}

	cmd.Flags().BoolVar(&cascade, "cascade", true, "re-derive the other phase dates (default from config)")
	return cmd
}

func newProjectSetInstallCmd(opts *rootOpts) *cobra.Command {
	var cascade bool

	cmd := &cobra.Command{
		Use:   "set-install <id> <YYYY-MM-DD|clear>",
		Short: "Set the installation date",
		Long:  "Sets the Installing date. With cascading on, earlier phases are scheduled backward from it.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[1])
			if err != nil {
				return err
			}
			auto, err := cascadeFlag(cmd, opts, cascade)
			if err != nil {
				return err
			}
			return runMutation(cmd, opts, args[0], "install-date", func(p project.Project, _ civil.Date) (project.Project, error) {
				return project.SetInstallDate(p, date, auto), nil
			})
		},
	}

	cmd.Flags().BoolVar(&cascade, "cascade", true, "schedule earlier phases backward (default from config)")
	return cmd
}

func newProjectSetValueCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "set-value <id> <value>",
		Short: "Set the contract value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, opts, args[0], "value", func(p project.Project, _ civil.Date) (project.Project, error) {
				return project.SetValue(p, args[1])
			})
		},
	}
}

func newProjectSetCadenceCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "set-cadence <id> <days>",
		Short: "Set the follow-up cadence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("cadence %q must be a whole number of days", args[1])
			}
			return runMutation(cmd, opts, args[0], "cadence", func(p project.Project, _ civil.Date) (project.Project, error) {
				return project.SetCadence(p, days)
			})
		},
	}
}

func newProjectDoneCmd(opts *rootOpts) *cobra.Command {
	var (
		dateStr string
		undo    bool
	)

	cmd := &cobra.Command{
		Use:   "done <id> <phase>",
		Short: "Mark a phase done",
		Long:  "Stamps a phase as finished (today unless --date is given). Marking Installing done completes the project; --undo clears the stamp.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := parsePhaseArg(args[1])
			if err != nil {
				return err
			}
			var date civil.Date
			if dateStr != "" {
				if date, err = parseDateArg(dateStr); err != nil {
					return err
				}
			}
			return runMutation(cmd, opts, args[0], "done", func(p project.Project, today civil.Date) (project.Project, error) {
				if undo {
					return project.UnmarkDone(p, ph), nil
				}
				if date.IsZero() {
					date = today
				}
				return project.MarkDone(p, ph, date), nil
			})
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "completion date (default today)")
	cmd.Flags().BoolVar(&undo, "undo", false, "clear the done stamp instead")
	return cmd
}

func newProjectDeleteCmd(opts *rootOpts) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			id := projectID(args[0])
			p, err := store.Get(gormDB, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && !confirmDelete(cmd, p) {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
			if err := store.Delete(gormDB, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted project %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func confirmDelete(cmd *cobra.Command, p project.Project) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Delete %s (%s, %s)? This cannot be undone.\n", p.ID, p.Name, p.Client)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}

func newProjectEmailCmd(opts *rootOpts) *cobra.Command {
	var mailto bool

	cmd := &cobra.Command{
		Use:   "email <id>",
		Short: "Draft a client status email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			today, err := opts.todayDate()
			if err != nil {
				return err
			}
			p, err := store.Get(gormDB, projectID(args[0]))
			if err != nil {
				return err
			}
			e := export.UpdateEmail(p, today)
			out := cmd.OutOrStdout()
			if mailto {
				fmt.Fprintln(out, e.MailtoURL())
				return nil
			}
			fmt.Fprintf(out, "To: %s\nSubject: %s\n\n%s\n", e.To, e.Subject, e.Body)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mailto, "mailto", false, "print a mailto: link instead")
	return cmd
}

// runMutation applies fn to project id in one store transaction and prints
// the updated project.
func runMutation(cmd *cobra.Command, opts *rootOpts, id, kind string, fn func(project.Project, civil.Date) (project.Project, error)) error {
	_, gormDB, err := opts.connectFromConfig()
	if err != nil {
		return err
	}
	today, err := opts.todayDate()
	if err != nil {
		return err
	}
	p, err := store.Mutate(gormDB, projectID(id), kind, func(p project.Project) (project.Project, error) {
		return fn(p, today)
	})
	if err != nil {
		return err
	}
	printProject(cmd.OutOrStdout(), p, today)
	return nil
}

// cascadeFlag resolves --cascade, falling back to projects.auto_cascade
// when the flag was not given.
func cascadeFlag(cmd *cobra.Command, opts *rootOpts, flagValue bool) (bool, error) {
	if cmd.Flags().Changed("cascade") {
		return flagValue, nil
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return false, err
	}
	return cfg.Projects.Cascade(), nil
}

func parsePhaseArg(s string) (phase.Phase, error) {
	if s == "" {
		return "", nil
	}
	p, ok := phase.Parse(s)
	if !ok {
		return "", fmt.Errorf("unknown phase %q (want one of %s)", s, phaseNames())
	}
	return p, nil
}

func phaseNames() string {
	names := make([]string, len(phase.All))
	for i, p := range phase.All {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// parseDateArg accepts YYYY-MM-DD or "clear", which yields the zero date.
func parseDateArg(s string) (civil.Date, error) {
	if strings.EqualFold(s, "clear") || s == "" {
		return civil.Date{}, nil
	}
	d, ok := civil.Parse(s)
	if !ok {
		return civil.Date{}, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

// projectID normalizes a user-typed id, so "sw-2401" finds SW-2401.
func projectID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
