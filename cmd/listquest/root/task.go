package root

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"listquest/internal/app"
	"listquest/internal/records"
	"listquest/internal/recurring"
	"listquest/internal/ui"
)

func newTaskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage today's tasks and the repeat list",
	}
	cmd.AddCommand(
		newTaskAddCmd(opts),
		newTaskListCmd(opts),
		newTaskDoneCmd(opts),
		newTaskRmCmd(opts),
		newTaskSortCmd(opts),
		newTaskMoveCmd(opts),
	)
	return cmd
}

func taskList(later bool) app.List {
	if later {
		return app.ListRepeat
	}
	return app.ListCurrent
}

func idArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("id is required")
	}
	if _, err := parseID(args[0]); err != nil {
		return err
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", s)
	}
	return id, nil
}

func newTaskAddCmd(opts *options) *cobra.Command {
	var (
		steps  []string
		start  string
		repeat bool
		every  string
		later  bool
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(steps) > 3 {
				return errors.New("at most three steps")
			}
			in := app.TaskInput{Title: args[0], Repeat: repeat || cmd.Flags().Changed("every")}
			for i, s := range steps {
				switch i {
				case 0:
					in.FirstStep = s
				case 1:
					in.SecondStep = s
				case 2:
					in.ThirdStep = s
				}
			}
			if start != "" {
				d, err := civil.ParseDate(start)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
				in.StartDate = d
			}
			interval, err := recurring.ParseInterval(every)
			if err != nil {
				return err
			}
			in.Interval = interval

			return mutate(cmd.Context(), opts, func(s *session) error {
				r, err := s.app.AddTask(taskList(later), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(fmt.Sprintf("Added task #%d", r.ID())), r.Task().Title)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&steps, "step", "s", nil, "A step of the task (repeatable, up to 3)")
	cmd.Flags().StringVar(&start, "start", "", "Start date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVarP(&repeat, "repeat", "r", false, "Repeat the task after it is done")
	cmd.Flags().StringVarP(&every, "every", "e", "day", "Repeat interval (day|week|month|year)")
	cmd.Flags().BoolVarP(&later, "later", "l", false, "Add to the repeat list instead of today")
	return cmd
}

func newTaskListCmd(opts *options) *cobra.Command {
	var later bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's tasks (or the repeat list)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskList(cmd, opts, later)
		},
	}
	cmd.Flags().BoolVarP(&later, "later", "l", false, "List the repeat list")
	return cmd
}

func runTaskList(cmd *cobra.Command, opts *options, later bool) error {
	return mutate(cmd.Context(), opts, func(s *session) error {
		list := taskList(later)
		store, err := s.app.Store(list)
		if err != nil {
			return err
		}
		title := "Today"
		if later {
			title = "Later"
		}
		printTasks(cmd.OutOrStdout(), title, store)
		return nil
	})
}

func printTasks(w io.Writer, title string, store *records.Store) {
	fmt.Fprintln(w, ui.Heading(ui.IconDone, title))
	if store.Len() == 0 {
		fmt.Fprintln(w, ui.Muted.Render("  nothing here"))
		return
	}
	for r := range store.All() {
		t := r.Task()
		line := fmt.Sprintf("%4d  %s  %s", r.ID(), t.StartDate, t.Title)
		if t.Repeat {
			line += ui.Muted.Render(fmt.Sprintf("  %s every %s", ui.IconLoop, t.Interval))
		}
		fmt.Fprintln(w, line)
		for _, step := range t.Steps() {
			fmt.Fprintln(w, ui.Muted.Render("        - "+step))
		}
	}
}

func newTaskDoneCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task from today's list",
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			return mutate(cmd.Context(), opts, func(s *session) error {
				c, err := s.app.CompleteTask(id)
				if err != nil {
					return err
				}
				printAward(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

func printAward(w io.Writer, c *app.Completion) {
	fmt.Fprintf(w, "%s %s\n", ui.Good.Render(fmt.Sprintf("+%d xp", c.Award.XP)), c.Award.Name)
	if c.Next != nil {
		fmt.Fprintln(w, ui.Muted.Render(fmt.Sprintf("%s next on %s (#%d)", ui.IconLoop, c.Next.Task().StartDate, c.Next.ID())))
	}
	if c.Award.LevelsGained > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.BadgeLevelUp, ui.Gold.Render(fmt.Sprintf("level %d", c.Award.Level)))
	}
}

func newTaskRmCmd(opts *options) *cobra.Command {
	var (
		later        bool
		noReschedule bool
	)
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task without completing it",
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			return mutate(cmd.Context(), opts, func(s *session) error {
				next, err := s.app.DeleteTask(taskList(later), id, app.DeleteOptions{SkipReschedule: noReschedule})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
				if next != nil {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("%s next on %s (#%d)", ui.IconLoop, next.Task().StartDate, next.ID())))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&later, "later", "l", false, "Delete from the repeat list")
	cmd.Flags().BoolVar(&noReschedule, "no-reschedule", false, "Drop a repeating task instead of scheduling its next occurrence")
	return cmd
}

func newTaskSortCmd(opts *options) *cobra.Command {
	var later bool
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort tasks by start date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd.Context(), opts, func(s *session) error {
				list := taskList(later)
				if err := s.app.Sort(list); err != nil {
					return err
				}
				store, _ := s.app.Store(list)
				printTasks(cmd.OutOrStdout(), "Sorted", store)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&later, "later", "l", false, "Sort the repeat list")
	return cmd
}

func newTaskMoveCmd(opts *options) *cobra.Command {
	var (
		later  bool
		before int64
	)
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a task before another one (or to the end)",
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			return mutate(cmd.Context(), opts, func(s *session) error {
				if err := s.app.Move(taskList(later), id, before); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved task #%d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&later, "later", "l", false, "Move within the repeat list")
	cmd.Flags().Int64Var(&before, "before", 0, "Place before this task id (0 = end)")
	return cmd
}
