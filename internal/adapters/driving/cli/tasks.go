package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

var tasksLimit int

var tasksCmd = &cobra.Command{
	Use:   "tasks [task-id]",
	Short: "Show scheduled task state and history",
	Long: `Shows the scheduled tasks recorded in the state database, or the recent
runs of one task when a task ID is given. Task IDs are search-incremental,
search-full-rebuild and route-refresh.

History is only kept when state.dir is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTasks,
}

func init() {
	tasksCmd.Flags().IntVarP(&tasksLimit, "limit", "n", 10, "number of runs to show for a task")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if rt.config.State.Dir == "" {
		cmd.Println("No state directory configured; task history is kept in memory by running servers.")
		cmd.Println("Set state.dir to record it, e.g. 'folio config set state.dir /var/lib/folio'.")
		return nil
	}

	db, err := sqlite.NewStore(rt.config.State.Dir)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer db.Close()
	store := db.SchedulerStore()

	st := stylesFor(cmd.OutOrStdout())
	if len(args) == 1 {
		return showTaskHistory(cmd, store, args[0], st)
	}
	return showTasks(cmd, store, st)
}

func showTasks(cmd *cobra.Command, store driven.SchedulerStore, st outputStyles) error {
	tasks, err := store.ListTasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println("No tasks recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tINTERVAL\tENABLED\tLAST RUN\tNEXT RUN\tSTATUS")
	for i := range tasks {
		task := &tasks[i]
		status := st.Success.Render("ok")
		switch {
		case task.LastRun.IsZero():
			status = st.Muted.Render("never run")
		case task.LastError != "":
			status = st.Error.Render(task.LastError)
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\n",
			task.ID, task.Interval, task.Enabled, formatTime(task.LastRun), formatTime(task.NextRun), status)
	}
	return w.Flush()
}

func showTaskHistory(cmd *cobra.Command, store driven.SchedulerStore, taskID string, st outputStyles) error {
	task, err := store.GetTask(cmd.Context(), taskID)
	if err != nil {
		return fmt.Errorf("getting task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("%w: task %q", domain.ErrNotFound, taskID)
	}

	results, err := store.GetTaskHistory(cmd.Context(), taskID, tasksLimit)
	if err != nil {
		return fmt.Errorf("getting task history: %w", err)
	}

	cmd.Println(st.Title.Render(task.Name) + " " + st.Muted.Render("("+task.ID+")"))
	if len(results) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}
	return writeTaskResults(cmd.OutOrStdout(), results, st)
}

func writeTaskResults(out io.Writer, results []domain.TaskResult, st outputStyles) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDURATION\tITEMS\tRESULT")
	for _, r := range results {
		result := st.Success.Render("ok")
		if !r.Success {
			result = st.Error.Render("failed: " + r.Error)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			formatTime(r.StartedAt), r.Duration().Round(time.Millisecond), r.ItemsProcessed, result)
	}
	return w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
